//go:build !unix && !windows

package clipboard

import (
	"fmt"
	"os"

	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/labi-le/ttybox/pkg/clipboard/null"
	"github.com/rs/zerolog"
)

// SystemProbe inspects the real session.
func SystemProbe() Probe {
	return Probe{
		LookupEnv: os.LookupEnv,
		LookPath:  func(string) bool { return false },
		TTY:       func() bool { return false },
	}
}

// New returns the null backend; nothing else exists on this platform.
func New(logger zerolog.Logger, name string, opts clip.Options) (clip.Backend, error) {
	opts = options(opts)

	switch name {
	case "", BackendNull:
		return null.New(), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", clip.ErrNoBackend, name)
	}
}
