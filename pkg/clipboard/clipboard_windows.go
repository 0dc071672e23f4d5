//go:build windows

package clipboard

import (
	"fmt"
	"os"

	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/labi-le/ttybox/pkg/clipboard/null"
	"github.com/labi-le/ttybox/pkg/clipboard/xdesign"
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

// New builds the named backend, or the Win32 clipboard when name is empty.
func New(logger zerolog.Logger, name string, opts clip.Options) (clip.Backend, error) {
	opts = options(opts)

	switch name {
	case "", BackendXDesign:
		return xdesign.New(logger, opts)
	case BackendNull:
		return null.New(), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", clip.ErrNoBackend, name)
	}
}
