//go:build darwin

package clipboard

import (
	"os"
	"os/exec"

	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/labi-le/ttybox/pkg/clipboard/external"
	"github.com/labi-le/ttybox/pkg/clipboard/mac"
	"github.com/labi-le/ttybox/pkg/clipboard/null"
	"github.com/labi-le/ttybox/pkg/clipboard/osc52"
	"github.com/rs/zerolog"
)

// SystemProbe inspects the real session.
func SystemProbe() Probe {
	return Probe{
		LookupEnv: os.LookupEnv,
		LookPath: func(tool string) bool {
			_, err := exec.LookPath(tool)
			return err == nil
		},
		TTY: osc52.Available,
	}
}

// New builds the named backend, or the native pasteboard when name is empty.
func New(logger zerolog.Logger, name string, opts clip.Options) (clip.Backend, error) {
	opts = options(opts)

	switch name {
	case "", BackendMac:
		return mac.New(logger, opts)
	case BackendOSC52:
		return osc52.New(logger, opts.Selection), nil
	case BackendExternal:
		if b, ok := external.Detect(logger, opts); ok {
			return b, nil
		}
		return mac.New(logger, opts)
	case BackendNull:
		return null.New(), nil
	default:
		return external.ByName(logger, name, opts)
	}
}
