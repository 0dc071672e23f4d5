//go:build unix && !darwin

package clipboard

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/labi-le/ttybox/pkg/clipboard/external"
	"github.com/labi-le/ttybox/pkg/clipboard/null"
	"github.com/labi-le/ttybox/pkg/clipboard/osc52"
	"github.com/labi-le/ttybox/pkg/clipboard/wlr"
	"github.com/labi-le/ttybox/pkg/clipboard/x11"
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

// New builds the named backend, or detects one when name is empty.
func New(logger zerolog.Logger, name string, opts clip.Options) (clip.Backend, error) {
	opts = options(opts)

	if name == "" {
		name = detect(SystemProbe())
		logger.Debug().Str("backend", name).Msg("backend detected")
	}

	switch name {
	case BackendWLR:
		return wlr.New(logger, opts)
	case BackendX11:
		return x11.New(logger, opts)
	case BackendOSC52:
		return osc52.New(logger, opts.Selection), nil
	case BackendExternal:
		if b, ok := external.Detect(logger, opts); ok {
			return b, nil
		}
		return nil, fmt.Errorf("%w: no helper tool on PATH", clip.ErrBackendUnavailable)
	case BackendNull:
		return null.New(), nil
	default:
		// concrete tool names (xclip, wl-clipboard, ...) name an exec backend
		return external.ByName(logger, name, opts)
	}
}
