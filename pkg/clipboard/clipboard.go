// Package clipboard picks the platform backend. Detection is deterministic:
// session environment first (Wayland before X11 on unix, since an X DISPLAY
// is usually also present under XWayland), then the controlling terminal,
// then external helper tools, and the null backend when nothing matches.
package clipboard

import "github.com/labi-le/ttybox/pkg/clip"

// Backend names accepted as an explicit override.
const (
	BackendWLR      = "wlr"
	BackendX11      = "x11"
	BackendOSC52    = "osc52"
	BackendExternal = "external"
	BackendMac      = "mac"
	BackendXDesign  = "xdesign"
	BackendNull     = "null"
)

// Probe answers the environment questions detection asks. Tests substitute
// their own.
type Probe struct {
	// LookupEnv reports whether the variable is set in the session.
	LookupEnv func(key string) (string, bool)

	// LookPath reports whether the named helper tool is on PATH.
	LookPath func(tool string) bool

	// TTY reports whether a controlling terminal is available and usable.
	TTY func() bool
}

func (p Probe) hasEnv(key string) bool {
	_, ok := p.LookupEnv(key)
	return ok
}

// helperTools are the exec backends checked during detection, in preference
// order.
var helperTools = []string{"wl-copy", "xclip", "xsel", "termux-clipboard-get", "pbcopy"}

// detect resolves the backend name for a unix session.
func detect(p Probe) string {
	switch {
	case p.hasEnv("WAYLAND_DISPLAY"), p.hasEnv("WAYLAND_SOCKET"):
		return BackendWLR
	case p.hasEnv("DISPLAY"):
		return BackendX11
	case p.TTY():
		return BackendOSC52
	}
	for _, tool := range helperTools {
		if p.LookPath(tool) {
			return BackendExternal
		}
	}
	return BackendNull
}

// options fills selector-level defaults.
func options(opts clip.Options) clip.Options {
	if opts.GetTimeout <= 0 {
		opts.GetTimeout = clip.DefaultOptions.GetTimeout
	}
	if opts.PollTick <= 0 {
		opts.PollTick = clip.DefaultOptions.PollTick
	}
	return opts
}
