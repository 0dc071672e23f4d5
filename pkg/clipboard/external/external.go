//go:build unix

// Package external drives command-line clipboard tools (wl-clipboard, xclip,
// xsel, termux-api, pbcopy). The tools hand the data to a service that
// outlives them, so from this process's point of view the model is buffered.
// Change watching is polling with content-hash dedup; the tools expose no
// notification channel.
package external

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/rs/zerolog"
)

type tool struct {
	name    string
	probe   string
	primary bool

	get   func(sel clip.Selection) []string
	set   func(sel clip.Selection) []string
	clear func(sel clip.Selection) []string
}

func selArg(sel clip.Selection, clipboard, primary string) string {
	if sel == clip.SelectionPrimary {
		return primary
	}
	return clipboard
}

var tools = []tool{
	{
		name:    "wl-clipboard",
		probe:   "wl-copy",
		primary: true,
		get: func(sel clip.Selection) []string {
			args := []string{"wl-paste", "--no-newline"}
			if sel == clip.SelectionPrimary {
				args = append(args, "--primary")
			}
			return args
		},
		set: func(sel clip.Selection) []string {
			args := []string{"wl-copy"}
			if sel == clip.SelectionPrimary {
				args = append(args, "--primary")
			}
			return args
		},
		clear: func(sel clip.Selection) []string {
			args := []string{"wl-copy", "--clear"}
			if sel == clip.SelectionPrimary {
				args = append(args, "--primary")
			}
			return args
		},
	},
	{
		name:    "xclip",
		probe:   "xclip",
		primary: true,
		get: func(sel clip.Selection) []string {
			return []string{"xclip", "-out", "-selection", selArg(sel, "clipboard", "primary")}
		},
		set: func(sel clip.Selection) []string {
			return []string{"xclip", "-in", "-selection", selArg(sel, "clipboard", "primary")}
		},
	},
	{
		name:    "xsel",
		probe:   "xsel",
		primary: true,
		get: func(sel clip.Selection) []string {
			return []string{"xsel", "--output", selArg(sel, "--clipboard", "--primary")}
		},
		set: func(sel clip.Selection) []string {
			return []string{"xsel", "--input", selArg(sel, "--clipboard", "--primary")}
		},
		clear: func(sel clip.Selection) []string {
			return []string{"xsel", "--clear", selArg(sel, "--clipboard", "--primary")}
		},
	},
	{
		name:  "termux",
		probe: "termux-clipboard-get",
		get:   func(clip.Selection) []string { return []string{"termux-clipboard-get"} },
		set:   func(clip.Selection) []string { return []string{"termux-clipboard-set"} },
	},
	{
		name:  "pbcopy",
		probe: "pbpaste",
		get:   func(clip.Selection) []string { return []string{"pbpaste"} },
		set:   func(clip.Selection) []string { return []string{"pbcopy"} },
	},
}

type Clipboard struct {
	logger zerolog.Logger
	tool   tool
	sel    clip.Selection
	tick   time.Duration
	dedup  clip.Deduplicator
}

// Detect returns a backend for the first clipboard tool present in PATH.
func Detect(logger zerolog.Logger, opts clip.Options) (*Clipboard, bool) {
	for _, t := range tools {
		if _, err := exec.LookPath(t.probe); err != nil {
			continue
		}
		c, err := newClipboard(logger, t, opts)
		if err != nil {
			continue
		}
		return c, true
	}
	return nil, false
}

// ByName returns the backend for one specific tool.
func ByName(logger zerolog.Logger, name string, opts clip.Options) (*Clipboard, error) {
	for _, t := range tools {
		if t.name != name {
			continue
		}
		if _, err := exec.LookPath(t.probe); err != nil {
			return nil, fmt.Errorf("%w: %s not in PATH", clip.ErrBackendUnavailable, t.probe)
		}
		return newClipboard(logger, t, opts)
	}
	return nil, fmt.Errorf("%w: unknown clipboard tool %q", clip.ErrBackendUnavailable, name)
}

func newClipboard(logger zerolog.Logger, t tool, opts clip.Options) (*Clipboard, error) {
	if opts.Selection == clip.SelectionPrimary && !t.primary {
		return nil, fmt.Errorf("%w: %s has no primary selection", clip.ErrUnsupported, t.name)
	}

	tick := opts.PollTick
	if tick <= 0 {
		tick = clip.DefaultOptions.PollTick
	}

	return &Clipboard{
		logger: logger.With().Str("component", "external").Str("tool", t.name).Logger(),
		tool:   t,
		sel:    opts.Selection,
		tick:   tick,
	}, nil
}

func (c *Clipboard) Name() string      { return c.tool.name }
func (c *Clipboard) Model() clip.Model { return clip.ModelBuffered }

func (c *Clipboard) Get(ctx context.Context) (clip.Payload, error) {
	argv := c.tool.get(c.sel)
	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).Output()
	if err != nil {
		// Exit status 1 is how these tools report an empty clipboard.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return clip.Payload{}, nil
		}
		if ctx.Err() != nil {
			return clip.Payload{}, fmt.Errorf("%w: %s", clip.ErrTimeout, argv[0])
		}
		return clip.Payload{}, fmt.Errorf("%w: %s: %w", clip.ErrBackendUnavailable, argv[0], err)
	}
	if len(out) == 0 {
		return clip.Payload{}, nil
	}
	return clip.NewPayload(out)
}

func (c *Clipboard) Set(ctx context.Context, p clip.Payload) error {
	c.dedup.Mark(p.Bytes())

	argv := c.tool.set(c.sel)
	if err := runWithStdin(ctx, argv, p.Bytes()); err != nil {
		return fmt.Errorf("%w: %s: %w", clip.ErrBackendUnavailable, argv[0], err)
	}
	return nil
}

func (c *Clipboard) Clear(ctx context.Context) error {
	if c.tool.clear != nil {
		argv := c.tool.clear(c.sel)
		if err := exec.CommandContext(ctx, argv[0], argv[1:]...).Run(); err != nil {
			return fmt.Errorf("%w: %s: %w", clip.ErrBackendUnavailable, argv[0], err)
		}
		return nil
	}

	argv := c.tool.set(c.sel)
	if err := runWithStdin(ctx, argv, nil); err != nil {
		return fmt.Errorf("%w: %s: %w", clip.ErrBackendUnavailable, argv[0], err)
	}
	return nil
}

func (c *Clipboard) Watch(ctx context.Context, upd chan<- clip.Update) error {
	defer close(upd)

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p, err := c.Get(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Error().Err(err).Msg("poll failed")
				continue
			}
			if p.Empty() || p.Len() == 0 {
				continue
			}

			h, changed := c.dedup.Check(p.Bytes())
			if !changed {
				continue
			}

			select {
			case upd <- clip.Update{Payload: p, Hash: h}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func runWithStdin(ctx context.Context, argv []string, data []byte) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	in, err := cmd.StdinPipe()
	if err != nil {
		return err
	}

	if err = cmd.Start(); err != nil {
		return err
	}

	_, werr := in.Write(data)
	if cerr := in.Close(); werr == nil {
		werr = cerr
	}

	// always reap the child; the write error is the interesting one
	err = cmd.Wait()
	if werr != nil {
		return werr
	}
	return err
}
