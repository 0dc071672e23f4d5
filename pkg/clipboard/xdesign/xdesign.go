//go:build windows

// Package xdesign implements the clipboard on Windows through
// golang.design/x/clipboard, which wraps the Win32 clipboard. Windows keeps
// the data itself, so this is a buffered backend.
package xdesign

import (
	"context"
	"fmt"

	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/labi-le/ttybox/pkg/mime"
	"github.com/rs/zerolog"
	xclipboard "golang.design/x/clipboard"
)

const Name = "xdesign"

var _ clip.Backend = (*Clipboard)(nil)

type Clipboard struct {
	logger zerolog.Logger
	opts   clip.Options
	dedup  clip.Deduplicator
}

func New(logger zerolog.Logger, opts clip.Options) (*Clipboard, error) {
	if opts.Selection == clip.SelectionPrimary {
		return nil, fmt.Errorf("%w: no primary selection on this platform", clip.ErrUnsupported)
	}
	if err := xclipboard.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", clip.ErrBackendUnavailable, err)
	}
	return &Clipboard{
		logger: logger.With().Str("component", Name).Logger(),
		opts:   opts,
	}, nil
}

func (c *Clipboard) Name() string      { return Name }
func (c *Clipboard) Model() clip.Model { return clip.ModelBuffered }

func (c *Clipboard) Get(ctx context.Context) (clip.Payload, error) {
	if data := xclipboard.Read(xclipboard.FmtImage); len(data) > 0 {
		return clip.NewPayloadMime(data, "image/png")
	}
	if data := xclipboard.Read(xclipboard.FmtText); len(data) > 0 {
		return clip.NewPayloadMime(data, mime.TypeText)
	}
	return clip.Payload{}, nil
}

func (c *Clipboard) Set(ctx context.Context, p clip.Payload) error {
	format := xclipboard.FmtText
	if p.Kind() == mime.KindBinary {
		format = xclipboard.FmtImage
	}
	xclipboard.Write(format, p.Bytes())
	c.dedup.Mark(p.Bytes())
	return nil
}

func (c *Clipboard) Clear(ctx context.Context) error {
	xclipboard.Write(xclipboard.FmtText, nil)
	return nil
}

func (c *Clipboard) Watch(ctx context.Context, upd chan<- clip.Update) error {
	defer close(upd)

	text := xclipboard.Watch(ctx, xclipboard.FmtText)
	image := xclipboard.Watch(ctx, xclipboard.FmtImage)

	for {
		var (
			data []byte
			typ  string
		)
		select {
		case <-ctx.Done():
			return nil
		case data = <-text:
			typ = mime.TypeText
		case data = <-image:
			typ = "image/png"
		}
		if len(data) == 0 {
			continue
		}

		h, changed := c.dedup.Check(data)
		if !changed {
			continue
		}
		p, err := clip.NewPayloadMime(data, typ)
		if err != nil {
			continue
		}
		select {
		case upd <- clip.Update{Payload: p, Hash: h}:
		case <-ctx.Done():
			return nil
		}
	}
}
