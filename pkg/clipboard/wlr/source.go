//go:build unix

package wlr

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/labi-le/ttybox/pkg/clipboard/owner"
	"github.com/labi-le/ttybox/pkg/mime"
)

// textLabels are the aliases offered alongside each other for text payloads;
// different requesters ask for different ones.
var textLabels = []string{
	"text/plain;charset=utf-8",
	"text/plain",
	"UTF8_STRING",
	"STRING",
	"TEXT",
}

// sourceService adapts a zwlr data source to the owner.Service contract.
// Claim publishes the source as the selection; Next pumps the connection and
// surfaces send requests as transfers and cancellation as loss.
type sourceService struct {
	c      *Clipboard
	source *ZwlrDataControlSourceV1
	events chan owner.Event
}

var _ owner.Service = (*sourceService)(nil)

func newSourceService(c *Clipboard) *sourceService {
	return &sourceService{
		c:      c,
		events: make(chan owner.Event, 16),
	}
}

func (s *sourceService) Claim(ctx context.Context, p clip.Payload) error {
	c := s.c

	src := c.manager.CreateDataSource()
	src.Listener = s

	for _, label := range offeredLabels(p) {
		src.Offer(label)
	}

	if c.opts.Selection == clip.SelectionPrimary {
		c.device.SetPrimarySelection(src)
	} else {
		c.device.SetSelection(src)
	}
	s.source = src

	if err := c.roundTrip(ctx); err != nil {
		return fmt.Errorf("%w: publish selection: %w", clip.ErrBackendUnavailable, err)
	}
	return nil
}

func (s *sourceService) Next(ctx context.Context) (owner.Event, error) {
	c := s.c

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev := <-s.events:
			return ev, nil
		case wlEv, ok := <-c.client.Events():
			if !ok {
				return nil, errors.New("wayland connection closed")
			}
			if err := wlEv(); err != nil {
				return nil, fmt.Errorf("dispatch: %w", err)
			}
		}
	}
}

func (s *sourceService) Release() error {
	c := s.c

	if s.source == nil {
		return nil
	}
	s.source.Destroy()
	s.source = nil

	// destroying a live source already unsets the selection compositor-side
	return c.roundTrip(context.Background())
}

// Send and Cancelled are the wire listener callbacks; they run inside Next's
// dispatch and only queue, so the buffer keeps dispatch from blocking.

func (s *sourceService) Send(mimeType string, fd *os.File) {
	select {
	case s.events <- owner.Transfer{
		Target:  mimeType,
		Deliver: func(ctx context.Context, p clip.Payload) error { return writeAll(ctx, fd, p.Bytes()) },
	}:
	default:
		fd.Close() // requester flood, drop
	}
}

func (s *sourceService) Cancelled() {
	select {
	case s.events <- owner.Lost{}:
	default:
	}
}

// writeAll streams the payload into the requester's pipe. A dead context
// means the session no longer owns the content; the pipe is closed unwritten
// and the requester reads EOF.
func writeAll(ctx context.Context, f *os.File, data []byte) error {
	defer f.Close()

	for len(data) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("refusing stale transfer: %w", err)
		}
		n, err := f.Write(data)
		data = data[n:]
		if err != nil {
			return err
		}
	}
	return nil
}

func offeredLabels(p clip.Payload) []string {
	if p.Kind() == mime.KindText {
		return textLabels
	}
	return []string{p.MIME()}
}
