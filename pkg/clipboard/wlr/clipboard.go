//go:build unix

// Package wlr implements the clipboard over the wlr-data-control protocol,
// the compositor-side selection interface wlroots compositors expose to
// clipboard managers. Like X selections it is an ownership model: Set
// publishes a data source and the process serves send requests through
// pkg/clipboard/owner until the source is cancelled.
package wlr

import (
	"context"
	"errors"
	"fmt"

	wl "deedles.dev/wl/client"
	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/labi-le/ttybox/pkg/clipboard/owner"
	"github.com/labi-le/ttybox/pkg/mime"
	"github.com/labi-le/ttybox/pkg/pipe"
	"github.com/rs/zerolog"
)

const Name = "wlr"

var _ clip.Backend = (*Clipboard)(nil)

type Clipboard struct {
	logger zerolog.Logger
	opts   clip.Options

	client   *wl.Client
	registry *wl.Registry
	seat     *wl.Seat
	manager  *ZwlrDataControlManagerV1
	device   *ZwlrDataControlDeviceV1
	offers   *offers

	holder owner.Holder
	dedup  clip.Deduplicator
}

func New(logger zerolog.Logger, opts clip.Options) (*Clipboard, error) {
	client, err := wl.Dial()
	if err != nil {
		return nil, fmt.Errorf("%w: wayland dial: %w", clip.ErrBackendUnavailable, err)
	}

	c := &Clipboard{
		logger: logger.With().Str("component", Name).Logger(),
		opts:   opts,
		client: client,
		offers: newOffers(logger, opts.Selection == clip.SelectionPrimary),
	}
	if err := c.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %w", clip.ErrBackendUnavailable, err)
	}
	return c, nil
}

func (c *Clipboard) setup() error {
	c.registry = c.client.Display().GetRegistry()
	c.registry.Listener = c

	if err := c.client.RoundTrip(); err != nil {
		return fmt.Errorf("registry round trip: %w", err)
	}
	if c.seat == nil {
		return errors.New("no seat advertised")
	}
	if c.manager == nil {
		return errors.New("compositor does not expose " + ZwlrDataControlManagerV1Interface)
	}

	c.device = c.manager.GetDataDevice(c.seat)
	c.device.Listener = c.offers

	// second trip pulls in the initial selection state
	if err := c.client.RoundTrip(); err != nil {
		return fmt.Errorf("device round trip: %w", err)
	}
	return nil
}

// Global and GlobalRemove make Clipboard the registry listener.

func (c *Clipboard) Global(name uint32, inter string, version uint32) {
	switch inter {
	case wl.SeatInterface:
		c.seat = wl.BindSeat(c.client, c.registry, name, version)
	case ZwlrDataControlManagerV1Interface:
		if version > ZwlrDataControlManagerV1Version {
			version = ZwlrDataControlManagerV1Version
		}
		c.manager = BindZwlrDataControlManagerV1(c.client, c.registry, name, version)
	}
}

func (c *Clipboard) GlobalRemove(uint32) {}

func (c *Clipboard) Name() string      { return Name }
func (c *Clipboard) Model() clip.Model { return clip.ModelOwnership }

func (c *Clipboard) Close() error {
	c.holder.Drop()
	return c.client.Close()
}

func (c *Clipboard) roundTrip(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- c.client.RoundTrip() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return clip.ErrTimeout
		}
		return ctx.Err()
	}
}

func (c *Clipboard) Get(ctx context.Context) (clip.Payload, error) {
	timeout := c.opts.GetTimeout
	if timeout <= 0 {
		timeout = clip.DefaultOptions.GetTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// pick up any selection change queued since the last dispatch
	if err := c.roundTrip(ctx); err != nil {
		if errors.Is(err, clip.ErrTimeout) {
			return clip.Payload{}, err
		}
		return clip.Payload{}, fmt.Errorf("%w: %w", clip.ErrBackendLost, err)
	}
	c.offers.takeChanged()

	return c.fetch(ctx)
}

// fetch receives the live offer's content over a pipe.
func (c *Clipboard) fetch(ctx context.Context) (clip.Payload, error) {
	offer, mimes := c.offers.snapshot()
	if offer == nil {
		return clip.Payload{}, nil
	}

	label := pickMime(mimes)
	if label == "" {
		c.logger.Debug().Strs("mimes", mimes).Msg("offer has no receivable type")
		return clip.Payload{}, nil
	}

	tr, err := pipe.New()
	if err != nil {
		return clip.Payload{}, fmt.Errorf("%w: %w", clip.ErrBackendUnavailable, err)
	}
	defer tr.Close()

	offer.Receive(label, tr.WriteEnd())
	err = c.roundTrip(ctx)
	tr.WriteEnd().Close()
	if err != nil {
		if errors.Is(err, clip.ErrTimeout) {
			return clip.Payload{}, err
		}
		return clip.Payload{}, fmt.Errorf("%w: %w", clip.ErrBackendLost, err)
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := pipe.Drain(tr.ReadEnd().Fd())
		done <- result{data, err}
	}()

	select {
	case <-ctx.Done():
		return clip.Payload{}, fmt.Errorf("%w: receive transfer", clip.ErrTimeout)
	case res := <-done:
		if res.err != nil {
			return clip.Payload{}, fmt.Errorf("%w: %w", clip.ErrBackendLost, res.err)
		}
		if len(res.data) == 0 {
			return clip.Payload{}, nil
		}
		if mime.IsTextLabel(label) {
			return clip.NewPayloadMime(res.data, mime.TypeText)
		}
		return clip.NewPayloadMime(res.data, label)
	}
}

// Set publishes a data source and blocks serving send requests until the
// compositor cancels it; see pkg/clipboard/owner.
func (c *Clipboard) Set(ctx context.Context, p clip.Payload) error {
	c.dedup.Mark(p.Bytes())

	opts := owner.DefaultOptions
	opts.IdleTimeout = c.opts.IdleTimeout

	session, err := c.holder.Replace(ctx, newSourceService(c), p, opts, c.logger)
	if err != nil {
		return err
	}
	return session.Wait()
}

func (c *Clipboard) Clear(ctx context.Context) error {
	c.holder.Drop()

	if c.opts.Selection == clip.SelectionPrimary {
		c.device.SetPrimarySelection(nil)
	} else {
		c.device.SetSelection(nil)
	}
	if err := c.roundTrip(ctx); err != nil {
		return fmt.Errorf("%w: unset selection: %w", clip.ErrBackendUnavailable, err)
	}
	return nil
}

func (c *Clipboard) Watch(ctx context.Context, upd chan<- clip.Update) error {
	defer close(upd)

	// the setup round trips already delivered the initial selection; report
	// changes from here on
	c.offers.takeChanged()

	for {
		select {
		case <-ctx.Done():
			return nil
		case wlEv, ok := <-c.client.Events():
			if !ok {
				return fmt.Errorf("%w: wayland connection closed", clip.ErrBackendLost)
			}
			if err := wlEv(); err != nil {
				return fmt.Errorf("%w: dispatch: %w", clip.ErrBackendLost, err)
			}
		}

		if c.offers.isFinished() {
			return fmt.Errorf("%w: data device finished", clip.ErrBackendLost)
		}
		if !c.offers.takeChanged() {
			continue
		}

		p, err := c.fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error().Err(err).Msg("fetch after selection change failed")
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
