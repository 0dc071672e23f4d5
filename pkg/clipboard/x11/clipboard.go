// Package x11 implements the clipboard over X selections with jezek/xgb.
// X is an ownership-model system: Set claims the selection and the process
// serves conversion requests through pkg/clipboard/owner until another
// client takes over. Change watching uses the XFixes selection events.
package x11

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xfixes"
	"github.com/jezek/xgb/xproto"
	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/labi-le/ttybox/pkg/clipboard/owner"
	"github.com/labi-le/ttybox/pkg/mime"
	"github.com/rs/zerolog"
)

const Name = "x11"

const (
	maxPropSize = 0x10000
	maxDataSize = 50 * 1024 * 1024

	xFixesClientMajor = 5
	xFixesClientMinor = 0
)

var _ clip.Backend = (*Clipboard)(nil)

type Clipboard struct {
	logger    zerolog.Logger
	conn      *xgb.Conn
	win       xproto.Window
	atoms     *atomCache
	selection xproto.Atom
	opts      clip.Options

	events  chan xgb.Event
	pumpErr error

	holder owner.Holder
	dedup  clip.Deduplicator
}

func New(logger zerolog.Logger, opts clip.Options) (*Clipboard, error) {
	c := &Clipboard{
		logger: logger.With().Str("component", Name).Logger(),
		opts:   opts,
		events: make(chan xgb.Event, 64),
	}
	if err := c.init(); err != nil {
		return nil, fmt.Errorf("%w: %w", clip.ErrBackendUnavailable, err)
	}

	go c.pump()
	return c, nil
}

func (c *Clipboard) init() error {
	var err error
	if c.conn, err = xgb.NewConn(); err != nil {
		return fmt.Errorf("xgb connect: %w", err)
	}

	if err := xfixes.Init(c.conn); err != nil {
		return fmt.Errorf("xfixes init: %w", err)
	}
	if _, err := xfixes.QueryVersion(c.conn, xFixesClientMajor, xFixesClientMinor).Reply(); err != nil {
		return fmt.Errorf("xfixes query version: %w", err)
	}

	if c.atoms, err = loadAtoms(c.conn); err != nil {
		return fmt.Errorf("load atoms: %w", err)
	}

	c.selection = c.atoms.Clipboard
	if c.opts.Selection == clip.SelectionPrimary {
		c.selection = c.atoms.Primary
	}

	screen := xproto.Setup(c.conn).DefaultScreen(c.conn)
	if c.win, err = xproto.NewWindowId(c.conn); err != nil {
		return err
	}

	err = xproto.CreateWindowChecked(
		c.conn,
		screen.RootDepth,
		c.win,
		screen.Root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange},
	).Check()
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	mask := xfixes.SelectionEventMaskSetSelectionOwner |
		xfixes.SelectionEventMaskSelectionWindowDestroy |
		xfixes.SelectionEventMaskSelectionClientClose
	err = xfixes.SelectSelectionInputChecked(c.conn, c.win, c.selection, uint32(mask)).Check()
	if err != nil {
		return fmt.Errorf("select selection input: %w", err)
	}

	return nil
}

// pump is the single reader of the X connection; every operation consumes
// from c.events. The channel closes when the connection dies.
func (c *Clipboard) pump() {
	defer close(c.events)

	for {
		ev, err := c.conn.WaitForEvent()
		if err != nil {
			continue // per-request X errors, not connection loss
		}
		if ev == nil {
			c.pumpErr = errors.New("x11 connection closed")
			return
		}
		c.events <- ev
	}
}

func (c *Clipboard) Name() string      { return Name }
func (c *Clipboard) Model() clip.Model { return clip.ModelOwnership }

func (c *Clipboard) Close() error {
	c.holder.Drop()
	c.conn.Close()
	return nil
}

func (c *Clipboard) Get(ctx context.Context) (clip.Payload, error) {
	timeout := c.opts.GetTimeout
	if timeout <= 0 {
		timeout = clip.DefaultOptions.GetTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reply, err := xproto.GetSelectionOwner(c.conn, c.selection).Reply()
	if err != nil {
		return clip.Payload{}, fmt.Errorf("%w: %w", clip.ErrBackendUnavailable, err)
	}
	if reply.Owner == xproto.WindowNone {
		return clip.Payload{}, nil
	}

	target, err := c.pickTarget(ctx)
	if err != nil {
		return clip.Payload{}, err
	}
	if target == 0 {
		return clip.Payload{}, nil
	}

	data, err := c.convert(ctx, target)
	if err != nil {
		return clip.Payload{}, err
	}
	if len(data) == 0 {
		return clip.Payload{}, nil
	}

	switch target {
	case c.atoms.Utf8String, c.atoms.String:
		return clip.NewPayloadMime(data, mime.TypeText)
	case c.atoms.ImagePng:
		return clip.NewPayloadMime(data, "image/png")
	default:
		return clip.NewPayload(data)
	}
}

// pickTarget asks the owner for its TARGETS list and chooses the richest
// supported representation.
func (c *Clipboard) pickTarget(ctx context.Context) (xproto.Atom, error) {
	raw, err := c.convert(ctx, c.atoms.Targets)
	if err != nil {
		return 0, err
	}

	ids := make([]xproto.Atom, len(raw)/4)
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &ids); err != nil {
		return 0, fmt.Errorf("parse targets: %w", err)
	}

	has := func(target xproto.Atom) bool {
		for _, id := range ids {
			if id == target {
				return true
			}
		}
		return false
	}

	switch {
	case has(c.atoms.ImagePng):
		return c.atoms.ImagePng, nil
	case has(c.atoms.Utf8String):
		return c.atoms.Utf8String, nil
	case has(c.atoms.String):
		return c.atoms.String, nil
	}
	return 0, nil
}

// convert runs one ConvertSelection round trip and reads the resulting
// property, following the INCR protocol for large transfers.
func (c *Clipboard) convert(ctx context.Context, target xproto.Atom) ([]byte, error) {
	xproto.ConvertSelection(c.conn, c.win, c.selection, target, c.atoms.LocalProp, xproto.TimeCurrentTime)

	for {
		ev, err := c.nextEvent(ctx)
		if err != nil {
			return nil, err
		}

		notify, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok || notify.Requestor != c.win {
			continue
		}
		if notify.Property == xproto.AtomNone {
			return nil, nil // owner cannot convert to this target
		}

		probe, err := xproto.GetProperty(c.conn, false, c.win, notify.Property, xproto.GetPropertyTypeAny, 0, 0).Reply()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", clip.ErrBackendLost, err)
		}

		if probe.Type == c.atoms.Incr {
			return c.readIncr(ctx, notify.Property)
		}

		full, err := xproto.GetProperty(c.conn, true, c.win, notify.Property, xproto.GetPropertyTypeAny, 0, maxPropSize).Reply()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", clip.ErrBackendLost, err)
		}
		return full.Value, nil
	}
}

func (c *Clipboard) readIncr(ctx context.Context, prop xproto.Atom) ([]byte, error) {
	xproto.DeleteProperty(c.conn, c.win, prop)

	var buf bytes.Buffer
	buf.Grow(4096)

	for {
		ev, err := c.nextEvent(ctx)
		if err != nil {
			return nil, err
		}

		event, ok := ev.(xproto.PropertyNotifyEvent)
		if !ok || event.Window != c.win || event.Atom != prop || event.State != xproto.PropertyNewValue {
			continue
		}

		reply, err := xproto.GetProperty(c.conn, true, c.win, prop, xproto.GetPropertyTypeAny, 0, maxPropSize).Reply()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", clip.ErrBackendLost, err)
		}

		if len(reply.Value) == 0 {
			return buf.Bytes(), nil
		}
		if buf.Len()+len(reply.Value) > maxDataSize {
			return nil, fmt.Errorf("%w: INCR transfer exceeded %d bytes", clip.ErrPayloadTooLarge, maxDataSize)
		}
		buf.Write(reply.Value)
	}
}

func (c *Clipboard) nextEvent(ctx context.Context) (xgb.Event, error) {
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: selection conversion", clip.ErrTimeout)
		}
		return nil, ctx.Err()
	case ev, ok := <-c.events:
		if !ok {
			return nil, fmt.Errorf("%w: %w", clip.ErrBackendLost, c.pumpErr)
		}
		return ev, nil
	}
}

// Set claims selection ownership and blocks serving conversion requests
// until the session ends; see pkg/clipboard/owner.
func (c *Clipboard) Set(ctx context.Context, p clip.Payload) error {
	c.dedup.Mark(p.Bytes())

	opts := owner.DefaultOptions
	opts.IdleTimeout = c.opts.IdleTimeout

	session, err := c.holder.Replace(ctx, &service{c: c}, p, opts, c.logger)
	if err != nil {
		return err
	}
	return session.Wait()
}

func (c *Clipboard) Clear(ctx context.Context) error {
	c.holder.Drop()

	err := xproto.SetSelectionOwnerChecked(c.conn, xproto.WindowNone, c.selection, xproto.TimeCurrentTime).Check()
	if err != nil {
		return fmt.Errorf("%w: disown selection: %w", clip.ErrBackendUnavailable, err)
	}
	return nil
}

func (c *Clipboard) Watch(ctx context.Context, upd chan<- clip.Update) error {
	defer close(upd)

	for {
		ev, err := c.nextEvent(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		e, ok := ev.(xfixes.SelectionNotifyEvent)
		if !ok || e.Selection != c.selection || e.Owner == c.win {
			continue
		}

		p, err := c.Get(ctx)
		if err != nil {
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
