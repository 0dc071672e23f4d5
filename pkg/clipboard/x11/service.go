package x11

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jezek/xgb/xfixes"
	"github.com/jezek/xgb/xproto"
	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/labi-le/ttybox/pkg/clipboard/owner"
	"github.com/labi-le/ttybox/pkg/mime"
)

// service adapts one X selection to the owner.Service contract. Claim takes
// selection ownership, Next translates the X event stream into responder
// events, Release disowns.
type service struct {
	c *Clipboard
}

var _ owner.Service = (*service)(nil)

func (s *service) Claim(ctx context.Context, _ clip.Payload) error {
	c := s.c

	err := xproto.SetSelectionOwnerChecked(c.conn, c.win, c.selection, xproto.TimeCurrentTime).Check()
	if err != nil {
		return fmt.Errorf("%w: %w", clip.ErrBackendUnavailable, err)
	}

	reply, err := xproto.GetSelectionOwner(c.conn, c.selection).Reply()
	if err != nil {
		return fmt.Errorf("%w: %w", clip.ErrBackendUnavailable, err)
	}
	if reply.Owner != c.win {
		return fmt.Errorf("%w: selection grabbed by another client during claim", clip.ErrBackendLost)
	}
	return nil
}

func (s *service) Next(ctx context.Context) (owner.Event, error) {
	c := s.c

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-c.events:
			if !ok {
				if c.pumpErr != nil {
					return nil, c.pumpErr
				}
				return nil, errors.New("x11 event stream closed")
			}

			switch ev := ev.(type) {
			case xproto.SelectionRequestEvent:
				if ev.Selection != c.selection {
					continue
				}
				return s.transfer(ev), nil

			case xproto.SelectionClearEvent:
				if ev.Selection != c.selection {
					continue
				}
				return owner.Lost{}, nil

			case xfixes.SelectionNotifyEvent:
				if ev.Selection != c.selection || ev.Owner == c.win {
					continue
				}
				return owner.Lost{}, nil
			}
		}
	}
}

func (s *service) Release() error {
	c := s.c

	reply, err := xproto.GetSelectionOwner(c.conn, c.selection).Reply()
	if err != nil {
		return err
	}
	if reply.Owner != c.win {
		return nil // already superseded
	}
	return xproto.SetSelectionOwnerChecked(c.conn, xproto.WindowNone, c.selection, xproto.TimeCurrentTime).Check()
}

func (s *service) transfer(req xproto.SelectionRequestEvent) owner.Transfer {
	c := s.c

	return owner.Transfer{
		Target: c.atomName(req.Target),
		Deliver: func(ctx context.Context, p clip.Payload) error {
			return s.answer(ctx, req, p)
		},
	}
}

// answer converts the payload for one requestor. Unsupported targets get a
// refusal (Property = None); everything else writes the property and sends a
// SelectionNotify per ICCCM. A dead context means the session no longer owns
// the payload; the requestor gets a refusal instead of superseded content.
func (s *service) answer(ctx context.Context, req xproto.SelectionRequestEvent, p clip.Payload) error {
	c := s.c

	if err := ctx.Err(); err != nil {
		s.notify(req, xproto.AtomNone)
		return fmt.Errorf("refusing stale request for %s: %w", c.atomName(req.Target), err)
	}

	property := req.Property
	if property == xproto.AtomNone {
		property = req.Target // obsolete requestors, ICCCM 2.2
	}

	var err error
	switch req.Target {
	case c.atoms.Targets:
		err = s.writeAtoms(req.Requestor, property, s.offeredTargets(p))

	case c.atoms.Timestamp:
		err = s.writeCardinal(req.Requestor, property, uint32(xproto.TimeCurrentTime))

	case c.atoms.SaveTargets, c.atoms.Delete:
		// session managers probing for persistence; acknowledge with NULL
		err = xproto.ChangePropertyChecked(c.conn, xproto.PropModeReplace,
			req.Requestor, property, xproto.AtomNone, 32, 0, nil).Check()

	case c.atoms.Utf8String, c.atoms.String:
		if p.Kind() != mime.KindText {
			property = xproto.AtomNone
			break
		}
		err = s.writeBytes(req.Requestor, property, req.Target, p.Bytes())

	case c.atoms.ImagePng:
		if p.MIME() != "image/png" {
			property = xproto.AtomNone
			break
		}
		err = s.writeBytes(req.Requestor, property, req.Target, p.Bytes())

	default:
		if c.atomName(req.Target) == p.MIME() {
			err = s.writeBytes(req.Requestor, property, req.Target, p.Bytes())
		} else {
			property = xproto.AtomNone
		}
	}
	if err != nil {
		return fmt.Errorf("write property for %s: %w", c.atomName(req.Target), err)
	}

	if err := s.notify(req, property); err != nil {
		return fmt.Errorf("notify requestor: %w", err)
	}
	return nil
}

func (s *service) notify(req xproto.SelectionRequestEvent, property xproto.Atom) error {
	notify := xproto.SelectionNotifyEvent{
		Time:      req.Time,
		Requestor: req.Requestor,
		Selection: req.Selection,
		Target:    req.Target,
		Property:  property,
	}
	return xproto.SendEventChecked(s.c.conn, false, req.Requestor,
		xproto.EventMaskNoEvent, string(notify.Bytes())).Check()
}

func (s *service) offeredTargets(p clip.Payload) []xproto.Atom {
	c := s.c

	targets := []xproto.Atom{c.atoms.Targets, c.atoms.Timestamp, c.atoms.SaveTargets}
	switch {
	case p.Kind() == mime.KindText:
		targets = append(targets, c.atoms.Utf8String, c.atoms.String)
	case p.MIME() == "image/png":
		targets = append(targets, c.atoms.ImagePng)
	default:
		if atom, err := c.atoms.intern(c.conn, p.MIME()); err == nil {
			targets = append(targets, atom)
		}
	}
	return targets
}

func (s *service) writeAtoms(win xproto.Window, prop xproto.Atom, atoms []xproto.Atom) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, atoms); err != nil {
		return err
	}
	return xproto.ChangePropertyChecked(s.c.conn, xproto.PropModeReplace,
		win, prop, xproto.AtomAtom, 32, uint32(len(atoms)), buf.Bytes()).Check()
}

func (s *service) writeCardinal(win xproto.Window, prop xproto.Atom, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return xproto.ChangePropertyChecked(s.c.conn, xproto.PropModeReplace,
		win, prop, xproto.AtomCardinal, 32, 1, buf[:]).Check()
}

func (s *service) writeBytes(win xproto.Window, prop, typ xproto.Atom, data []byte) error {
	return xproto.ChangePropertyChecked(s.c.conn, xproto.PropModeReplace,
		win, prop, typ, 8, uint32(len(data)), data).Check()
}

// atomName resolves an atom for logging and MIME matching; best effort.
func (c *Clipboard) atomName(a xproto.Atom) string {
	reply, err := xproto.GetAtomName(c.conn, a).Reply()
	if err != nil {
		return fmt.Sprintf("atom#%d", a)
	}
	return reply.Name
}
