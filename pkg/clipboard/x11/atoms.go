package x11

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

type atomCache struct {
	Clipboard   xproto.Atom
	Primary     xproto.Atom
	Targets     xproto.Atom
	Timestamp   xproto.Atom
	SaveTargets xproto.Atom
	Delete      xproto.Atom
	Incr        xproto.Atom
	Utf8String  xproto.Atom
	String      xproto.Atom
	ImagePng    xproto.Atom
	LocalProp   xproto.Atom
}

func loadAtoms(c *xgb.Conn) (*atomCache, error) {
	names := []string{
		"CLIPBOARD", "PRIMARY", "TARGETS", "TIMESTAMP", "SAVE_TARGETS",
		"DELETE", "INCR", "UTF8_STRING", "STRING", "image/png",
		"TTYBOX_SELECTION",
	}

	cookies := make([]xproto.InternAtomCookie, len(names))
	for i, name := range names {
		cookies[i] = xproto.InternAtom(c, false, uint16(len(name)), name)
	}

	atoms := make([]xproto.Atom, len(names))
	for i, cookie := range cookies {
		reply, err := cookie.Reply()
		if err != nil {
			return nil, err
		}
		atoms[i] = reply.Atom
	}

	return &atomCache{
		Clipboard:   atoms[0],
		Primary:     atoms[1],
		Targets:     atoms[2],
		Timestamp:   atoms[3],
		SaveTargets: atoms[4],
		Delete:      atoms[5],
		Incr:        atoms[6],
		Utf8String:  atoms[7],
		String:      atoms[8],
		ImagePng:    atoms[9],
		LocalProp:   atoms[10],
	}, nil
}

func (a *atomCache) intern(c *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}
