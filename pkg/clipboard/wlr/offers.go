//go:build unix

package wlr

import (
	"sync"

	"github.com/rs/zerolog"
)

// offerMimes collects the MIME types a single data offer advertises. The
// offer events arrive immediately after the data_offer introduction, before
// the selection event that adopts the offer.
type offerMimes struct {
	types []string
}

func (m *offerMimes) Offer(mimeType string) {
	m.types = append(m.types, mimeType)
}

// offers is the data device listener. It tracks the live offer for one
// selection (regular or primary) and flags every adoption so Watch can react.
// Offers for the other selection are destroyed straight away.
type offers struct {
	logger  zerolog.Logger
	primary bool

	mu       sync.Mutex
	current  *ZwlrDataControlOfferV1
	mimes    []string
	changed  bool
	finished bool
}

func newOffers(logger zerolog.Logger, primary bool) *offers {
	return &offers{
		logger:  logger.With().Str("component", "offers").Logger(),
		primary: primary,
	}
}

func (o *offers) DataOffer(id *ZwlrDataControlOfferV1) {
	if id == nil {
		return
	}
	id.Listener = &offerMimes{}
}

func (o *offers) Selection(id *ZwlrDataControlOfferV1) {
	if o.primary {
		if id != nil {
			id.Destroy()
		}
		return
	}
	o.adopt(id)
}

func (o *offers) PrimarySelection(id *ZwlrDataControlOfferV1) {
	if !o.primary {
		if id != nil {
			id.Destroy()
		}
		return
	}
	o.adopt(id)
}

func (o *offers) Finished() {
	o.mu.Lock()
	o.finished = true
	o.mu.Unlock()
}

func (o *offers) adopt(id *ZwlrDataControlOfferV1) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current != nil {
		o.current.Destroy()
	}

	o.changed = true
	if id == nil {
		o.current = nil
		o.mimes = nil
		o.logger.Trace().Msg("selection cleared")
		return
	}

	o.current = id
	o.mimes = nil
	if l, ok := id.Listener.(*offerMimes); ok {
		o.mimes = l.types
	}
	o.logger.Trace().Uint32("offer", id.ID()).Strs("mimes", o.mimes).Msg("selection adopted")
}

// snapshot returns the live offer and its MIME types without consuming the
// change flag.
func (o *offers) snapshot() (*ZwlrDataControlOfferV1, []string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current, o.mimes
}

// takeChanged reports whether a new selection arrived since the last call.
func (o *offers) takeChanged() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	c := o.changed
	o.changed = false
	return c
}

func (o *offers) isFinished() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.finished
}

// pickMime chooses the representation to receive, preferring concrete binary
// types over the text aliases every clipboard manager offers.
func pickMime(available []string) string {
	preferred := []string{
		"image/png",
		"text/plain;charset=utf-8",
		"text/plain",
		"UTF8_STRING",
		"STRING",
		"TEXT",
	}
	for _, want := range preferred {
		for _, have := range available {
			if have == want {
				return have
			}
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return ""
}
