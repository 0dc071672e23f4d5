package clip

import (
	"bytes"

	"github.com/labi-le/ttybox/pkg/mime"
	"github.com/rs/zerolog"
)

// Payload is an immutable clipboard value: raw bytes tagged with a content
// kind and a MIME type label. The zero Payload means "clipboard is empty" and
// is a valid Get result, never a valid Set argument.
type Payload struct {
	kind mime.Kind
	typ  string
	data []byte
}

// NewPayload builds a payload from raw bytes, sniffing kind and MIME type.
// A nil byte source is rejected with ErrInvalidPayload; zero-length non-nil
// data is a legal (empty but present) payload.
func NewPayload(data []byte) (Payload, error) {
	if data == nil {
		return Payload{}, ErrInvalidPayload
	}
	return NewPayloadMime(data, mime.Sniff(data))
}

// NewPayloadMime builds a payload with an explicit MIME type label.
func NewPayloadMime(data []byte, typ string) (Payload, error) {
	if data == nil {
		return Payload{}, ErrInvalidPayload
	}

	kind := mime.FromLabel(typ)
	if kind == mime.KindUnknown {
		kind = mime.Detect(data)
		typ = mime.Default(kind)
	}

	owned := make([]byte, len(data))
	copy(owned, data)

	return Payload{kind: kind, typ: typ, data: owned}, nil
}

func (p Payload) Kind() mime.Kind { return p.kind }
func (p Payload) MIME() string    { return p.typ }
func (p Payload) Len() int        { return len(p.data) }

// Empty reports whether the payload represents an unset clipboard.
func (p Payload) Empty() bool { return p.data == nil }

// Bytes returns the payload content. The slice is owned by the payload and
// must not be modified.
func (p Payload) Bytes() []byte { return p.data }

// Equal reports byte-for-byte equality of content and kind.
func (p Payload) Equal(other Payload) bool {
	return p.kind == other.kind && bytes.Equal(p.data, other.data)
}

func (p Payload) MarshalZerologObject(e *zerolog.Event) {
	e.Int("length", len(p.data))
	e.Str("mime", p.typ)
	e.Stringer("kind", p.kind)
}
