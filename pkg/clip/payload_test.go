package clip

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/labi-le/ttybox/pkg/mime"
)

func TestNewPayloadRejectsNil(t *testing.T) {
	if _, err := NewPayload(nil); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("NewPayload(nil) error = %v, want ErrInvalidPayload", err)
	}
}

func TestNewPayloadSniffsText(t *testing.T) {
	p, err := NewPayload([]byte("hello, clipboard"))
	if err != nil {
		t.Fatalf("NewPayload() error: %v", err)
	}
	if p.Kind() != mime.KindText {
		t.Fatalf("kind = %v, want text", p.Kind())
	}
	if p.MIME() != mime.TypeText {
		t.Fatalf("mime = %q, want %q", p.MIME(), mime.TypeText)
	}
}

func TestNewPayloadSniffsPNG(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}

	p, err := NewPayload(png)
	if err != nil {
		t.Fatalf("NewPayload() error: %v", err)
	}
	if p.Kind() != mime.KindBinary {
		t.Fatalf("kind = %v, want binary", p.Kind())
	}
	if p.MIME() != "image/png" {
		t.Fatalf("mime = %q, want image/png", p.MIME())
	}
}

func TestNewPayloadEmptyButPresent(t *testing.T) {
	p, err := NewPayload([]byte{})
	if err != nil {
		t.Fatalf("NewPayload() error: %v", err)
	}
	if p.Empty() {
		t.Fatal("zero-length payload reported as unset clipboard")
	}
	if p.Len() != 0 {
		t.Fatalf("length = %d, want 0", p.Len())
	}
}

func TestZeroPayloadIsEmpty(t *testing.T) {
	var p Payload
	if !p.Empty() {
		t.Fatal("zero Payload must report empty")
	}
}

func TestPayloadCopiesInput(t *testing.T) {
	src := []byte("mutable")
	p, err := NewPayload(src)
	if err != nil {
		t.Fatalf("NewPayload() error: %v", err)
	}

	src[0] = 'X'
	if diff := cmp.Diff("mutable", string(p.Bytes())); diff != "" {
		t.Fatalf("payload aliased caller memory (-want +got):\n%s", diff)
	}
}

func TestNewPayloadMimeNormalizesLabels(t *testing.T) {
	p, err := NewPayloadMime([]byte("text"), "UTF8_STRING")
	if err != nil {
		t.Fatalf("NewPayloadMime() error: %v", err)
	}
	if p.Kind() != mime.KindText {
		t.Fatalf("kind = %v, want text", p.Kind())
	}
}

func TestPayloadEqual(t *testing.T) {
	a, _ := NewPayload([]byte("same"))
	b, _ := NewPayload([]byte("same"))
	c, _ := NewPayload([]byte("other"))

	if !a.Equal(b) {
		t.Fatal("identical payloads not equal")
	}
	if a.Equal(c) {
		t.Fatal("different payloads reported equal")
	}
}
