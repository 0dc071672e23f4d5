package stream

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/labi-le/ttybox/pkg/clip"
)

func TestPayloadArgWinsOverStdin(t *testing.T) {
	s := Source{
		Arg:   "from-arg",
		Stdin: strings.NewReader("from-stdin"),
	}

	p, err := s.Payload()
	if err != nil {
		t.Fatalf("Payload() error: %v", err)
	}
	if diff := cmp.Diff("from-arg", string(p.Bytes())); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestPayloadDashForcesStdin(t *testing.T) {
	s := Source{
		Arg:   "-",
		Stdin: strings.NewReader("piped"),
		TTY:   true, // explicit "-" overrides the terminal check
	}

	p, err := s.Payload()
	if err != nil {
		t.Fatalf("Payload() error: %v", err)
	}
	if got := string(p.Bytes()); got != "piped" {
		t.Fatalf("payload = %q, want %q", got, "piped")
	}
}

func TestPayloadRefusesInteractiveStdin(t *testing.T) {
	s := Source{Stdin: strings.NewReader("never read"), TTY: true}

	if _, err := s.Payload(); !errors.Is(err, ErrNoInput) {
		t.Fatalf("Payload() error = %v, want ErrNoInput", err)
	}
}

func TestPayloadReadsPipedStdin(t *testing.T) {
	s := Source{Stdin: strings.NewReader("hello")}

	p, err := s.Payload()
	if err != nil {
		t.Fatalf("Payload() error: %v", err)
	}
	if got := string(p.Bytes()); got != "hello" {
		t.Fatalf("payload = %q, want %q", got, "hello")
	}
}

func TestPayloadEmptyStdinIsInvalid(t *testing.T) {
	s := Source{Stdin: strings.NewReader("")}

	if _, err := s.Payload(); !errors.Is(err, clip.ErrInvalidPayload) {
		t.Fatalf("Payload() error = %v, want ErrInvalidPayload", err)
	}
}

func TestPayloadMaxSize(t *testing.T) {
	t.Run("at the cap", func(t *testing.T) {
		s := Source{Stdin: strings.NewReader("12345"), MaxSize: 5}
		p, err := s.Payload()
		if err != nil {
			t.Fatalf("Payload() error: %v", err)
		}
		if p.Len() != 5 {
			t.Fatalf("payload length = %d, want 5", p.Len())
		}
	})

	t.Run("over the cap via stdin", func(t *testing.T) {
		s := Source{Stdin: strings.NewReader("123456"), MaxSize: 5}
		if _, err := s.Payload(); !errors.Is(err, clip.ErrPayloadTooLarge) {
			t.Fatalf("Payload() error = %v, want ErrPayloadTooLarge", err)
		}
	})

	t.Run("over the cap via arg", func(t *testing.T) {
		s := Source{Arg: "123456", MaxSize: 5}
		if _, err := s.Payload(); !errors.Is(err, clip.ErrPayloadTooLarge) {
			t.Fatalf("Payload() error = %v, want ErrPayloadTooLarge", err)
		}
	})
}

func TestWriteRawBytes(t *testing.T) {
	data := []byte{0x00, 0xFF, 'a', '\n', 'b'}
	p, err := clip.NewPayload(data)
	if err != nil {
		t.Fatalf("NewPayload() error: %v", err)
	}

	var out bytes.Buffer
	if err := Write(&out, p); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if diff := cmp.Diff(data, out.Bytes()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteEmptyPayloadWritesNothing(t *testing.T) {
	var out bytes.Buffer
	if err := Write(&out, clip.Payload{}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("wrote %d bytes for empty payload", out.Len())
	}
}

func TestWriteLineAppendsNewline(t *testing.T) {
	p, err := clip.NewPayload([]byte("record"))
	if err != nil {
		t.Fatalf("NewPayload() error: %v", err)
	}

	var out bytes.Buffer
	if err := WriteLine(&out, p); err != nil {
		t.Fatalf("WriteLine() error: %v", err)
	}
	if got := out.String(); got != "record\n" {
		t.Fatalf("output = %q, want %q", got, "record\n")
	}
}
