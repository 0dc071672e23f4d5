//go:build unix

package pipe_test

import (
	"bytes"
	"testing"

	"github.com/labi-le/ttybox/pkg/pipe"
)

func TestDrainRoundTrip(t *testing.T) {
	p, err := pipe.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	want := bytes.Repeat([]byte{0x00, 0xFF, 0x10, 0x7f}, 4096)

	go func() {
		_, _ = p.WriteEnd().Write(want)
		_ = p.WriteEnd().Close()
	}()

	got, err := pipe.Drain(p.ReadEnd().Fd())
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Drain returned %d bytes, want %d", len(got), len(want))
	}
}

func TestDrainEmptyWriterClose(t *testing.T) {
	p, err := pipe.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	_ = p.WriteEnd().Close()

	got, err := pipe.Drain(p.ReadEnd().Fd())
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Drain on closed empty pipe returned %d bytes", len(got))
	}
}
