package null_test

import (
	"context"
	"errors"
	"testing"

	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/labi-le/ttybox/pkg/clipboard/null"
)

func TestGetReportsEmptyNotError(t *testing.T) {
	p, err := null.New().Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !p.Empty() {
		t.Fatal("null backend returned a non-empty payload")
	}
}

func TestSetFailsWithNoBackend(t *testing.T) {
	p, err := clip.NewPayload([]byte("anything"))
	if err != nil {
		t.Fatalf("NewPayload: %v", err)
	}

	if err := null.New().Set(context.Background(), p); !errors.Is(err, clip.ErrNoBackend) {
		t.Fatalf("Set = %v, want ErrNoBackend", err)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	b := null.New()
	for range 2 {
		if err := b.Clear(context.Background()); err != nil {
			t.Fatalf("Clear: %v", err)
		}
	}
}

func TestWatchUnsupportedImmediately(t *testing.T) {
	upd := make(chan clip.Update)
	if err := null.New().Watch(context.Background(), upd); !errors.Is(err, clip.ErrUnsupported) {
		t.Fatalf("Watch = %v, want ErrUnsupported", err)
	}
}
