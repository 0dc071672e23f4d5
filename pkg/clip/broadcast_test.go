package clip

import (
	"context"
	"testing"
	"time"
)

func update(t *testing.T, content string) Update {
	t.Helper()
	p, err := NewPayload([]byte(content))
	if err != nil {
		t.Fatalf("NewPayload() error: %v", err)
	}
	return Update{Payload: p}
}

func collect(t *testing.T, ch <-chan Update, n int) []string {
	t.Helper()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		select {
		case u := <-ch:
			out = append(out, string(u.Payload.Bytes()))
		case <-time.After(time.Second):
			t.Fatalf("timed out after %d of %d updates", i, n)
		}
	}
	return out
}

func TestBroadcastOrderPerSubscriber(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	first, cancel1 := b.Subscribe()
	defer cancel1()
	second, cancel2 := b.Subscribe()
	defer cancel2()

	for _, s := range []string{"one", "two", "three"} {
		b.Publish(update(t, s))
	}

	want := []string{"one", "two", "three"}
	for name, ch := range map[string]<-chan Update{"first": first, "second": second} {
		got := collect(t, ch, 3)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s subscriber got %v, want %v", name, got, want)
			}
		}
	}
}

func TestBroadcastSlowSubscriberDoesNotBlockSiblings(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	slow, cancelSlow := b.Subscribe() // never read until the end
	defer cancelSlow()
	fast, cancelFast := b.Subscribe()
	defer cancelFast()

	for i := 0; i < 100; i++ {
		b.Publish(update(t, "payload"))
	}

	// the fast subscriber drains everything while the slow one sits idle
	collect(t, fast, 100)
	collect(t, slow, 100)
}

func TestBroadcastCancelClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	ch, cancel := b.Subscribe()
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("received update after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}

	b.Publish(update(t, "dropped")) // must not panic or block
}

func TestBroadcastCloseEndsSubscriptions(t *testing.T) {
	b := NewBroadcaster()
	ch, _ := b.Subscribe()

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("received update after close")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after broadcaster close")
	}

	late, _ := b.Subscribe()
	if _, ok := <-late; ok {
		t.Fatal("subscription on closed broadcaster delivered an update")
	}
}

// watchStub emits a fixed sequence of updates and exits.
type watchStub struct {
	updates []Update
}

func (s *watchStub) Name() string                         { return "stub" }
func (s *watchStub) Model() Model                         { return ModelBuffered }
func (s *watchStub) Get(context.Context) (Payload, error) { return Payload{}, nil }
func (s *watchStub) Set(context.Context, Payload) error   { return nil }
func (s *watchStub) Clear(context.Context) error          { return nil }

func (s *watchStub) Watch(ctx context.Context, upd chan<- Update) error {
	defer close(upd)
	for _, u := range s.updates {
		select {
		case upd <- u:
		case <-ctx.Done():
			return nil
		}
	}
	<-ctx.Done()
	return nil
}

func TestBroadcastRunPumpsBackend(t *testing.T) {
	stub := &watchStub{updates: []Update{update(t, "a"), update(t, "b")}}

	b := NewBroadcaster()
	ch, cancelSub := b.Subscribe()
	defer cancelSub()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx, stub) }()

	got := collect(t, ch, 2)
	if got[0] != "a" || got[1] != "b" {
		t.Fatalf("updates = %v, want [a b]", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
