package owner_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/labi-le/ttybox/pkg/clipboard/owner"
	"github.com/rs/zerolog"
)

// fakeService simulates a selection protocol: the test injects transfer
// requests and ownership-loss events, and records claim/release order.
type fakeService struct {
	mu       sync.Mutex
	events   chan eventOrErr
	claimed  []clip.Payload
	released int
	claimErr error
}

type eventOrErr struct {
	ev  owner.Event
	err error
}

func newFakeService() *fakeService {
	return &fakeService{events: make(chan eventOrErr, 16)}
}

func (f *fakeService) Claim(_ context.Context, p clip.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimErr != nil {
		return f.claimErr
	}
	f.claimed = append(f.claimed, p)
	return nil
}

func (f *fakeService) Next(ctx context.Context) (owner.Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case e := <-f.events:
		return e.ev, e.err
	}
}

func (f *fakeService) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
	return nil
}

func (f *fakeService) releases() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

func (f *fakeService) inject(ev owner.Event) {
	f.events <- eventOrErr{ev: ev}
}

func (f *fakeService) fail(err error) {
	f.events <- eventOrErr{err: err}
}

func payload(t *testing.T, s string) clip.Payload {
	t.Helper()
	p, err := clip.NewPayload([]byte(s))
	if err != nil {
		t.Fatalf("NewPayload(%q): %v", s, err)
	}
	return p
}

func TestSessionServesRepeatedTransfers(t *testing.T) {
	svc := newFakeService()
	want := payload(t, "served content")

	s, err := owner.Start(context.Background(), svc, want, owner.Options{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	got := make(chan clip.Payload, 3)
	for range 3 {
		svc.inject(owner.Transfer{
			Target: "UTF8_STRING",
			Deliver: func(_ context.Context, p clip.Payload) error {
				got <- p
				return nil
			},
		})
	}

	for i := range 3 {
		select {
		case p := <-got:
			if diff := cmp.Diff(want.Bytes(), p.Bytes()); diff != "" {
				t.Errorf("transfer %d payload mismatch (-want +got):\n%s", i, diff)
			}
		case <-time.After(time.Second):
			t.Fatalf("transfer %d not served", i)
		}
	}

	select {
	case <-s.Done():
		t.Fatal("session ended after transfers; transfers must not terminate the loop")
	default:
	}

	svc.inject(owner.Lost{})
	if err := s.Wait(); err != nil {
		t.Fatalf("Wait after loss: %v", err)
	}
}

func TestSessionEndsOnOwnershipLoss(t *testing.T) {
	svc := newFakeService()

	s, err := owner.Start(context.Background(), svc, payload(t, "x"), owner.Options{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	svc.inject(owner.Lost{})

	if err := s.Wait(); err != nil {
		t.Fatalf("loss is a normal end, got %v", err)
	}
	if svc.releases() != 1 {
		t.Fatalf("released %d times, want 1", svc.releases())
	}
}

func TestSessionEndsOnCancel(t *testing.T) {
	svc := newFakeService()

	s, err := owner.Start(context.Background(), svc, payload(t, "x"), owner.Options{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	s.Cancel()
	if err := s.Wait(); err != nil {
		t.Fatalf("cancel is a normal end, got %v", err)
	}
}

func TestSessionIdleTimeout(t *testing.T) {
	svc := newFakeService()

	s, err := owner.Start(context.Background(), svc, payload(t, "x"),
		owner.Options{IdleTimeout: 20 * time.Millisecond}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := s.Wait(); err != nil {
		t.Fatalf("idle timeout is a normal end, got %v", err)
	}
}

func TestSessionSurfacesBackendLoss(t *testing.T) {
	svc := newFakeService()

	s, err := owner.Start(context.Background(), svc, payload(t, "x"), owner.Options{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	svc.fail(errors.New("connection reset"))

	if err := s.Wait(); !errors.Is(err, clip.ErrBackendLost) {
		t.Fatalf("Wait = %v, want ErrBackendLost", err)
	}
}

func TestClaimFailurePropagates(t *testing.T) {
	svc := newFakeService()
	svc.claimErr = errors.New("no display")

	if _, err := owner.Start(context.Background(), svc, payload(t, "x"), owner.Options{}, zerolog.Nop()); err == nil {
		t.Fatal("Start succeeded despite claim failure")
	}
}

func TestSlowTransferDoesNotStarveLossDetection(t *testing.T) {
	svc := newFakeService()

	s, err := owner.Start(context.Background(), svc, payload(t, "x"),
		owner.Options{TransferDeadline: 10 * time.Millisecond}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	block := make(chan struct{})
	defer close(block)
	svc.inject(owner.Transfer{
		Target: "UTF8_STRING",
		Deliver: func(context.Context, clip.Payload) error {
			<-block
			return nil
		},
	})
	svc.inject(owner.Lost{})

	done := make(chan error, 1)
	go func() { done <- s.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("loss not detected while a transfer was stalled")
	}
}

func TestStalledTransferRefusedAfterSessionEnd(t *testing.T) {
	svc := newFakeService()

	s, err := owner.Start(context.Background(), svc, payload(t, "x"),
		owner.Options{TransferDeadline: 10 * time.Millisecond}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	block := make(chan struct{})
	ctxErr := make(chan error, 1)
	svc.inject(owner.Transfer{
		Target: "UTF8_STRING",
		Deliver: func(ctx context.Context, _ clip.Payload) error {
			<-block
			ctxErr <- ctx.Err()
			return ctx.Err()
		},
	})
	svc.inject(owner.Lost{})

	if err := s.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	// The session is fully over here, so a successor could already be
	// established. When the stalled delivery finally unblocks it must see a
	// dead context and refuse rather than hand out the old content.
	close(block)
	select {
	case err := <-ctxErr:
		if err == nil {
			t.Fatal("stalled transfer context still live after session end")
		}
	case <-time.After(time.Second):
		t.Fatal("stalled transfer never unblocked")
	}
}

func TestHolderExclusivity(t *testing.T) {
	svc := newFakeService()
	var h owner.Holder

	p1 := payload(t, "first")
	s1, err := h.Replace(context.Background(), svc, p1, owner.Options{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Replace p1: %v", err)
	}

	p2 := payload(t, "second")
	s2, err := h.Replace(context.Background(), svc, p2, owner.Options{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Replace p2: %v", err)
	}

	// p1's loop must be fully drained before p2 is claimed.
	select {
	case <-s1.Done():
	default:
		t.Fatal("p1 session still live after p2 established")
	}
	if svc.releases() != 1 {
		t.Fatalf("p1 released %d times before p2, want 1", svc.releases())
	}
	if h.Active() != s2 {
		t.Fatal("holder does not track the new session")
	}

	h.Drop()
	if err := s2.Wait(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if h.Active() != nil {
		t.Fatal("holder still tracks a dropped session")
	}
}
