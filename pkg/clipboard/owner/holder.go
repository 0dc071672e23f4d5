package owner

import (
	"context"
	"sync"

	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/rs/zerolog"
)

// Holder enforces the one-session-per-process rule: replacing the active
// session cancels it and waits for its responder loop to fully exit before
// the next claim is made, so no two sessions ever answer requests
// concurrently.
type Holder struct {
	mu     sync.Mutex
	active *Session
}

// Replace tears down any active session, then starts a new one for p.
func (h *Holder) Replace(ctx context.Context, svc Service, p clip.Payload, opts Options, logger zerolog.Logger) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev := h.active; prev != nil {
		prev.Cancel()
		<-prev.Done()
		h.active = nil
	}

	s, err := Start(ctx, svc, p, opts, logger)
	if err != nil {
		return nil, err
	}
	h.active = s
	return s, nil
}

// Drop cancels the active session, if any, and waits for teardown.
func (h *Holder) Drop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev := h.active; prev != nil {
		prev.Cancel()
		<-prev.Done()
		h.active = nil
	}
}

// Active returns the current session, or nil.
func (h *Holder) Active() *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}
