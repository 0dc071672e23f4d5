// Package clip defines the clipboard backend contract shared by every
// platform implementation: an immutable payload value, the Get/Set/Clear/
// Watch capability set, and the error kinds backends surface.
package clip

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Model distinguishes the two clipboard liveness regimes.
type Model int

const (
	// ModelBuffered: the OS or an external service stores the payload and
	// the setting process may exit as soon as Set returns.
	ModelBuffered Model = iota

	// ModelOwnership: the setting process is declared selection owner and
	// must stay reachable to answer paste requests; Set blocks for the
	// lifetime of the ownership session.
	ModelOwnership
)

func (m Model) String() string {
	switch m {
	case ModelOwnership:
		return "ownership"
	case ModelBuffered:
		return "buffered"
	default:
		return "unknown"
	}
}

// Selection names the clipboard-like channel a backend operates on.
type Selection int

const (
	SelectionClipboard Selection = iota
	SelectionPrimary
)

func (s Selection) String() string {
	if s == SelectionPrimary {
		return "primary"
	}
	return "clipboard"
}

// Update is one clipboard change notification.
type Update struct {
	Payload Payload
	Hash    uint64
}

func (u Update) MarshalZerologObject(e *zerolog.Event) {
	e.Object("payload", u.Payload)
	e.Uint64("hash", u.Hash)
}

// Backend is the uniform capability set over a platform clipboard mechanism.
type Backend interface {
	Name() string
	Model() Model

	// Get returns the current clipboard content, or the zero Payload when
	// the clipboard is unset. Bounded by per-backend protocol timeouts.
	Get(ctx context.Context) (Payload, error)

	// Set stores p as the new clipboard content. On ModelBuffered backends
	// it returns once the service acknowledges storage. On ModelOwnership
	// backends it claims the selection, serves paste requests, and returns
	// only when ownership ends (superseded, cancelled, or idle timeout).
	// Any prior ownership session of this process is torn down first.
	Set(ctx context.Context, p Payload) error

	// Clear empties the clipboard; on ownership backends it disowns the
	// selection instead of starting a session. Idempotent.
	Clear(ctx context.Context) error

	// Watch streams change notifications into upd until ctx is cancelled,
	// closing upd on exit. Backends without change notification return
	// ErrUnsupported immediately.
	Watch(ctx context.Context, upd chan<- Update) error
}

// Options carries the runtime knobs shared across backends.
type Options struct {
	Selection   Selection
	GetTimeout  time.Duration
	IdleTimeout time.Duration
	PollTick    time.Duration
}

// DefaultOptions mirrors the CLI flag defaults.
var DefaultOptions = Options{
	Selection:  SelectionClipboard,
	GetTimeout: 5 * time.Second,
	PollTick:   time.Second,
}
