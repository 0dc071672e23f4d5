// Package owner implements the ownership session and responder loop shared
// by selection-protocol backends. On those systems a Set does not copy data
// anywhere: the process declares itself selection owner and must keep
// answering conversion requests until another owner appears or the session
// is cancelled. The loop here is protocol-agnostic; backends plug in via the
// Service interface, which also makes the liveness contract testable against
// a fake service.
package owner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/rs/zerolog"
)

// Event is a selection protocol event delivered to the responder loop.
type Event interface{ event() }

// Transfer asks the owner to convert the served payload for a requesting
// client. Deliver writes the payload in the requested representation;
// Target is the protocol-level name of that representation. The context is
// cancelled when the transfer deadline passes or the session tears down;
// Deliver must refuse the request rather than write once that happens, so a
// requester that unblocks late cannot receive content the session no longer
// owns.
type Transfer struct {
	Target  string
	Deliver func(ctx context.Context, p clip.Payload) error
}

// Lost signals that another client claimed the selection. The session ends
// normally.
type Lost struct{}

func (Transfer) event() {}
func (Lost) event()     {}

// Service abstracts one selection of a windowing service.
type Service interface {
	// Claim announces ownership of the selection, returning once the
	// session is established and servable.
	Claim(ctx context.Context, p clip.Payload) error

	// Next blocks until the next selection event. It must honor ctx
	// cancellation and deadline; any other error means the service
	// connection is gone.
	Next(ctx context.Context) (Event, error)

	// Release disowns the selection if this process still holds it.
	Release() error
}

// Options bounds the responder loop.
type Options struct {
	// IdleTimeout ends the session normally when no requester appears
	// within the window. Zero serves until superseded or cancelled.
	IdleTimeout time.Duration

	// TransferDeadline caps a single conversion delivery so one slow
	// requester cannot starve ownership-loss detection.
	TransferDeadline time.Duration
}

var DefaultOptions = Options{
	TransferDeadline: 5 * time.Second,
}

func (o Options) transferDeadline() time.Duration {
	if o.TransferDeadline <= 0 {
		return DefaultOptions.TransferDeadline
	}
	return o.TransferDeadline
}

var idNode = func() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}()

// Session is one in-flight "this process owns the clipboard" period.
type Session struct {
	id      snowflake.ID
	payload clip.Payload
	started time.Time
	cancel  context.CancelFunc

	done chan struct{}
	err  error
}

func (s *Session) ID() snowflake.ID      { return s.id }
func (s *Session) Payload() clip.Payload { return s.payload }
func (s *Session) Started() time.Time    { return s.started }

// Cancel requests session teardown. It does not wait; use Wait.
func (s *Session) Cancel() { s.cancel() }

// Done is closed once the responder loop has fully exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait blocks until the session ends and returns its terminal error: nil for
// a normal end (superseded, cancelled, idle timeout), ErrBackendLost when the
// service connection dropped mid-session.
func (s *Session) Wait() error {
	<-s.done
	return s.err
}

// Start claims the selection and runs the responder loop in the background.
// The returned session is live once Start returns without error.
func Start(ctx context.Context, svc Service, p clip.Payload, opts Options, logger zerolog.Logger) (*Session, error) {
	runCtx, cancel := context.WithCancel(ctx)

	s := &Session{
		id:      idNode.Generate(),
		payload: p,
		started: time.Now(),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	log := logger.With().Str("component", "owner").Int64("session", s.id.Int64()).Logger()

	if err := svc.Claim(runCtx, p); err != nil {
		cancel()
		close(s.done)
		return nil, fmt.Errorf("claim selection: %w", err)
	}

	log.Debug().Object("payload", p).Msg("ownership established")

	go func() {
		defer close(s.done)
		defer cancel()
		s.err = serve(runCtx, svc, p, opts, log)
	}()

	return s, nil
}

// serve is the responder loop: answer every Transfer, end on Lost, the
// cancellation signal, or the idle timeout. Transfers never terminate the
// loop; one set may be pasted any number of times.
func serve(ctx context.Context, svc Service, p clip.Payload, opts Options, log zerolog.Logger) error {
	defer func() {
		if err := svc.Release(); err != nil {
			log.Debug().Err(err).Msg("release selection")
		}
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		nextCtx := ctx
		var cancelNext context.CancelFunc
		if opts.IdleTimeout > 0 {
			nextCtx, cancelNext = context.WithTimeout(ctx, opts.IdleTimeout)
		}

		ev, err := svc.Next(nextCtx)
		if cancelNext != nil {
			cancelNext()
		}

		if err != nil {
			if ctx.Err() != nil {
				log.Debug().Msg("session cancelled")
				return nil
			}
			if errors.Is(err, context.DeadlineExceeded) {
				log.Debug().Dur("idle_timeout", opts.IdleTimeout).Msg("session idle, releasing")
				return nil
			}
			return fmt.Errorf("%w: %w", clip.ErrBackendLost, err)
		}

		switch ev := ev.(type) {
		case Transfer:
			log.Trace().Str("target", ev.Target).Msg("transfer request")
			wg.Add(1)
			go func() {
				defer wg.Done()
				deliver(ctx, ev, p, opts.transferDeadline(), log)
			}()

		case Lost:
			log.Debug().Msg("ownership lost, session over")
			return nil
		}
	}
}

// deliver answers one conversion request off the loop so a stalled requester
// does not block loss detection. The delivery context expires at the deadline
// and is also cancelled by session teardown; a Deliver still in flight at
// that point sees a dead context and must not write.
func deliver(ctx context.Context, t Transfer, p clip.Payload, deadline time.Duration, log zerolog.Logger) {
	dctx, cancel := context.WithTimeout(ctx, deadline)

	result := make(chan error, 1)
	go func() {
		defer cancel()
		result <- t.Deliver(dctx, p)
	}()

	select {
	case err := <-result:
		if err != nil {
			log.Trace().Str("target", t.Target).Err(err).Msg("transfer failed")
		}
	case <-dctx.Done():
		log.Trace().Str("target", t.Target).Dur("deadline", deadline).Msg("transfer deadline exceeded")
	}
}
