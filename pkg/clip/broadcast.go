package clip

import (
	"context"
	"sync"
)

// Broadcaster fans a backend's Watch stream out to any number of independent
// subscriptions. Every subscriber receives every update in publication order;
// a slow subscriber queues behind its own buffer and never stalls the
// producer or its siblings.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[*subscription]struct{}
	closed bool
}

type subscription struct {
	ch     chan Update
	queue  []Update
	wake   chan struct{}
	done   chan struct{}
	closed bool
	mu     sync.Mutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[*subscription]struct{})}
}

// Subscribe registers a new subscription. The returned channel delivers every
// subsequent update until cancel is called or the broadcaster shuts down,
// after which the channel is closed.
func (b *Broadcaster) Subscribe() (<-chan Update, func()) {
	sub := &subscription{
		ch:   make(chan Update),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go sub.drain()

	cancel := func() {
		b.mu.Lock()
		_, ok := b.subs[sub]
		delete(b.subs, sub)
		b.mu.Unlock()
		if ok {
			sub.close()
		}
	}
	return sub.ch, cancel
}

// Publish delivers u to every live subscription without blocking.
func (b *Broadcaster) Publish(u Update) {
	b.mu.Lock()
	for sub := range b.subs {
		sub.push(u)
	}
	b.mu.Unlock()
}

// Close ends every subscription. Further Publish calls are dropped.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[*subscription]struct{})
	b.mu.Unlock()

	for sub := range subs {
		sub.close()
	}
}

// Run pumps backend.Watch into the broadcaster until ctx ends, then closes
// all subscriptions.
func (b *Broadcaster) Run(ctx context.Context, backend Backend) error {
	defer b.Close()

	upd := make(chan Update, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- backend.Watch(ctx, upd)
	}()

	for {
		select {
		case u, ok := <-upd:
			if !ok {
				return <-errCh
			}
			b.Publish(u)
		case err := <-errCh:
			return err
		}
	}
}

func (s *subscription) push(u Update) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, u)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// drain moves queued updates to the subscriber channel in order, one
// goroutine per subscription so delivery pace is independent.
func (s *subscription) drain() {
	defer close(s.ch)

	for range s.wake {
		for {
			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				return
			}
			if len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			u := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			select {
			case s.ch <- u:
			case <-s.done:
				return
			}
		}
	}
}
