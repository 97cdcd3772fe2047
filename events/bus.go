package events

import (
	"sync"

	"github.com/rs/zerolog"
)

// Handler receives a published event. Handlers must not mutate game state;
// they enqueue outbound messages or call engine-exposed mutators.
type Handler func(Event)

// Bus is the in-process publish/subscribe fan-out. Publish never blocks the
// caller; a dedicated goroutine delivers to subscribers in publish order.
type Bus struct {
	mu   sync.RWMutex
	subs map[Kind][]Handler
	all  []Handler

	ch   chan Event
	done chan struct{}
	log  zerolog.Logger
}

// NewBus starts the dispatch goroutine. Call Close to drain and stop it.
func NewBus(log zerolog.Logger) *Bus {
	b := &Bus{
		subs: make(map[Kind][]Handler),
		ch:   make(chan Event, 256),
		done: make(chan struct{}),
		log:  log,
	}
	go b.dispatch()
	return b
}

// Subscribe registers a handler for one event kind.
func (b *Bus) Subscribe(kind Kind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[kind] = append(b.subs[kind], h)
}

// SubscribeAll registers a handler for every event.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// Publish enqueues an event for delivery. If the queue is full the event is
// dropped with a warning rather than blocking the engine.
func (b *Bus) Publish(e Event) {
	select {
	case b.ch <- e:
	default:
		b.log.Warn().Str("kind", string(e.Kind())).Msg("event bus full, dropping event")
	}
}

// Close stops the dispatcher after delivering everything already queued.
func (b *Bus) Close() {
	close(b.ch)
	<-b.done
}

func (b *Bus) dispatch() {
	defer close(b.done)
	for e := range b.ch {
		b.mu.RLock()
		handlers := make([]Handler, 0, len(b.all)+len(b.subs[e.Kind()]))
		handlers = append(handlers, b.all...)
		handlers = append(handlers, b.subs[e.Kind()]...)
		b.mu.RUnlock()

		for _, h := range handlers {
			b.deliver(h, e)
		}
	}
}

// deliver isolates handler panics so one bad subscriber cannot abort
// dispatch.
func (b *Bus) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Str("kind", string(e.Kind())).
				Interface("panic", r).
				Msg("event handler panicked")
		}
	}()
	h(e)
}
