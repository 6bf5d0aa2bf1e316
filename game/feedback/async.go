package feedback

import (
	"log"
	"sync"
	"sync/atomic"
)

// DefaultQueueSize is the event buffer used by NewAsync when size <= 0
const DefaultQueueSize = 256

// Async delivers events to an inner channel on its own goroutine. When the
// queue is full the event is dropped rather than blocking the caller.
type Async struct {
	inner   Channel
	queue   chan Event
	done    chan struct{}
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
	Emitter
}

// NewAsync starts the delivery goroutine. Call Close to stop it.
func NewAsync(inner Channel, size int) *Async {
	if size <= 0 {
		size = DefaultQueueSize
	}
	a := &Async{
		inner: Combine(inner),
		queue: make(chan Event, size),
		done:  make(chan struct{}),
	}
	a.Emitter = a.enqueue
	go a.loop()
	return a
}

func (a *Async) enqueue(e Event) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return
	}

	select {
	case a.queue <- e:
	default:
		a.dropped.Add(1)
		log.Printf("Warning: feedback queue full, dropped %s event", e.Type)
	}
}

func (a *Async) loop() {
	defer close(a.done)
	for e := range a.queue {
		Replay(a.inner, e)
	}
}

// Dropped returns the number of events discarded because the queue was full
func (a *Async) Dropped() int {
	return int(a.dropped.Load())
}

// Close stops accepting events and waits until queued events are delivered
func (a *Async) Close() {
	a.once.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.queue)
		a.mu.Unlock()
	})
	<-a.done
}
