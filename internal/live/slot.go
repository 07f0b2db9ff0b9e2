package live

import "sync"

// Slot is a single-slot latest-value channel: every publish overwrites the
// previous value, and subscribers always observe the newest full snapshot.
// Intermediate states are never replayed.
type Slot[T any] struct {
	mu          sync.Mutex
	subscribers map[int]chan T
	nextID      int
	latest      T
	hasValue    bool
}

// NewSlot constructs an empty latest-value slot.
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{subscribers: make(map[int]chan T)}
}

// Publish stores the newest value and pushes it to every subscriber,
// overwriting any undelivered previous snapshot.
func (s *Slot[T]) Publish(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = value
	s.hasValue = true

	for _, ch := range s.subscribers {
		// Drop the stale buffered snapshot before offering the new one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- value:
		default:
		}
	}
}

// Subscribe registers a watcher. The returned channel immediately carries the
// current snapshot when one exists. The cancel func tears the watcher down;
// it is safe to call more than once.
func (s *Slot[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan T, 1)
	if s.hasValue {
		ch <- s.latest
	}
	s.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
		})
	}
	return ch, cancel
}

// Latest returns the current snapshot, if any.
func (s *Slot[T]) Latest() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.hasValue
}

// SubscriberCount reports how many watchers are attached.
func (s *Slot[T]) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}
