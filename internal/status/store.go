package status

import "sync"

// Store holds the current Snapshot. Every Update is applied under one lock so
// readers never see half of a field group.
type Store struct {
	mu       sync.Mutex
	snap     Snapshot
	nextID   int
	subs     map[int]chan Snapshot
	watchers map[int]func(prev, next Snapshot)
}

// NewStore creates a store holding initial
func NewStore(initial Snapshot) *Store {
	return &Store{
		snap:     initial,
		subs:     make(map[int]chan Snapshot),
		watchers: make(map[int]func(prev, next Snapshot)),
	}
}

// Snapshot returns a copy of the current snapshot
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Update applies fn to the snapshot atomically, publishes the result to
// subscribers and then runs watchers with the before and after values.
func (s *Store) Update(fn func(*Snapshot)) Snapshot {
	s.mu.Lock()
	prev := s.snap
	fn(&s.snap)
	next := s.snap

	for _, ch := range s.subs {
		publish(ch, next)
	}

	watchers := make([]func(prev, next Snapshot), 0, len(s.watchers))
	for _, w := range s.watchers {
		watchers = append(watchers, w)
	}
	s.mu.Unlock()

	for _, w := range watchers {
		w(prev, next)
	}
	return next
}

// Subscribe returns a channel that always holds the most recent snapshot.
// Intermediate snapshots are dropped when the reader falls behind. The
// channel starts with the current snapshot and is closed by the returned
// cancel func.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Snapshot, 1)
	ch <- s.snap
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Watch registers fn to run after every Update, outside the store lock.
// Unlike subscribers, watchers see every transition.
func (s *Store) Watch(fn func(prev, next Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.watchers[id] = fn

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// publish replaces whatever is buffered in ch with snap. Callers hold the
// store lock, which makes the store the only sender.
func publish(ch chan Snapshot, snap Snapshot) {
	select {
	case <-ch:
	default:
	}
	ch <- snap
}
