package presence

import "sync"

// Subscription is a cancellable handle on a peer snapshot stream. Snapshots
// arrive newest-first with intermediate states collapsed: a consumer that
// falls behind skips straight to the latest state. Close is idempotent and
// releases the registration; an unclosed subscription leaks a live channel.
type Subscription struct {
	store *Store
	role  string
	ch    chan []PeerLocation
	once  sync.Once

	mu      sync.Mutex
	lastSeq uint64
}

// Snapshots returns the stream. The channel closes after Close.
func (s *Subscription) Snapshots() <-chan []PeerLocation {
	return s.ch
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.store.unsubscribe(s)
		close(s.ch)
	})
}

// push delivers a snapshot without ever blocking the writer: when the buffer
// is full the stale snapshot is dropped and replaced. Snapshots carry the
// store's per-role sequence; anything not newer than the last delivery is
// discarded, so the consumer only ever observes monotonically newer state.
// Callers hold the store's read lock, which excludes a concurrent Close.
func (s *Subscription) push(seq uint64, snap []PeerLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.lastSeq {
		return
	}
	s.lastSeq = seq
	for {
		select {
		case s.ch <- snap:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}
