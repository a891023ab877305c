package refreshdashboard

import "sync"

// Store holds the dashboard snapshot. Refreshes take a sequence number
// before fetching and only the newest completed one is kept.
type Store struct {
	mu      sync.Mutex
	next    uint64
	applied uint64
	current *Snapshot
}

func NewStore() *Store {
	return &Store{}
}

// Begin issues the next sequence number.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// Apply replaces the snapshot when seq is newer than the last applied one.
func (s *Store) Apply(seq uint64, snap *Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		return false
	}
	snap.Seq = seq
	s.applied = seq
	s.current = snap
	return true
}

// Restore installs a cached snapshot when nothing has been applied yet. Any
// later Apply replaces it.
func (s *Store) Restore(snap *Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return false
	}
	s.current = snap
	return true
}

func (s *Store) Current() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
