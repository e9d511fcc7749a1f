package store

import "sync"

// MemoryStore keeps the snapshot in process memory.
// This is useful for testing but nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemory creates a new in-memory record store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
	}
}

// Load returns a copy of the current snapshot. Mutating the returned map
// does not affect the store until it is passed back through Save.
func (s *MemoryStore) Load() (map[string]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make(map[string]Record, len(s.records))
	for userID, r := range s.records {
		records[userID] = r
	}
	return records, nil
}

// Save replaces the snapshot with a copy of the given records.
func (s *MemoryStore) Save(records map[string]Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]Record, len(records))
	for userID, r := range records {
		s.records[userID] = r
	}
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
