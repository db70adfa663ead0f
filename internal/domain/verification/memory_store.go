package verification

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore keeps verification codes in process memory with a
// periodic eviction sweep. Used in development and tests where Redis
// is not available.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates an in-memory code store. sweepInterval bounds
// how long an expired entry can linger before eviction; reads never
// return expired entries regardless.
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		done:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.sweepLoop(sweepInterval)
	}
	return s
}

func (s *MemoryStore) Put(ctx context.Context, contact, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[contact] = &memoryEntry{
		code:      code,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Consume(ctx context.Context, contact, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[contact]
	if !ok {
		return false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, contact)
		return false, nil
	}
	if entry.code != code {
		return false, nil
	}

	delete(s.entries, contact)
	return true, nil
}

// Len returns the number of stored entries, expired ones included
// until the next sweep.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for contact, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, contact)
		}
	}
}

// Close stops the eviction sweep
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.done) })
}
