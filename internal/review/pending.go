package review

import (
	"sync"
	"time"

	"github.com/Lillian1228/hsa-ai-assistant/internal/domain"
)

// DefaultPendingTTL bounds how long an unanswered review request is kept.
const DefaultPendingTTL = 30 * time.Minute

type pendingEntry struct {
	request   *domain.ReviewRequest
	expiresAt time.Time
}

// PendingStore holds review requests awaiting human approval, keyed by
// receipt id so concurrent sessions cannot clobber each other's pending
// review. Entries expire after the configured TTL; expiry is checked lazily
// on access and swept on Put.
type PendingStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]pendingEntry
	now     func() time.Time
}

// NewPendingStore creates a store with the given TTL. A non-positive TTL
// falls back to DefaultPendingTTL.
func NewPendingStore(ttl time.Duration) *PendingStore {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	return &PendingStore{
		ttl:     ttl,
		entries: make(map[string]pendingEntry),
		now:     time.Now,
	}
}

// Put registers or replaces the pending review for the request's receipt id.
func (s *PendingStore) Put(req *domain.ReviewRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.entries[req.ReceiptID] = pendingEntry{
		request:   req,
		expiresAt: now.Add(s.ttl),
	}
}

// Get returns the pending review for a receipt id, if present and not
// expired.
func (s *PendingStore) Get(receiptID string) (*domain.ReviewRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[receiptID]
	if !ok {
		return nil, false
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, receiptID)
		return nil, false
	}
	return entry.request, true
}

// Remove drops the pending review for a receipt id, typically after the
// approval has been processed.
func (s *PendingStore) Remove(receiptID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, receiptID)
}

// Len reports the number of tracked entries, including any not yet swept.
func (s *PendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
