package storage

import (
	"container/list"
	"sync"
)

// DefaultURLStoreCapacity bounds the tracked receipt-id → image-URL entries.
const DefaultURLStoreCapacity = 1024

// ImageURLStore tracks the public URL for each uploaded receipt image, keyed
// by receipt id. It is a bounded LRU so entries do not accumulate for the
// life of the process.
type ImageURLStore struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

type urlEntry struct {
	receiptID string
	url       string
}

// NewImageURLStore creates a store holding at most capacity entries. A
// non-positive capacity falls back to DefaultURLStoreCapacity.
func NewImageURLStore(capacity int) *ImageURLStore {
	if capacity <= 0 {
		capacity = DefaultURLStoreCapacity
	}
	return &ImageURLStore{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Track records the URL for a receipt id, evicting the least recently used
// entry when the store is full.
func (s *ImageURLStore) Track(receiptID, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[receiptID]; ok {
		elem.Value.(*urlEntry).url = url
		s.order.MoveToFront(elem)
		return
	}

	if s.order.Len() >= s.capacity {
		oldest := s.order.Back()
		if oldest != nil {
			s.order.Remove(oldest)
			delete(s.entries, oldest.Value.(*urlEntry).receiptID)
		}
	}
	s.entries[receiptID] = s.order.PushFront(&urlEntry{receiptID: receiptID, url: url})
}

// Lookup returns the tracked URL for a receipt id.
func (s *ImageURLStore) Lookup(receiptID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[receiptID]
	if !ok {
		return "", false
	}
	s.order.MoveToFront(elem)
	return elem.Value.(*urlEntry).url, true
}

// Len reports the number of tracked entries.
func (s *ImageURLStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
