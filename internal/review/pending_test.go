package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lillian1228/hsa-ai-assistant/internal/domain"
)

func pendingRequest(receiptID string) *domain.ReviewRequest {
	return &domain.ReviewRequest{
		ReceiptID: receiptID,
		StoreName: "CVS Pharmacy",
		Date:      "2025-03-14",
	}
}

func TestPendingStorePutGet(t *testing.T) {
	store := NewPendingStore(time.Minute)

	store.Put(pendingRequest("aaa111"))
	store.Put(pendingRequest("bbb222"))

	got, ok := store.Get("aaa111")
	require.True(t, ok)
	assert.Equal(t, "aaa111", got.ReceiptID)

	_, ok = store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, store.Len())
}

func TestPendingStoreReplace(t *testing.T) {
	store := NewPendingStore(time.Minute)

	store.Put(pendingRequest("aaa111"))
	updated := pendingRequest("aaa111")
	updated.StoreName = "Walgreens"
	store.Put(updated)

	got, ok := store.Get("aaa111")
	require.True(t, ok)
	assert.Equal(t, "Walgreens", got.StoreName)
	assert.Equal(t, 1, store.Len())
}

func TestPendingStoreExpiry(t *testing.T) {
	store := NewPendingStore(time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }

	store.Put(pendingRequest("aaa111"))

	current = current.Add(30 * time.Second)
	_, ok := store.Get("aaa111")
	assert.True(t, ok, "entry within TTL")

	current = current.Add(31 * time.Second)
	_, ok = store.Get("aaa111")
	assert.False(t, ok, "entry past TTL")
	assert.Equal(t, 0, store.Len(), "expired entry is removed on access")
}

func TestPendingStoreSweepOnPut(t *testing.T) {
	store := NewPendingStore(time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }

	store.Put(pendingRequest("aaa111"))
	current = current.Add(2 * time.Minute)
	store.Put(pendingRequest("bbb222"))

	assert.Equal(t, 1, store.Len(), "expired entries are swept on Put")
}

func TestPendingStoreRemove(t *testing.T) {
	store := NewPendingStore(time.Minute)

	store.Put(pendingRequest("aaa111"))
	store.Remove("aaa111")

	_, ok := store.Get("aaa111")
	assert.False(t, ok)
}

func TestPendingStoreDefaultTTL(t *testing.T) {
	store := NewPendingStore(0)
	assert.Equal(t, DefaultPendingTTL, store.ttl)
}
