package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofast-cache/internal/domain"
)

func newTestStore(now time.Time) *Store {
	return New(WithClock(func() time.Time { return now }))
}

func TestInsertAndGetRoundTrip(t *testing.T) {
	s := newTestStore(time.UnixMilli(1000))
	key, _ := domain.ParseKey("k")
	value, _ := domain.ParseValue("v")

	s.Insert(key, value, domain.NoTTL)

	entry, found := s.Get(key)
	require.True(t, found)
	assert.Equal(t, value, entry.Value)
	assert.Equal(t, domain.NoTTL, entry.TTL)
}

func TestGetMissingKeyReportsNotFound(t *testing.T) {
	s := newTestStore(time.UnixMilli(1000))
	key, _ := domain.ParseKey("absent")

	_, found := s.Get(key)
	assert.False(t, found)
}

// TestTTLInPastDoesNotStoreValue mirrors the storage actor's TTL-at-insert
// rule: a SET whose TTL already elapsed at insert time is a silent no-op,
// not an error.
func TestTTLInPastDoesNotStoreValue(t *testing.T) {
	now := time.UnixMilli(10_000)
	s := newTestStore(now)
	key, _ := domain.ParseKey("k")
	value, _ := domain.ParseValue("v")

	s.Insert(key, value, domain.TTL(uint64(now.UnixMilli())-1))

	_, found := s.Get(key)
	assert.False(t, found)
	assert.False(t, s.ContainsKey(key))
}

// TestTTLExactlyNowDoesNotStoreValue pins the inclusive boundary: a SET
// whose TTL equals the clock's current instant exactly must still be a
// no-op, not just a TTL strictly before now.
func TestTTLExactlyNowDoesNotStoreValue(t *testing.T) {
	now := time.UnixMilli(10_000)
	s := newTestStore(now)
	key, _ := domain.ParseKey("k")
	value, _ := domain.ParseValue("v")

	s.Insert(key, value, domain.TTL(uint64(now.UnixMilli())))

	_, found := s.Get(key)
	assert.False(t, found)
	assert.False(t, s.ContainsKey(key))
}

func TestTTLElapsedDoesNotReturnValueFromStore(t *testing.T) {
	insertedAt := time.UnixMilli(10_000)
	clock := insertedAt
	s := New(WithClock(func() time.Time { return clock }))
	key, _ := domain.ParseKey("k")
	value, _ := domain.ParseValue("v")

	s.Insert(key, value, domain.TTL(uint64(insertedAt.UnixMilli())+50))

	entry, found := s.Get(key)
	require.True(t, found)
	assert.Equal(t, value, entry.Value)

	clock = insertedAt.Add(51 * time.Millisecond)
	_, found = s.Get(key)
	assert.False(t, found)
}

func TestTTLFutureIsReturnedUntilElapsed(t *testing.T) {
	key, _ := domain.ParseKey("k")
	value, _ := domain.ParseValue("v")
	clock := time.UnixMilli(10_000)
	s := New(WithClock(func() time.Time { return clock }))

	s.Insert(key, value, domain.TTL(10_100))

	_, found := s.Get(key)
	assert.True(t, found)
}

// TestContainsKeyIgnoresTTL preserves the storage actor's documented
// quirk: ContainsKey reports presence in the map without checking
// expiry, unlike Get which lazily expires. The key is inserted with a
// TTL that has not yet elapsed, then the clock is advanced past it
// without anyone calling Get to trigger lazy removal.
func TestContainsKeyIgnoresTTL(t *testing.T) {
	clock := time.UnixMilli(10_000)
	s := New(WithClock(func() time.Time { return clock }))
	key, _ := domain.ParseKey("k")
	value, _ := domain.ParseValue("v")

	s.Insert(key, value, domain.TTL(10_050))
	clock = time.UnixMilli(20_000)

	assert.True(t, s.ContainsKey(key))
}

func TestRemoveDeletesKey(t *testing.T) {
	s := newTestStore(time.UnixMilli(1000))
	key, _ := domain.ParseKey("k")
	value, _ := domain.ParseValue("v")
	s.Insert(key, value, domain.NoTTL)

	s.Remove(key)

	_, found := s.Get(key)
	assert.False(t, found)
	assert.False(t, s.ContainsKey(key))
}

func TestClearEmptiesStore(t *testing.T) {
	s := newTestStore(time.UnixMilli(1000))
	k1, _ := domain.ParseKey("a")
	k2, _ := domain.ParseKey("b")
	v, _ := domain.ParseValue("v")
	s.Insert(k1, v, domain.NoTTL)
	s.Insert(k2, v, domain.TTL(999_999_999_999))

	s.Clear()

	assert.False(t, s.ContainsKey(k1))
	assert.False(t, s.ContainsKey(k2))
	_, found := s.Get(k1)
	assert.False(t, found)
}

func TestInsertOverwritesExistingValue(t *testing.T) {
	s := newTestStore(time.UnixMilli(1000))
	key, _ := domain.ParseKey("k")
	v1, _ := domain.ParseValue("first")
	v2, _ := domain.ParseValue("second")

	s.Insert(key, v1, domain.NoTTL)
	s.Insert(key, v2, domain.NoTTL)

	entry, found := s.Get(key)
	require.True(t, found)
	assert.Equal(t, v2, entry.Value)
}
