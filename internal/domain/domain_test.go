package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyAcceptsMaxLength(t *testing.T) {
	k, err := ParseKey(strings.Repeat("k", MaxKeyLength))
	require.NoError(t, err)
	assert.Equal(t, uint8(MaxKeyLength), k.Len())
}

func TestParseKeyRejectsTooLong(t *testing.T) {
	_, err := ParseKey(strings.Repeat("k", MaxKeyLength+1))
	assert.ErrorIs(t, err, ErrKeyTooLong)
}

func TestParseValueAcceptsMaxLength(t *testing.T) {
	v, err := ParseValue(strings.Repeat("v", MaxValueLength))
	require.NoError(t, err)
	assert.Equal(t, uint32(MaxValueLength), v.Len())
}

func TestParseValueRejectsTooLong(t *testing.T) {
	_, err := ParseValue(strings.Repeat("v", MaxValueLength+1))
	assert.ErrorIs(t, err, ErrValueTooLong)
}

func TestTTLZeroIsNotSet(t *testing.T) {
	assert.False(t, NoTTL.IsSet())
	assert.Nil(t, NoTTL.Optional())
}

func TestTTLNonZeroIsSet(t *testing.T) {
	ttl := TTL(42)
	assert.True(t, ttl.IsSet())
	require.NotNil(t, ttl.Optional())
	assert.Equal(t, uint64(42), *ttl.Optional())
}

func TestFromOptionalCollapsesExplicitZero(t *testing.T) {
	zero := uint64(0)
	assert.Equal(t, NoTTL, FromOptional(&zero))
	assert.Equal(t, NoTTL, FromOptional(nil))
}
