package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	t.Parallel()

	key, err := GenerateAPIKey()
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(key.Raw, APIKeyPrefix))
	require.Len(t, key.Prefix, 8)
	require.Len(t, key.Hash, 64) // hex-encoded SHA-256

	// Derived forms must round-trip from the raw key.
	require.Equal(t, key.Hash, HashAPIKey(key.Raw))
	require.Equal(t, key.Prefix, ReadAPIKeyPrefix(key.Raw))
}

func TestGenerateAPIKeyUnique(t *testing.T) {
	t.Parallel()

	a, err := GenerateAPIKey()
	require.NoError(t, err)
	b, err := GenerateAPIKey()
	require.NoError(t, err)

	require.NotEqual(t, a.Raw, b.Raw)
	require.NotEqual(t, a.Hash, b.Hash)
}

func TestHashAPIKeyDeterministic(t *testing.T) {
	t.Parallel()

	raw := "odak_AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	require.Equal(t, HashAPIKey(raw), HashAPIKey(raw))

	// A single changed character must produce a different digest, so a
	// near-miss key can never verify against the stored hash.
	flipped := "odak_AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAB"
	require.NotEqual(t, HashAPIKey(raw), HashAPIKey(flipped))
}

func TestReadAPIKeyPrefix(t *testing.T) {
	t.Parallel()

	require.Equal(t, "12345678", ReadAPIKeyPrefix("odak_12345678rest-of-the-secret"))
	// Too short to contain a full prefix: not a panic, just empty.
	require.Equal(t, "", ReadAPIKeyPrefix("odak_123"))
	require.Equal(t, "", ReadAPIKeyPrefix(""))
}
