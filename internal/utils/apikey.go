package utils // package utils provides helper functions for key generation and hashing

import (
	"crypto/rand"     // secure random number generation
	"crypto/sha256"   // SHA-256 hashing of raw API keys
	"encoding/base64" // URL-safe encoding of the random secret
	"encoding/hex"    // hex encoding of digests
)

// APIKeyPrefix is the fixed public literal every issued key starts with.
// It lets the resolver cheaply reject credentials that are not agent
// keys before touching the database.
const APIKeyPrefix = "odak_"

const (
	keyPrefixLen   = 8  // length of the non-secret lookup prefix
	keySecretBytes = 24 // bytes of randomness behind each key
)

// APIKey bundles the three derived forms of a freshly generated key.
// Raw is shown to the caller exactly once; only Hash and Prefix are
// ever persisted.
type APIKey struct {
	Raw    string // full key returned to the client, e.g. "odak_..."
	Hash   string // SHA-256 hex digest of Raw
	Prefix string // 8 characters of Raw following the public literal
}

// GenerateAPIKey produces a new random key and its derived hash and
// lookup prefix. The secret part is 24 bytes of crypto/rand data in
// raw base64url form.
func GenerateAPIKey() (APIKey, error) {
	buf := make([]byte, keySecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return APIKey{}, err
	}
	raw := APIKeyPrefix + base64.RawURLEncoding.EncodeToString(buf)
	return APIKey{
		Raw:    raw,
		Hash:   HashAPIKey(raw),
		Prefix: ReadAPIKeyPrefix(raw),
	}, nil
}

// HashAPIKey returns the SHA-256 hash of a raw key as a hex string.
// Storing only the hash prevents stolen database rows from being
// replayed as credentials. The digest is deterministic so the same
// function serves both issuance and verification.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ReadAPIKeyPrefix extracts the non-secret lookup prefix: the 8
// characters immediately after the public literal. It narrows the
// database lookup and is never treated as a security boundary; the
// hash comparison is the real check.
func ReadAPIKeyPrefix(raw string) string {
	if len(raw) < len(APIKeyPrefix)+keyPrefixLen {
		return ""
	}
	return raw[len(APIKeyPrefix) : len(APIKeyPrefix)+keyPrefixLen]
}
