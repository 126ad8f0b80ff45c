package model

import "time"

// Agent status values. Revocation is one-way: a revoked agent never
// becomes active again.
const (
	AgentStatusActive  = "active"
	AgentStatusRevoked = "revoked"
)

// Agent represents a registered machine credential as stored in the
// `agents` table. The raw API key is never persisted; only its SHA-256
// hash and a short lookup prefix. The json tags are omitted because
// these structs are used by the repository layer; handlers define
// separate response types.
//
// Fields:
//  ID         – primary key identifier (uuid).
//  Name       – display name chosen at registration time.
//  KeyPrefix  – 8-character non-secret lookup hint derived from the raw key.
//  APIKeyHash – SHA-256 hex digest of the raw key.
//  Status     – "active" or "revoked".
//  CreatedAt  – timestamp of registration.
//  LastUsedAt – last successful authentication (nullable).
//  RevokedAt  – when the key was revoked (nullable).
type Agent struct {
	ID         string     // agents.id
	Name       string     // agents.name
	KeyPrefix  string     // agents.key_prefix
	APIKeyHash string     // agents.api_key_hash
	Status     string     // agents.status
	CreatedAt  time.Time  // agents.created_at
	LastUsedAt *time.Time // agents.last_used_at (nullable)
	RevokedAt  *time.Time // agents.revoked_at (nullable)
}
