package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/opendash/opendash-server/internal/model"
)

const agentColumns = "id,name,key_prefix,api_key_hash,status,created_at,last_used_at,revoked_at"

// AgentRepo persists registered agent credentials. Only the key hash
// and lookup prefix are stored, never the raw key.
type AgentRepo struct{ DB *sql.DB }

func NewAgentRepo(db *sql.DB) *AgentRepo { return &AgentRepo{DB: db} }

// Create inserts a new active agent and returns the stored row.
func (r *AgentRepo) Create(ctx context.Context, name, keyHash, keyPrefix string) (model.Agent, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO agents (id, name, key_prefix, api_key_hash, status) VALUES (?,?,?,?,?)",
		id, name, keyPrefix, keyHash, model.AgentStatusActive)
	if err != nil {
		return model.Agent{}, err
	}
	return r.GetByID(ctx, id)
}

// List returns all agents, newest first.
func (r *AgentRepo) List(ctx context.Context) ([]model.Agent, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+agentColumns+" FROM agents ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := []model.Agent{}
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// GetByID fetches a single agent, returning ErrNotFound when absent.
func (r *AgentRepo) GetByID(ctx context.Context, id string) (model.Agent, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+agentColumns+" FROM agents WHERE id=? LIMIT 1", id)
	a, err := scanAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Agent{}, ErrNotFound
	}
	return a, err
}

// GetByKey looks up an agent by lookup prefix and key hash. Both must
// match; the prefix only narrows the search, the hash is the check.
func (r *AgentRepo) GetByKey(ctx context.Context, keyPrefix, keyHash string) (model.Agent, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+agentColumns+" FROM agents WHERE key_prefix=? AND api_key_hash=? LIMIT 1",
		keyPrefix, keyHash)
	a, err := scanAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Agent{}, ErrNotFound
	}
	return a, err
}

// TouchLastUsed records a successful authentication. Best-effort; the
// caller runs it off the request path and ignores the error.
func (r *AgentRepo) TouchLastUsed(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE agents SET last_used_at=NOW() WHERE id=?", id)
	return err
}

// Revoke transitions an agent to revoked. The revoked_at guard makes
// the call idempotent: a second revoke leaves status and timestamp
// untouched. The current row is returned either way.
func (r *AgentRepo) Revoke(ctx context.Context, id string) (model.Agent, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE agents SET status=?, revoked_at=NOW() WHERE id=? AND revoked_at IS NULL",
		model.AgentStatusRevoked, id)
	if err != nil {
		return model.Agent{}, err
	}
	return r.GetByID(ctx, id)
}

// ReplaceKey swaps in a fresh hash/prefix pair, preserving identity.
// Status checks belong to the caller.
func (r *AgentRepo) ReplaceKey(ctx context.Context, id, keyHash, keyPrefix string) (model.Agent, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE agents SET api_key_hash=?, key_prefix=? WHERE id=?",
		keyHash, keyPrefix, id)
	if err != nil {
		return model.Agent{}, err
	}
	return r.GetByID(ctx, id)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanAgent(row rowScanner) (model.Agent, error) {
	var (
		a        model.Agent
		lastUsed sql.NullTime
		revoked  sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Name, &a.KeyPrefix, &a.APIKeyHash, &a.Status,
		&a.CreatedAt, &lastUsed, &revoked)
	if err != nil {
		return model.Agent{}, err
	}
	if lastUsed.Valid {
		a.LastUsedAt = &lastUsed.Time
	}
	if revoked.Valid {
		a.RevokedAt = &revoked.Time
	}
	return a, nil
}
