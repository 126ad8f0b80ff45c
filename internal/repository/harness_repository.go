package repository

import (
	"context"
	"database/sql"
	"errors"
)

// HarnessRepo persists the prompt harness, one row per scope.
type HarnessRepo struct{ DB *sql.DB }

func NewHarnessRepo(db *sql.DB) *HarnessRepo { return &HarnessRepo{DB: db} }

// Get returns the stored system prompt for a scope, or ErrNotFound.
func (r *HarnessRepo) Get(ctx context.Context, scope string) (string, error) {
	var prompt string
	err := r.DB.QueryRowContext(ctx,
		"SELECT system_prompt FROM prompt_harnesses WHERE scope=? LIMIT 1", scope).
		Scan(&prompt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return prompt, err
}

// Upsert writes the system prompt for a scope, inserting or replacing
// the single row keyed by scope.
func (r *HarnessRepo) Upsert(ctx context.Context, scope, prompt string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO prompt_harnesses (scope, system_prompt) VALUES (?,?) ON DUPLICATE KEY UPDATE system_prompt=?",
		scope, prompt, prompt)
	return err
}
