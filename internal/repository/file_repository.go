package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/opendash/opendash-server/internal/model"
)

const fileColumns = "id,name,content,created_at,updated_at"

// FileRepo persists markdown file records.
type FileRepo struct{ DB *sql.DB }

func NewFileRepo(db *sql.DB) *FileRepo { return &FileRepo{DB: db} }

// List returns files ordered by most recent update, capped at limit.
// A non-empty query filters by substring match over name and content;
// matching is case-insensitive under the table's *_ci collation.
func (r *FileRepo) List(ctx context.Context, query string, limit int) ([]model.File, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + q + "%"
		rows, err = r.DB.QueryContext(ctx,
			"SELECT "+fileColumns+" FROM files WHERE name LIKE ? OR content LIKE ? ORDER BY updated_at DESC LIMIT ?",
			pattern, pattern, limit)
	} else {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT "+fileColumns+" FROM files ORDER BY updated_at DESC LIMIT ?", limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []model.File{}
	for rows.Next() {
		var f model.File
		if err := rows.Scan(&f.ID, &f.Name, &f.Content, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// GetByID fetches a single file, returning ErrNotFound when absent.
func (r *FileRepo) GetByID(ctx context.Context, id string) (model.File, error) {
	var f model.File
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+fileColumns+" FROM files WHERE id=? LIMIT 1", id).
		Scan(&f.ID, &f.Name, &f.Content, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.File{}, ErrNotFound
	}
	return f, err
}

// Create inserts a file and returns the stored row. Name validation is
// the handler's job; content may be empty.
func (r *FileRepo) Create(ctx context.Context, name, content string) (model.File, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO files (id, name, content) VALUES (?,?,?)", id, name, content)
	if err != nil {
		return model.File{}, err
	}
	return r.GetByID(ctx, id)
}

// Update applies a partial patch. Nil fields are left untouched. An
// explicit updated_at bump keeps the sort order honest even when the
// patched values equal the stored ones.
func (r *FileRepo) Update(ctx context.Context, id string, name, content *string) (model.File, error) {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	if name != nil {
		set = append(set, "name=?")
		args = append(args, *name)
	}
	if content != nil {
		set = append(set, "content=?")
		args = append(args, *content)
	}
	args = append(args, id)

	_, err := r.DB.ExecContext(ctx,
		"UPDATE files SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		return model.File{}, err
	}
	// Re-select rather than trusting RowsAffected: MySQL reports zero
	// affected rows for no-op updates on existing rows.
	return r.GetByID(ctx, id)
}

// Delete removes a file, returning ErrNotFound when the id never existed.
func (r *FileRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM files WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
