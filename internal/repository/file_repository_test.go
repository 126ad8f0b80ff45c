package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

const selectFileByID = "SELECT id,name,content,created_at,updated_at FROM files WHERE id=? LIMIT 1"

func newFileRepo(t *testing.T) (*FileRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFileRepo(db), mock
}

func fileRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "content", "created_at", "updated_at"})
}

func TestFileRepoListSearch(t *testing.T) {
	t.Parallel()

	r, mock := newFileRepo(t)
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id,name,content,created_at,updated_at FROM files WHERE name LIKE ? OR content LIKE ? ORDER BY updated_at DESC LIMIT ?").
		WithArgs("%readme%", "%readme%", 100).
		WillReturnRows(fileRows().
			AddRow("f1", "docs/readme.md", "# hi", now, now))

	files, err := r.List(context.Background(), "  readme ", 100)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "docs/readme.md", files[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFileRepoListWithoutQuery(t *testing.T) {
	t.Parallel()

	r, mock := newFileRepo(t)
	mock.ExpectQuery("SELECT id,name,content,created_at,updated_at FROM files ORDER BY updated_at DESC LIMIT ?").
		WithArgs(100).
		WillReturnRows(fileRows())

	files, err := r.List(context.Background(), "   ", 100)
	require.NoError(t, err)
	require.Empty(t, files)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFileRepoUpdateNameOnly(t *testing.T) {
	t.Parallel()

	r, mock := newFileRepo(t)
	now := time.Now().UTC()
	name := "renamed.md"

	mock.ExpectExec("UPDATE files SET updated_at=NOW(), name=? WHERE id=?").
		WithArgs(name, "f1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectFileByID).
		WithArgs("f1").
		WillReturnRows(fileRows().AddRow("f1", name, "body", now, now))

	f, err := r.Update(context.Background(), "f1", &name, nil)
	require.NoError(t, err)
	require.Equal(t, name, f.Name)
	require.Equal(t, "body", f.Content)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFileRepoUpdateMissingFile(t *testing.T) {
	t.Parallel()

	r, mock := newFileRepo(t)
	content := "new body"

	mock.ExpectExec("UPDATE files SET updated_at=NOW(), content=? WHERE id=?").
		WithArgs(content, "nope").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectFileByID).
		WithArgs("nope").
		WillReturnRows(fileRows())

	_, err := r.Update(context.Background(), "nope", nil, &content)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileRepoDeleteNotFound(t *testing.T) {
	t.Parallel()

	r, mock := newFileRepo(t)
	mock.ExpectExec("DELETE FROM files WHERE id=?").
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.Delete(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileRepoCreate(t *testing.T) {
	t.Parallel()

	r, mock := newFileRepo(t)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO files (id, name, content) VALUES (?,?,?)").
		WithArgs(sqlmock.AnyArg(), "notes.md", "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(selectFileByID).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(fileRows().AddRow("f1", "notes.md", "", now, now))

	f, err := r.Create(context.Background(), "notes.md", "")
	require.NoError(t, err)
	require.Equal(t, "notes.md", f.Name)
	require.Equal(t, "", f.Content)
	require.NoError(t, mock.ExpectationsWereMet())
}
