package harness

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/opendash/opendash-server/internal/repository"
)

const harnessQuery = "SELECT system_prompt FROM prompt_harnesses WHERE scope=? LIMIT 1"

func newProvider(t *testing.T) (*Provider, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProvider(repository.NewHarnessRepo(db)), mock
}

func TestWrap(t *testing.T) {
	t.Parallel()

	wrapped := Wrap("  be careful  ", "# notes\nhello")
	require.Equal(t, "be careful\n\n---\n# notes\nhello", wrapped)
}

func TestWrapIsSinglePass(t *testing.T) {
	t.Parallel()

	once := Wrap(Default, "content")
	twice := Wrap(Default, once)
	require.NotEqual(t, once, twice)
}

func TestProviderGetStoredText(t *testing.T) {
	t.Parallel()

	p, mock := newProvider(t)
	mock.ExpectQuery(harnessQuery).WithArgs("global").
		WillReturnRows(sqlmock.NewRows([]string{"system_prompt"}).AddRow("custom harness"))

	require.Equal(t, "custom harness", p.Get(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProviderGetFallsBackWhenMissing(t *testing.T) {
	t.Parallel()

	p, mock := newProvider(t)
	mock.ExpectQuery(harnessQuery).WithArgs("global").
		WillReturnRows(sqlmock.NewRows([]string{"system_prompt"}))

	require.Equal(t, Default, p.Get(context.Background()))
}

func TestProviderGetFallsBackOnBlankText(t *testing.T) {
	t.Parallel()

	p, mock := newProvider(t)
	mock.ExpectQuery(harnessQuery).WithArgs("global").
		WillReturnRows(sqlmock.NewRows([]string{"system_prompt"}).AddRow("   \n\t "))

	require.Equal(t, Default, p.Get(context.Background()))
}

func TestProviderGetFallsBackOnStoreError(t *testing.T) {
	t.Parallel()

	p, mock := newProvider(t)
	mock.ExpectQuery(harnessQuery).WithArgs("global").
		WillReturnError(errors.New("connection refused"))

	// Store failures degrade to the default rather than propagating:
	// agent-bound content must always get some harness.
	require.Equal(t, Default, p.Get(context.Background()))
}

func TestProviderSet(t *testing.T) {
	t.Parallel()

	p, mock := newProvider(t)
	mock.ExpectExec("INSERT INTO prompt_harnesses (scope, system_prompt) VALUES (?,?) ON DUPLICATE KEY UPDATE system_prompt=?").
		WithArgs("global", "new text", "new text").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, p.Set(context.Background(), "new text"))
	require.NoError(t, mock.ExpectationsWereMet())
}
