package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/opendash/opendash-server/internal/repository"
	"github.com/opendash/opendash-server/internal/utils"
)

const (
	testSecret = "session-secret"
	testCookie = "od_session"

	agentByKeyQuery = "SELECT id,name,key_prefix,api_key_hash,status,created_at,last_used_at,revoked_at FROM agents WHERE key_prefix=? AND api_key_hash=? LIMIT 1"
)

func newResolver(t *testing.T) (*Resolver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewResolver(repository.NewAgentRepo(db), testSecret, testCookie), mock
}

func agentRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "key_prefix", "api_key_hash", "status", "created_at", "last_used_at", "revoked_at",
	}).AddRow("agent-1", "Bot1", "aaaaaaaa", "hash", status, time.Now().UTC(), nil, nil)
}

func sessionToken(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-1",
		"email": "dev@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func requireAuthError(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok, "expected *auth.Error, got %T", err)
	require.Equal(t, status, ae.Status)
}

func TestResolveHumanSession(t *testing.T) {
	t.Parallel()

	r, _ := newResolver(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/files", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: sessionToken(t)})

	actor, err := r.Resolve(context.Background(), req)
	require.NoError(t, err)
	require.True(t, actor.IsHuman())
	require.Equal(t, "user-1", actor.UserID)
	require.Equal(t, "dev@example.com", actor.Email)
}

func TestResolveNoCredentials(t *testing.T) {
	t.Parallel()

	r, _ := newResolver(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/files", nil)

	_, err := r.Resolve(context.Background(), req)
	requireAuthError(t, err, http.StatusUnauthorized)
}

func TestResolveBearerWithoutKeyLiteral(t *testing.T) {
	t.Parallel()

	r, _ := newResolver(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/files", nil)
	req.Header.Set("Authorization", "Bearer not-an-agent-key")
	req.Header.Set(AgentNameHeader, "Bot1")

	_, err := r.Resolve(context.Background(), req)
	requireAuthError(t, err, http.StatusUnauthorized)
}

func TestResolveMissingNameHeader(t *testing.T) {
	t.Parallel()

	r, _ := newResolver(t)
	key, err := utils.GenerateAPIKey()
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/v1/files", nil)
	req.Header.Set("Authorization", "Bearer "+key.Raw)

	// A missing name header is a protocol violation (400), not an
	// authentication failure, and is checked before any store lookup.
	_, rerr := r.Resolve(context.Background(), req)
	requireAuthError(t, rerr, http.StatusBadRequest)
}

func TestResolveUnknownKey(t *testing.T) {
	t.Parallel()

	r, mock := newResolver(t)
	key, err := utils.GenerateAPIKey()
	require.NoError(t, err)

	// No row matches the prefix+hash pair. The error does not reveal
	// which half mismatched.
	mock.ExpectQuery(agentByKeyQuery).
		WithArgs(key.Prefix, key.Hash).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "key_prefix", "api_key_hash", "status", "created_at", "last_used_at", "revoked_at",
		}))

	req := httptest.NewRequest(http.MethodGet, "/v1/files", nil)
	req.Header.Set("Authorization", "Bearer "+key.Raw)
	req.Header.Set(AgentNameHeader, "Bot1")

	_, rerr := r.Resolve(context.Background(), req)
	requireAuthError(t, rerr, http.StatusUnauthorized)
}

func TestResolveRevokedKey(t *testing.T) {
	t.Parallel()

	r, mock := newResolver(t)
	key, err := utils.GenerateAPIKey()
	require.NoError(t, err)

	mock.ExpectQuery(agentByKeyQuery).
		WithArgs(key.Prefix, key.Hash).
		WillReturnRows(agentRow("revoked"))

	req := httptest.NewRequest(http.MethodGet, "/v1/files", nil)
	req.Header.Set("Authorization", "Bearer "+key.Raw)
	req.Header.Set(AgentNameHeader, "Bot1")

	// The key still hashes to a known row, so this is 403, never a
	// successful agent actor and never a plain 401.
	_, rerr := r.Resolve(context.Background(), req)
	requireAuthError(t, rerr, http.StatusForbidden)
}

func TestResolveActiveAgent(t *testing.T) {
	t.Parallel()

	r, mock := newResolver(t)
	key, err := utils.GenerateAPIKey()
	require.NoError(t, err)

	mock.ExpectQuery(agentByKeyQuery).
		WithArgs(key.Prefix, key.Hash).
		WillReturnRows(agentRow("active"))

	req := httptest.NewRequest(http.MethodGet, "/v1/files", nil)
	req.Header.Set("Authorization", "Bearer "+key.Raw)
	req.Header.Set(AgentNameHeader, "Runtime Bot")

	actor, rerr := r.Resolve(context.Background(), req)
	require.NoError(t, rerr)
	require.True(t, actor.IsAgent())
	require.Equal(t, "agent-1", actor.AgentID)
	// The actor carries the header-supplied runtime label, not the
	// registered display name.
	require.Equal(t, "Runtime Bot", actor.AgentName)
}

func TestResolveHumanSessionWinsOverBearer(t *testing.T) {
	t.Parallel()

	r, _ := newResolver(t)
	key, err := utils.GenerateAPIKey()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/files", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: sessionToken(t)})
	req.Header.Set("Authorization", "Bearer "+key.Raw)
	req.Header.Set(AgentNameHeader, "Bot1")

	actor, rerr := r.Resolve(context.Background(), req)
	require.NoError(t, rerr)
	require.True(t, actor.IsHuman())
}
