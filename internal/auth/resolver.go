package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/opendash/opendash-server/internal/model"
	"github.com/opendash/opendash-server/internal/repository"
	"github.com/opendash/opendash-server/internal/utils"
)

// AgentNameHeader carries the caller-declared runtime identity of an
// agent. It is required on every agent request and recorded verbatim
// in the audit trail.
const AgentNameHeader = "X-Agent-Name"

// Resolver classifies requests. A human session wins over a bearer
// credential; if neither resolves, the request is rejected with a
// typed *Error.
type Resolver struct {
	Agents            *repository.AgentRepo
	SessionSecret     string
	SessionCookieName string
}

func NewResolver(agents *repository.AgentRepo, sessionSecret, cookieName string) *Resolver {
	return &Resolver{Agents: agents, SessionSecret: sessionSecret, SessionCookieName: cookieName}
}

// Resolve determines the actor behind a request.
//
// Order matters: a valid session cookie short-circuits to a human
// actor. Otherwise the Authorization header must carry an agent key
// with the public literal (401 if not), the name header must be
// present (400, a protocol violation rather than an auth failure), and the
// prefix+hash pair must match an agent row (401, with no hint as to
// which part mismatched). A known-but-revoked key is 403.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (Actor, error) {
	if cookie, err := req.Cookie(r.SessionCookieName); err == nil && cookie.Value != "" {
		if claims, err := utils.VerifySession(r.SessionSecret, cookie.Value); err == nil {
			return Actor{Type: ActorHuman, UserID: claims.UserID, Email: claims.Email}, nil
		}
	}

	rawKey := readBearerToken(req)
	if rawKey == "" || !strings.HasPrefix(rawKey, utils.APIKeyPrefix) {
		return Actor{}, errUnauthorized()
	}

	agentName := strings.TrimSpace(req.Header.Get(AgentNameHeader))
	if agentName == "" {
		return Actor{}, &Error{
			Status:  http.StatusBadRequest,
			Message: "Missing required header: " + AgentNameHeader,
		}
	}

	agent, err := r.Agents.GetByKey(ctx, utils.ReadAPIKeyPrefix(rawKey), utils.HashAPIKey(rawKey))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Actor{}, errUnauthorized()
		}
		return Actor{}, err
	}

	if agent.Status != model.AgentStatusActive {
		return Actor{}, &Error{Status: http.StatusForbidden, Message: "Agent key revoked"}
	}

	// Record the authentication without holding up the response. The
	// request context may be cancelled as soon as the handler returns,
	// so the touch gets its own deadline.
	go func(id string) {
		tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = r.Agents.TouchLastUsed(tctx, id)
	}(agent.ID)

	return Actor{Type: ActorAgent, AgentID: agent.ID, AgentName: agentName}, nil
}

// readBearerToken extracts the token from an "Authorization: Bearer x"
// header, returning "" when the header is absent or differently shaped.
func readBearerToken(req *http.Request) string {
	authorization := req.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(authorization, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
