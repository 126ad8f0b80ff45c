// Package auth classifies inbound requests as human dashboard users or
// API-key-bearing agents, failing closed when neither applies.
package auth

import "net/http"

// ActorType tags the two caller classes. The set is closed; every
// consumer switches exhaustively on it.
type ActorType string

const (
	ActorHuman ActorType = "human"
	ActorAgent ActorType = "agent"
)

// Actor is the resolved identity of a request. Exactly one group of
// fields is populated depending on Type: UserID/Email for humans,
// AgentID/AgentName for agents. AgentName is the runtime label from
// the request header, not the registered display name.
type Actor struct {
	Type      ActorType
	UserID    string
	Email     string
	AgentID   string
	AgentName string
}

// IsAgent reports whether the actor is an agent credential principal.
func (a Actor) IsAgent() bool { return a.Type == ActorAgent }

// IsHuman reports whether the actor is a human session principal.
func (a Actor) IsHuman() bool { return a.Type == ActorHuman }

// Error is a resolution failure carrying the HTTP status it must be
// translated to at the route boundary (400, 401 or 403). Any other
// error escaping the resolver maps to 500.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func errUnauthorized() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "Unauthorized"}
}
