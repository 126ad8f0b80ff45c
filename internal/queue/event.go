// Package queue defines message payloads exchanged over the message broker.
package queue

// AgentActivityQueue is the durable queue carrying audit events.
const AgentActivityQueue = "agent.activity"

// AgentActivityEvent is published after an agent file operation has
// been audited. It mirrors the audit row so downstream consumers can
// alert or aggregate without querying the primary database.
type AgentActivityEvent struct {
	AgentID    string `json:"agent_id"`
	AgentName  string `json:"agent_name"`
	Action     string `json:"action"`
	FileID     string `json:"file_id,omitempty"`
	FileName   string `json:"file_name,omitempty"`
	StatusCode int    `json:"status_code"`
	OccurredAt string `json:"occurred_at"`
}
