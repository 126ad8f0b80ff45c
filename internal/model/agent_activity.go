package model

import "time"

// AgentActivity is an append-only audit row in the `agent_activity`
// table recording one agent-performed file operation and its outcome.
// AgentName, FileName and StatusCode are denormalized into Details as
// well so rows survive deployments where those columns are missing.
//
// Fields:
//  ID         – primary key identifier (uuid).
//  AgentID    – agent that performed the operation.
//  AgentName  – runtime identity label supplied via the name header.
//  Action     – one of the activity.Action values (files.get, ...).
//  FileID     – target file id, if known (nullable).
//  FileName   – target file name, if known (nullable).
//  StatusCode – HTTP status of the outcome (nullable on reduced rows).
//  Details    – raw JSON copy of the denormalized fields.
//  CreatedAt  – insertion timestamp.
type AgentActivity struct {
	ID         string    // agent_activity.id
	AgentID    string    // agent_activity.agent_id
	AgentName  *string   // agent_activity.agent_name (nullable)
	Action     string    // agent_activity.action
	FileID     *string   // agent_activity.file_id (nullable)
	FileName   *string   // agent_activity.file_name (nullable)
	StatusCode *int      // agent_activity.status_code (nullable)
	Details    []byte    // agent_activity.details (JSON)
	CreatedAt  time.Time // agent_activity.created_at
}
