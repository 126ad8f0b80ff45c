// Package activity records the audit trail of agent file operations.
// Writes are fire-and-forget: they run off the request path and their
// failures never surface to the caller.
package activity

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/opendash/opendash-server/internal/auth"
	"github.com/opendash/opendash-server/internal/model"
	"github.com/opendash/opendash-server/internal/queue"
)

// Action tags an auditable file operation. The enumeration is closed:
// only file-domain operations are audited.
type Action string

const (
	ActionList   Action = "files.list"
	ActionSearch Action = "files.search"
	ActionGet    Action = "files.get"
	ActionCreate Action = "files.create"
	ActionUpdate Action = "files.update"
	ActionDelete Action = "files.delete"
)

// InsertStore is the subset of the activity repository the recorder
// needs; narrowed to an interface so tests can fail inserts on demand.
type InsertStore interface {
	Insert(ctx context.Context, row model.AgentActivity) error
	InsertReduced(ctx context.Context, row model.AgentActivity) error
}

// Recorder appends audit rows for agent-performed operations and, when
// Publish is set, emits the matching broker event. Human operations
// are never recorded.
type Recorder struct {
	Store   InsertStore
	Publish func(ctx context.Context, event queue.AgentActivityEvent) error

	wg sync.WaitGroup
}

func NewRecorder(store InsertStore) *Recorder { return &Recorder{Store: store} }

// Record audits one operation outcome. It returns immediately; the
// write happens in a detached goroutine with its own deadline so a
// slow or broken audit store cannot delay or fail the response. Both
// success and failure outcomes are recorded; a 404 on a bad lookup is
// itself an auditable event.
func (r *Recorder) Record(actor auth.Actor, action Action, fileID, fileName *string, statusCode int) {
	if !actor.IsAgent() {
		return
	}

	details, _ := json.Marshal(map[string]any{
		"agent_name":  actor.AgentName,
		"file_name":   fileName,
		"status_code": statusCode,
	})
	row := model.AgentActivity{
		AgentID:    actor.AgentID,
		AgentName:  &actor.AgentName,
		Action:     string(action),
		FileID:     fileID,
		FileName:   fileName,
		StatusCode: &statusCode,
		Details:    details,
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		r.write(ctx, row)
	}()
}

// write attempts the full-schema insert first and falls back to the
// reduced column set, which tolerates stores that predate the
// denormalized columns. If both attempts fail the row is dropped with
// a log line; audit unavailability must not affect anything else.
func (r *Recorder) write(ctx context.Context, row model.AgentActivity) {
	if err := r.Store.Insert(ctx, row); err != nil {
		if err := r.Store.InsertReduced(ctx, row); err != nil {
			log.Printf("activity: audit write dropped (agent=%s action=%s): %v",
				row.AgentID, row.Action, err)
		}
	}

	if r.Publish == nil {
		return
	}
	event := queue.AgentActivityEvent{
		AgentID:    row.AgentID,
		Action:     row.Action,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if row.AgentName != nil {
		event.AgentName = *row.AgentName
	}
	if row.FileID != nil {
		event.FileID = *row.FileID
	}
	if row.FileName != nil {
		event.FileName = *row.FileName
	}
	if row.StatusCode != nil {
		event.StatusCode = *row.StatusCode
	}
	_ = r.Publish(ctx, event) // publisher already logs its own failures
}

// Wait blocks until all outstanding audit writes have finished. Used
// by tests and graceful-shutdown paths; the request path never calls it.
func (r *Recorder) Wait() { r.wg.Wait() }
