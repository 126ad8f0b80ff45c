package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/opendash/opendash-server/internal/model"
)

// ActivityRepo appends and reads agent audit rows. The table is
// append-only; there is no update or delete path.
type ActivityRepo struct{ DB *sql.DB }

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{DB: db} }

// Insert writes a full audit row including the denormalized
// agent_name/file_name/status_code columns.
func (r *ActivityRepo) Insert(ctx context.Context, row model.AgentActivity) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO agent_activity (id, agent_id, agent_name, action, file_id, file_name, status_code, details) VALUES (?,?,?,?,?,?,?,?)",
		uuid.NewString(), row.AgentID, row.AgentName, row.Action,
		row.FileID, row.FileName, row.StatusCode, row.Details)
	return err
}

// InsertReduced writes only the core columns plus the details payload.
// It is the fallback when Insert fails against a store that predates
// the denormalized columns.
func (r *ActivityRepo) InsertReduced(ctx context.Context, row model.AgentActivity) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO agent_activity (id, agent_id, action, file_id, details) VALUES (?,?,?,?,?)",
		uuid.NewString(), row.AgentID, row.Action, row.FileID, row.Details)
	return err
}

// ListByAgent returns a reverse-chronological page of one agent's rows.
func (r *ActivityRepo) ListByAgent(ctx context.Context, agentID string, limit, offset int) ([]model.AgentActivity, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,agent_id,agent_name,action,file_id,file_name,status_code,details,created_at FROM agent_activity WHERE agent_id=? ORDER BY created_at DESC LIMIT ? OFFSET ?",
		agentID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.AgentActivity{}
	for rows.Next() {
		var (
			a          model.AgentActivity
			agentName  sql.NullString
			fileID     sql.NullString
			fileName   sql.NullString
			statusCode sql.NullInt64
			details    sql.NullString
		)
		err := rows.Scan(&a.ID, &a.AgentID, &agentName, &a.Action,
			&fileID, &fileName, &statusCode, &details, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		if agentName.Valid {
			a.AgentName = &agentName.String
		}
		if fileID.Valid {
			a.FileID = &fileID.String
		}
		if fileName.Valid {
			a.FileName = &fileName.String
		}
		if statusCode.Valid {
			n := int(statusCode.Int64)
			a.StatusCode = &n
		}
		if details.Valid {
			a.Details = []byte(details.String)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// CountByAgent returns the total number of audit rows for an agent.
func (r *ActivityRepo) CountByAgent(ctx context.Context, agentID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM agent_activity WHERE agent_id=?", agentID).Scan(&n)
	return n, err
}
