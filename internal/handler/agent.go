package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opendash/opendash-server/internal/model"
	"github.com/opendash/opendash-server/internal/repository"
	"github.com/opendash/opendash-server/internal/utils"
)

// AgentHandler implements the agent registry: human-only administrative
// operations over machine credentials. Routes using it are gated by
// RequireHuman, so no actor shaping or auditing happens here.
type AgentHandler struct {
	Agents     *repository.AgentRepo
	Activities *repository.ActivityRepo
}

func NewAgentHandler(agents *repository.AgentRepo, activities *repository.ActivityRepo) *AgentHandler {
	return &AgentHandler{Agents: agents, Activities: activities}
}

// ----- DTOs -----

type registerAgentReq struct {
	Name string `json:"name"`
}

// agentPart deliberately excludes the key hash; only the non-secret
// lookup prefix is ever shown.
type agentPart struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	KeyPrefix  string     `json:"key_prefix"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	RevokedAt  *time.Time `json:"revoked_at"`
}

type activityPart struct {
	ID         string          `json:"id"`
	AgentID    string          `json:"agent_id"`
	AgentName  *string         `json:"agent_name"`
	Action     string          `json:"action"`
	FileID     *string         `json:"file_id"`
	FileName   *string         `json:"file_name"`
	StatusCode *int            `json:"status_code"`
	Details    json.RawMessage `json:"details"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toAgentPart(a model.Agent) agentPart {
	return agentPart{
		ID:         a.ID,
		Name:       a.Name,
		KeyPrefix:  a.KeyPrefix,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
		LastUsedAt: a.LastUsedAt,
		RevokedAt:  a.RevokedAt,
	}
}

// List returns all registered agents, newest first.
func (h *AgentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	agents, err := h.Agents.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	items := make([]agentPart, 0, len(agents))
	for _, a := range agents {
		items = append(items, toAgentPart(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"agents": items})
}

// Register creates a new agent and returns the raw API key exactly
// once; afterwards only the hash and prefix exist server-side.
func (h *AgentHandler) Register(c echo.Context) error {
	var req registerAgentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Field 'name' is required."})
	}

	key, err := utils.GenerateAPIKey()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue key failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	agent, err := h.Agents.Create(ctx, name, key.Hash, key.Prefix)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"agent":  toAgentPart(agent),
		"apiKey": key.Raw, // raw key shown once, never retrievable again
	})
}

// Get fetches one agent record.
func (h *AgentHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	agent, err := h.Agents.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Agent not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"agent": toAgentPart(agent)})
}

// Revoke terminally disables an agent's key. Revoking an already
// revoked agent is an idempotent no-op: status and revoked_at keep
// their original values and the current record is returned.
func (h *AgentHandler) Revoke(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	agent, err := h.Agents.Revoke(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Agent not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"agent": toAgentPart(agent)})
}

// Rotate issues a fresh key for an active agent, replacing hash and
// prefix in place. Revoked agents cannot be rotated back into use.
func (h *AgentHandler) Rotate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Agents.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Agent not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if existing.Status != model.AgentStatusActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Cannot rotate key for revoked agent."})
	}

	key, err := utils.GenerateAPIKey()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue key failed"})
	}
	agent, err := h.Agents.ReplaceKey(ctx, existing.ID, key.Hash, key.Prefix)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"agent":  toAgentPart(agent),
		"apiKey": key.Raw,
	})
}

// Activity returns a reverse-chronological page of one agent's audit
// rows plus the total count. limit is clamped to [1,200] (default 50),
// offset to >= 0 (default 0).
func (h *AgentHandler) Activity(c echo.Context) error {
	id := c.Param("id")

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 200 {
		limit = 200
	}
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Activities.ListByAgent(ctx, id, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	total, err := h.Activities.CountByAgent(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	items := make([]activityPart, 0, len(rows))
	for _, a := range rows {
		items = append(items, activityPart{
			ID:         a.ID,
			AgentID:    a.AgentID,
			AgentName:  a.AgentName,
			Action:     a.Action,
			FileID:     a.FileID,
			FileName:   a.FileName,
			StatusCode: a.StatusCode,
			Details:    json.RawMessage(a.Details),
			CreatedAt:  a.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}
