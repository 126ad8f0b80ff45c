package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opendash/opendash-server/internal/activity"
	"github.com/opendash/opendash-server/internal/harness"
	"github.com/opendash/opendash-server/internal/middleware"
	"github.com/opendash/opendash-server/internal/model"
	"github.com/opendash/opendash-server/internal/repository"
)

// listLimit caps list/search responses.
const listLimit = 100

// FileHandler bundles dependencies for the file CRUD endpoints. The
// same routes serve humans and agents; the resolved actor decides the
// payload shape (agents get harness-wrapped content, or none at all on
// list) and whether the operation is audited.
type FileHandler struct {
	Files    *repository.FileRepo
	Harness  *harness.Provider
	Activity *activity.Recorder
}

func NewFileHandler(files *repository.FileRepo, h *harness.Provider, rec *activity.Recorder) *FileHandler {
	return &FileHandler{Files: files, Harness: h, Activity: rec}
}

// ----- DTOs -----

type createFileReq struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// updateFileReq uses pointers so an absent field and an empty string
// are distinguishable: absent means "leave untouched".
type updateFileReq struct {
	Name    *string `json:"name"`
	Content *string `json:"content"`
}

type filePart struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// fileMetaPart is the content-free shape returned to agents on
// list/search to minimize exposure.
type fileMetaPart struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toFilePart(f model.File) filePart {
	return filePart{ID: f.ID, Name: f.Name, Content: f.Content, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt}
}

// List returns files sorted by most recent update, optionally filtered
// by the q query parameter. Agents receive content-free items.
func (h *FileHandler) List(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	q := c.QueryParam("q")
	action := activity.ActionList
	if strings.TrimSpace(q) != "" {
		action = activity.ActionSearch
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	files, err := h.Files.List(ctx, q, listLimit)
	if err != nil {
		h.Activity.Record(actor, action, nil, nil, http.StatusInternalServerError)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	h.Activity.Record(actor, action, nil, nil, http.StatusOK)
	if actor.IsAgent() {
		items := make([]fileMetaPart, 0, len(files))
		for _, f := range files {
			items = append(items, fileMetaPart{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt})
		}
		return c.JSON(http.StatusOK, echo.Map{"files": items})
	}
	items := make([]filePart, 0, len(files))
	for _, f := range files {
		items = append(items, toFilePart(f))
	}
	return c.JSON(http.StatusOK, echo.Map{"files": items})
}

// Get fetches one file. Content returned to an agent is wrapped in the
// prompt harness; humans get it verbatim.
func (h *FileHandler) Get(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, err := h.Files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.Activity.Record(actor, activity.ActionGet, &id, nil, http.StatusNotFound)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "File not found."})
		}
		h.Activity.Record(actor, activity.ActionGet, &id, nil, http.StatusInternalServerError)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	resp := toFilePart(f)
	if actor.IsAgent() {
		resp.Content = harness.Wrap(h.Harness.Get(ctx), f.Content)
	}
	h.Activity.Record(actor, activity.ActionGet, &f.ID, &f.Name, http.StatusOK)
	return c.JSON(http.StatusOK, echo.Map{"file": resp})
}

// Create stores a new file. Name is required; content defaults to "".
func (h *FileHandler) Create(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)

	var req createFileReq
	if err := c.Bind(&req); err != nil {
		h.Activity.Record(actor, activity.ActionCreate, nil, nil, http.StatusBadRequest)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		h.Activity.Record(actor, activity.ActionCreate, nil, nil, http.StatusBadRequest)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Field 'name' is required."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, err := h.Files.Create(ctx, name, req.Content)
	if err != nil {
		h.Activity.Record(actor, activity.ActionCreate, nil, &name, http.StatusInternalServerError)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	resp := toFilePart(f)
	if actor.IsAgent() {
		resp.Content = harness.Wrap(h.Harness.Get(ctx), f.Content)
	}
	h.Activity.Record(actor, activity.ActionCreate, &f.ID, &f.Name, http.StatusCreated)
	return c.JSON(http.StatusCreated, echo.Map{"file": resp})
}

// Update applies a partial patch to name and/or content. An empty
// patch set and an empty name are both client errors.
func (h *FileHandler) Update(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("id")

	var req updateFileReq
	if err := c.Bind(&req); err != nil {
		h.Activity.Record(actor, activity.ActionUpdate, &id, nil, http.StatusBadRequest)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			h.Activity.Record(actor, activity.ActionUpdate, &id, nil, http.StatusBadRequest)
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Field 'name' cannot be empty."})
		}
		req.Name = &trimmed
	}
	if req.Name == nil && req.Content == nil {
		h.Activity.Record(actor, activity.ActionUpdate, &id, nil, http.StatusBadRequest)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No fields provided to update."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, err := h.Files.Update(ctx, id, req.Name, req.Content)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.Activity.Record(actor, activity.ActionUpdate, &id, nil, http.StatusNotFound)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "File not found."})
		}
		h.Activity.Record(actor, activity.ActionUpdate, &id, nil, http.StatusInternalServerError)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	resp := toFilePart(f)
	if actor.IsAgent() {
		resp.Content = harness.Wrap(h.Harness.Get(ctx), f.Content)
	}
	h.Activity.Record(actor, activity.ActionUpdate, &f.ID, &f.Name, http.StatusOK)
	return c.JSON(http.StatusOK, echo.Map{"file": resp})
}

// Delete removes a file. The record is fetched first so the audit row
// can carry the real name; a missing id is a 404.
func (h *FileHandler) Delete(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, err := h.Files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.Activity.Record(actor, activity.ActionDelete, &id, nil, http.StatusNotFound)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "File not found."})
		}
		h.Activity.Record(actor, activity.ActionDelete, &id, nil, http.StatusInternalServerError)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	if err := h.Files.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Deleted underneath us between the fetch and the delete.
			h.Activity.Record(actor, activity.ActionDelete, &f.ID, &f.Name, http.StatusNotFound)
			return c.JSON(http.StatusNotFound, echo.Map{"error": "File not found."})
		}
		h.Activity.Record(actor, activity.ActionDelete, &f.ID, &f.Name, http.StatusInternalServerError)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	h.Activity.Record(actor, activity.ActionDelete, &f.ID, &f.Name, http.StatusOK)
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
