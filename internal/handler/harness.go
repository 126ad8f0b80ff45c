package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/opendash/opendash-server/internal/harness"
)

// HarnessHandler exposes the global prompt harness to the dashboard.
// Human-only; gated by RequireHuman at the route level.
type HarnessHandler struct {
	Harness *harness.Provider
}

func NewHarnessHandler(p *harness.Provider) *HarnessHandler { return &HarnessHandler{Harness: p} }

type putHarnessReq struct {
	SystemPrompt string `json:"systemPrompt"`
}

// Get returns the effective harness text (the built-in default when
// none is stored).
func (h *HarnessHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	return c.JSON(http.StatusOK, echo.Map{"systemPrompt": h.Harness.Get(ctx)})
}

// Put replaces the global harness text. Blank text is rejected; the
// built-in default only applies when no harness was ever configured.
func (h *HarnessHandler) Put(c echo.Context) error {
	var req putHarnessReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	prompt := strings.TrimSpace(req.SystemPrompt)
	if prompt == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Field 'systemPrompt' is required."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Harness.Set(ctx, prompt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"systemPrompt": prompt})
}
