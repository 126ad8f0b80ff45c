package router // package router wires HTTP routes to their handlers and middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/opendash/opendash-server/internal/auth"
	"github.com/opendash/opendash-server/internal/config"
	"github.com/opendash/opendash-server/internal/handler"
	"github.com/opendash/opendash-server/internal/middleware"
)

// Handlers groups everything RegisterRoutes needs so main stays small.
type Handlers struct {
	Files   *handler.FileHandler
	Agents  *handler.AgentHandler
	Harness *handler.HarnessHandler
}

// RegisterRoutes mounts all endpoints on the Echo instance.
//
// Every /v1 route resolves the actor first; the agent registry and the
// harness additionally require a human actor. Rate limiting runs after
// resolution so buckets can be keyed per actor.
func RegisterRoutes(e *echo.Echo, h Handlers, resolver *auth.Resolver, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")
	v1.Use(middleware.ResolveActor(resolver))
	v1.Use(middleware.NewTokenBucket(rlCfg, rdb))

	// File store: shared surface for humans and agents. Payload
	// shaping and auditing happen inside the handlers.
	v1.GET("/files", h.Files.List)
	v1.POST("/files", h.Files.Create)
	v1.GET("/files/:id", h.Files.Get)
	v1.PUT("/files/:id", h.Files.Update)
	v1.DELETE("/files/:id", h.Files.Delete)

	// Administrative surface: humans only, never agents.
	admin := v1.Group("", middleware.RequireHuman())
	admin.GET("/agents", h.Agents.List)
	admin.POST("/agents", h.Agents.Register)
	admin.GET("/agents/:id", h.Agents.Get)
	admin.DELETE("/agents/:id", h.Agents.Revoke)
	admin.POST("/agents/:id/rotate", h.Agents.Rotate)
	admin.GET("/agents/:id/activity", h.Agents.Activity)
	admin.GET("/harness", h.Harness.Get)
	admin.PUT("/harness", h.Harness.Put)
}
