package middleware // middleware provides shared request processing for handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opendash/opendash-server/internal/auth"
)

// actorKey is the context key under which the resolved actor is stored.
const actorKey = "actor"

// ResolveActor returns middleware that classifies every request as a
// human or agent actor before the handler runs. Typed resolution
// failures translate 1:1 to their status (400/401/403); anything else
// is a 500. Handlers read the result via ActorFrom.
func ResolveActor(resolver *auth.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := resolver.Resolve(c.Request().Context(), c.Request())
			if err != nil {
				var ae *auth.Error
				if errors.As(err, &ae) {
					return c.JSON(ae.Status, echo.Map{"error": ae.Message})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// RequireHuman returns middleware that rejects non-human actors with
// 403. It must run after ResolveActor. Administrative routes (agent
// registry, harness) use it so agents can never reach them.
func RequireHuman() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok || !actor.IsHuman() {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden"})
			}
			return next(c)
		}
	}
}

// ActorFrom extracts the resolved actor stored by ResolveActor.
func ActorFrom(c echo.Context) (auth.Actor, bool) {
	actor, ok := c.Get(actorKey).(auth.Actor)
	return actor, ok
}
