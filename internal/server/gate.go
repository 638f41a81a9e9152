package server

import (
	"context"
	"net/url"

	"dashstack/internal/middleware"
	"dashstack/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// AdminGate returns the browser-facing admin gate. Unlike AdminRequired it
// never answers with a status-code error: an unauthenticated request is
// redirected to sign-in with the original path preserved, and anything else
// that is not a verified admin lands on the home page. The gate fails
// closed: a store error during role resolution redirects home.
func (s *Server) AdminGate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := s.resolveSession(c)
		if session == nil {
			observability.GateDecisions.WithLabelValues("redirect_signin").Inc()
			target := "/auth/sign-in?redirect=" + url.QueryEscape(c.OriginalURL())
			return c.Redirect(target, fiber.StatusFound)
		}

		role, err := s.currentRole(c.Context(), session.UserID)
		if err != nil || !role.IsAdmin() {
			observability.GateDecisions.WithLabelValues("redirect_home").Inc()
			return c.Redirect("/", fiber.StatusFound)
		}

		observability.GateDecisions.WithLabelValues("allow").Inc()
		c.Locals("userID", session.UserID)
		c.Locals("session", session)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, session.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}
