package server

import (
	"log/slog"

	"dashstack/internal/middleware"
	"dashstack/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ensureProfileRequest struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// AdminDashboard handles GET /admin. A small summary payload for the admin
// landing page.
func (s *Server) AdminDashboard(c *fiber.Ctx) error {
	total, err := s.profileRepo.Count(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{
		"total_users": total,
	})
}

// AdminListUsers handles GET /api/admin/users and GET /admin/users
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	profiles, err := s.profileRepo.List(c.UserContext(), limit, offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	total, err := s.profileRepo.Count(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{
		"users":  profiles,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// AdminPromoteUser handles POST /api/admin/users/:id/promote
func (s *Server) AdminPromoteUser(c *fiber.Ctx) error {
	return s.setUserRole(c, c.Params("id"), models.RoleAdmin)
}

// AdminDemoteUser handles POST /api/admin/users/:id/demote. Self-demotion
// is rejected so the last admin cannot lock everyone out mid-session.
func (s *Server) AdminDemoteUser(c *fiber.Ctx) error {
	targetID := c.Params("id")
	if actorID, _ := c.Locals("userID").(string); actorID == targetID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot demote yourself"))
	}
	return s.setUserRole(c, targetID, models.RoleUser)
}

func (s *Server) setUserRole(c *fiber.Ctx, targetID string, role models.Role) error {
	profile, err := s.profileRepo.GetByID(c.UserContext(), targetID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if profile == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Profile", targetID))
	}

	if profile.Role != role {
		profile.Role = role
		if err := s.profileRepo.Update(c.UserContext(), profile); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	actorID, _ := c.Locals("userID").(string)
	middleware.Logger.Info("user role changed",
		slog.String("target_id", targetID),
		slog.String("role", string(role)),
		slog.String("actor_id", actorID))

	return models.RespondWithData(c, fiber.StatusOK, profile)
}

// AdminEnsureProfile handles POST /api/admin/ensure-profile. Reconciles a
// profile row for an identity whose provisioning step never ran. Idempotent.
func (s *Server) AdminEnsureProfile(c *fiber.Ctx) error {
	var req ensureProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ID == "" || req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("id and email are required"))
	}

	profile := s.authService.Bootstrapper().EnsureProfileExists(
		c.UserContext(), req.ID, normalizeEmail(req.Email), req.FullName)
	if profile == nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(nil))
	}

	return models.RespondWithData(c, fiber.StatusOK, profile)
}
