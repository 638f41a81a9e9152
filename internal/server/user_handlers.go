package server

import (
	"dashstack/internal/models"

	"github.com/gofiber/fiber/v2"
)

type updateProfileRequest struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	profile, err := s.profileRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if profile == nil {
		// Valid session but no row: provisioning never completed.
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Profile", userID))
	}

	return models.RespondWithData(c, fiber.StatusOK, profile)
}

// UpdateMyProfile handles PUT /api/users/me. Only display fields are
// writable; email, role, and verification state are managed elsewhere.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if profile == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Profile", userID))
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}

	if err := s.profileRepo.Update(c.UserContext(), profile); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return models.RespondWithData(c, fiber.StatusOK, profile)
}
