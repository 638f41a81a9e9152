package server

import (
	"time"

	"dashstack/internal/cache"
	"dashstack/internal/models"

	"github.com/gofiber/fiber/v2"
)

const settingsCacheTTL = 5 * time.Minute

func settingsCacheKey(userID string) string {
	return "settings:" + userID
}

type updateSettingsRequest struct {
	Locale                    *string `json:"locale"`
	Theme                     *string `json:"theme"`
	NotificationsEnabled      *bool   `json:"notifications_enabled"`
	EmailNotificationsEnabled *bool   `json:"email_notifications_enabled"`
}

var validThemes = map[string]bool{"light": true, "dark": true, "system": true}

// GetMySettings handles GET /api/settings. Cache-aside over Redis; a user
// who never saved settings gets the defaults without a row being written.
func (s *Server) GetMySettings(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	var settings models.UserSettings
	err := cache.CacheAside(c.UserContext(), s.redis, settingsCacheKey(userID), &settings, settingsCacheTTL, func() error {
		stored, err := s.settingsRepo.GetByUserID(c.UserContext(), userID)
		if err != nil {
			return err
		}
		if stored == nil {
			settings = *models.DefaultSettings(userID)
			return nil
		}
		settings = *stored
		return nil
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return models.RespondWithData(c, fiber.StatusOK, settings)
}

// UpdateMySettings handles PUT /api/settings. Partial updates over the
// stored (or default) settings; the cache entry is invalidated on write.
func (s *Server) UpdateMySettings(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	var req updateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Theme != nil && !validThemes[*req.Theme] {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Theme must be one of: light, dark, system"))
	}
	if req.Locale != nil && (*req.Locale == "" || len(*req.Locale) > 10) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid locale"))
	}

	settings, err := s.settingsRepo.GetByUserID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if settings == nil {
		settings = models.DefaultSettings(userID)
	}

	if req.Locale != nil {
		settings.Locale = *req.Locale
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.EmailNotificationsEnabled != nil {
		settings.EmailNotificationsEnabled = *req.EmailNotificationsEnabled
	}

	if err := s.settingsRepo.Upsert(c.UserContext(), settings); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	cache.Invalidate(c.UserContext(), s.redis, settingsCacheKey(userID))

	return models.RespondWithData(c, fiber.StatusOK, settings)
}
