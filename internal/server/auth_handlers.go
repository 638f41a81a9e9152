package server

import (
	"strings"
	"time"

	"dashstack/internal/auth"
	"dashstack/internal/models"

	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

type updatePasswordRequest struct {
	Token           string `json:"token,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// authFailureStatus maps a flow failure message onto an HTTP status.
func authFailureStatus(msg string) int {
	switch msg {
	case auth.MsgInvalidCredentials:
		return fiber.StatusUnauthorized
	case auth.MsgEmailAlreadyRegistered:
		return fiber.StatusConflict
	case auth.MsgGenericError, "Failed to send password reset email":
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

func respondAuthFailure(c *fiber.Ctx, msg string) error {
	return c.Status(authFailureStatus(msg)).JSON(models.Response{
		Success: false,
		Error:   msg,
	})
}

// normalizeEmail lowercases and trims the address so lookups and the unique
// index agree on one canonical form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  time.Now().Add(auth.SessionTTL),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result := s.authService.SignUp(c.UserContext(), normalizeEmail(req.Email), req.Password)
	if !result.Success {
		return respondAuthFailure(c, result.Error)
	}

	if result.Token != "" {
		s.setSessionCookie(c, result.Token)
	}
	return models.RespondWithData(c, fiber.StatusCreated, fiber.Map{
		"email":        result.Email,
		"token":        result.Token,
		"auto_sign_in": result.AutoSignIn,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result := s.authService.SignIn(c.UserContext(), normalizeEmail(req.Email), req.Password)
	if !result.Success {
		return respondAuthFailure(c, result.Error)
	}

	s.setSessionCookie(c, result.Token)
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{
		"email": result.Email,
		"token": result.Token,
		"user":  result.User,
	})
}

// Logout handles POST /api/auth/logout
func (s *Server) Logout(c *fiber.Ctx) error {
	if session, ok := c.Locals("session").(*auth.Session); ok {
		s.authService.SignOut(c.UserContext(), session)
	}
	s.clearSessionCookie(c)
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{
		"message": "Signed out",
	})
}

// ResetPassword handles POST /api/auth/reset-password
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result := s.authService.ResetPassword(c.UserContext(), normalizeEmail(req.Email))
	if !result.Success {
		return respondAuthFailure(c, result.Error)
	}
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{
		"email": result.Email,
	})
}

// UpdatePassword handles POST /api/auth/update-password. With a reset token
// in the body no session is required; otherwise the caller must present one.
func (s *Server) UpdatePassword(c *fiber.Ctx) error {
	var req updatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var result auth.UpdateResult
	if req.Token != "" {
		result = s.authService.UpdatePasswordWithToken(c.UserContext(), req.Token, req.Password, req.ConfirmPassword)
	} else {
		session := s.resolveSession(c)
		if session == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}
		result = s.authService.UpdatePassword(c.UserContext(), session.UserID, req.Password, req.ConfirmPassword)
	}

	if !result.Success {
		return respondAuthFailure(c, result.Error)
	}
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{
		"message": "Password updated",
	})
}

// AuthCallback handles GET /api/auth/callback?token=. This is the link
// target of verification emails, so it redirects instead of answering JSON.
func (s *Server) AuthCallback(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Redirect(s.config.AppURL+"/auth/error", fiber.StatusFound)
	}

	result := s.authService.VerifyEmail(c.UserContext(), token)
	if !result.Success {
		return c.Redirect(s.config.AppURL+"/auth/error", fiber.StatusFound)
	}
	return c.Redirect(s.config.AppURL+"/dashboard", fiber.StatusFound)
}
