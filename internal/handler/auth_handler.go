package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"vibeboxing/internal/logging"
	"vibeboxing/internal/middleware"
	"vibeboxing/internal/model"
	"vibeboxing/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookie      middleware.CookieConfig
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookie middleware.CookieConfig, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AuthHandler{authService: authService, cookie: cookie, logger: logger}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,max=72"`
}

// ForgotPasswordRequest represents a password reset request.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

// TokenMessageResponse confirms an operation and hands back a fresh token.
type TokenMessageResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ForgotPasswordResponse is returned by forgot-password. TempPassword is only
// present when mail delivery failed outside production.
type ForgotPasswordResponse struct {
	Message      string `json:"message"`
	TempPassword string `json:"tempPassword,omitempty"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return fail(c, h.logger, err)
	}

	middleware.SetSessionCookie(c, h.cookie, res.SessionID)
	return c.JSON(http.StatusCreated, AuthResponse{User: res.User, Token: res.Token})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	res, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(c, h.logger, err)
	}

	// Replace any previous session held by this browser.
	if old := middleware.SessionID(c, h.cookie); old != "" {
		if err := h.authService.Logout(ctx, 0, old); err != nil {
			logging.LogError(ctx, h.logger, "drop previous session", err)
		}
	}
	middleware.SetSessionCookie(c, h.cookie, res.SessionID)
	return c.JSON(http.StatusOK, AuthResponse{User: res.User, Token: res.Token})
}

// Logout godoc
// @Summary Logout user
// @Description Always succeeds. Revokes the caller's tokens when the caller is identified.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var userID uint
	if id, ok := middleware.IdentityFrom(c); ok {
		userID = id.User.ID
	}

	ctx := c.Request().Context()
	if err := h.authService.Logout(ctx, userID, middleware.SessionID(c, h.cookie)); err != nil {
		logging.LogError(ctx, h.logger, "logout cleanup failed", err)
	}
	middleware.ClearSessionCookie(c, h.cookie)
	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// ChangePassword godoc
// @Summary Change password
// @Description Revokes previously issued tokens and returns a fresh one.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} TokenMessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, err := h.authService.ChangePassword(c.Request().Context(), id.User.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, TokenMessageResponse{Message: "password changed", Token: token})
}

// ForgotPassword godoc
// @Summary Reset a forgotten password
// @Description Mails a temporary password. Outside production a failed delivery returns it inline.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} ForgotPasswordResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return fail(c, h.logger, err)
	}
	if !res.Delivered {
		return c.JSON(http.StatusOK, ForgotPasswordResponse{
			Message:      "email delivery failed; use the temporary password below",
			TempPassword: res.TempPassword,
		})
	}
	return c.JSON(http.StatusOK, ForgotPasswordResponse{Message: "a temporary password was sent to your email"})
}
