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

// UserHandler serves the signed-in user's profile.
type UserHandler struct {
	svc    service.UserService
	cookie middleware.CookieConfig
	logger *slog.Logger
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, cookie middleware.CookieConfig, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &UserHandler{svc: svc, cookie: cookie, logger: logger}
}

// UserResponse wraps a profile.
type UserResponse struct {
	User *model.User `json:"user"`
}

// GetUser godoc
// @Summary Current user
// @Description Returns the caller's profile and a usable token, minted from the session when no bearer token was sent.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AuthResponse{User: id.User, Token: id.Token})
}

// UpdateUser godoc
// @Summary Update profile
// @Description Partial update. Empty strings and absent fields keep the stored value.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ProfileUpdate true "Profile fields"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req model.ProfileUpdate
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), id.User.ID, req)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, UserResponse{User: user})
}

// DeleteUser godoc
// @Summary Delete account
// @Description Deletes the account, its combos and every session.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteAccount(c.Request().Context(), id.User.ID); err != nil {
		return fail(c, h.logger, err)
	}
	middleware.ClearSessionCookie(c, h.cookie)
	return c.JSON(http.StatusOK, MessageResponse{Message: "account deleted"})
}
