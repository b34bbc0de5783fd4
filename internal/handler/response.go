package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "vibeboxing/internal/errors"
	"vibeboxing/internal/logging"
	"vibeboxing/internal/middleware"
)

// MessageResponse is returned by operations that only confirm success.
type MessageResponse struct {
	Message string `json:"message"`
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: validationMessage(err),
			Code:  "VALIDATION_FAILED",
		})
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			parts = append(parts, fmt.Sprintf("%s must be a valid email", fe.Field()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(parts, "; ")
}

// fail maps a service error to its HTTP form. Server-side failures are logged
// and never leak their message.
func fail(c echo.Context, logger *slog.Logger, err error) error {
	herr := apperrors.MapErrorToHTTP(err)
	if herr.StatusCode >= http.StatusInternalServerError {
		logging.LogError(c.Request().Context(), logger, "request failed", err)
	}
	return echo.NewHTTPError(herr.StatusCode, herr.ToErrorResponse())
}

// identity returns the caller, which RequireAuth guarantees on protected routes.
func identity(c echo.Context) (*middleware.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: apperrors.ErrUnauthenticated.Error(),
			Code:  "UNAUTHENTICATED",
		})
	}
	return id, nil
}
