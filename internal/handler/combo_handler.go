package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"vibeboxing/internal/combo"
	apperrors "vibeboxing/internal/errors"
	"vibeboxing/internal/logging"
	"vibeboxing/internal/service"
)

// ComboHandler handles combo endpoints. Every route is owner-scoped.
type ComboHandler struct {
	svc    service.ComboService
	logger *slog.Logger
}

// NewComboHandler creates a new combo handler.
func NewComboHandler(svc service.ComboService, logger *slog.Logger) *ComboHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ComboHandler{svc: svc, logger: logger}
}

// CreateComboRequest represents a new combo. Etapas is a JSON array of steps
// or a JSON string holding that array.
type CreateComboRequest struct {
	Name   string          `json:"nome" validate:"required"`
	Stance string          `json:"base" validate:"required,oneof=destro canhoto"`
	Guard  string          `json:"guarda" validate:"required"`
	Steps  json.RawMessage `json:"etapas" validate:"required" swaggertype:"array,object"`
}

// UpdateComboRequest replaces the fields it carries.
type UpdateComboRequest struct {
	Name   *string         `json:"nome"`
	Stance *string         `json:"base" validate:"omitempty,oneof=destro canhoto"`
	Guard  *string         `json:"guarda"`
	Steps  json.RawMessage `json:"etapas" swaggertype:"array,object"`
}

func parseComboID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Malformed ids read the same as foreign or missing ones.
		return uuid.Nil, apperrors.ErrComboNotFound
	}
	return id, nil
}

// List godoc
// @Summary List combos
// @Description The caller's combos, most recently modified first.
// @Tags combos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.ComboView
// @Failure 401 {object} errors.ErrorResponse
// @Router /combos [get]
func (h *ComboHandler) List(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	combos, err := h.svc.List(c.Request().Context(), id.User.ID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, combos)
}

// Create godoc
// @Summary Create combo
// @Tags combos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateComboRequest true "Combo"
// @Success 201 {object} model.ComboView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /combos [post]
func (h *ComboHandler) Create(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var req CreateComboRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	view, err := h.svc.Create(c.Request().Context(), id.User.ID, service.ComboDraft{
		Name:   req.Name,
		Stance: combo.Stance(req.Stance),
		Guard:  req.Guard,
		Steps:  req.Steps,
	})
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, view)
}

// Get godoc
// @Summary Get combo
// @Tags combos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Combo ID"
// @Success 200 {object} model.ComboView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /combos/{id} [get]
func (h *ComboHandler) Get(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	comboID, err := parseComboID(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	view, err := h.svc.Get(c.Request().Context(), id.User.ID, comboID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Update godoc
// @Summary Update combo
// @Tags combos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Combo ID"
// @Param request body UpdateComboRequest true "Fields to replace"
// @Success 200 {object} model.ComboView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /combos/{id} [put]
func (h *ComboHandler) Update(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	comboID, err := parseComboID(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	var req UpdateComboRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	patch := service.ComboPatch{Name: req.Name, Guard: req.Guard, Steps: req.Steps}
	if req.Stance != nil {
		stance := combo.Stance(*req.Stance)
		patch.Stance = &stance
	}
	view, err := h.svc.Update(c.Request().Context(), id.User.ID, comboID, patch)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Delete godoc
// @Summary Delete combo
// @Tags combos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Combo ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /combos/{id} [delete]
func (h *ComboHandler) Delete(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	comboID, err := parseComboID(c)
	if err != nil {
		return fail(c, h.logger, err)
	}
	if err := h.svc.Delete(c.Request().Context(), id.User.ID, comboID); err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "combo deleted"})
}

// Stats godoc
// @Summary Combo statistics
// @Tags combos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} combo.Stats
// @Failure 401 {object} errors.ErrorResponse
// @Router /combos/stats [get]
func (h *ComboHandler) Stats(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	st, err := h.svc.Stats(c.Request().Context(), id.User.ID)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, st)
}
