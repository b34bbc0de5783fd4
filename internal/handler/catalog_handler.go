package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"vibeboxing/internal/combo"
	apperrors "vibeboxing/internal/errors"
)

// CatalogHandler serves the public move catalog.
type CatalogHandler struct{}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Moves godoc
// @Summary Move catalog
// @Description Moves as performed from the given stance; southpaw mirrors sided moves.
// @Tags catalog
// @Produce json
// @Param base query string false "destro (default) or canhoto"
// @Param categoria query string false "ATAQUE, ESQUIVA, BLOQUEIO, FOOTWORK or CLINCH"
// @Success 200 {array} combo.Move
// @Failure 400 {object} errors.ErrorResponse
// @Router /moves [get]
func (h *CatalogHandler) Moves(c echo.Context) error {
	stance := combo.Stance(c.QueryParam("base"))
	if stance == "" {
		stance = combo.StanceOrthodox
	}
	if !stance.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "base must be destro or canhoto",
			Code:  "VALIDATION_FAILED",
		})
	}
	category := combo.Category(c.QueryParam("categoria"))
	if category != "" && !category.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "unknown categoria",
			Code:  "VALIDATION_FAILED",
		})
	}
	return c.JSON(http.StatusOK, combo.Moves(stance, category))
}

// Guards godoc
// @Summary Guard styles
// @Tags catalog
// @Produce json
// @Success 200 {array} combo.Guard
// @Router /guards [get]
func (h *CatalogHandler) Guards(c echo.Context) error {
	return c.JSON(http.StatusOK, combo.Guards)
}
