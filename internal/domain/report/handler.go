package report

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/riskboard/riskboard/internal/domain/risk"
)

// Handler exposes report generation and polling over HTTP.
type Handler struct {
	coord *Coordinator
}

// NewHandler creates a report handler.
func NewHandler(coord *Coordinator) *Handler {
	return &Handler{coord: coord}
}

// RegisterRoutes registers report routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/reports", h.Create)
	api.GET("/reports/:id", h.Get)
}

// Create handles POST /api/v1/reports. The response is an immediate
// snapshot with every chart slot loading; clients poll Get for the series.
func (h *Handler) Create(c echo.Context) error {
	var in risk.SurveyInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rep, err := h.coord.Generate(c.Request().Context(), in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, rep)
}

// Get handles GET /api/v1/reports/:id. Superseded reports are gone: only
// the current report can be fetched.
func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report id")
	}
	rep, ok := h.coord.Get(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "report not found")
	}
	return c.JSON(http.StatusOK, rep)
}
