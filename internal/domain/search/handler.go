package search

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the search dispatcher over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates a search handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers search routes on the API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/search", h.Search)
}

// Search handles GET /api/v1/search?q=...
func (h *Handler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter 'q' is required")
	}

	analysis, err := h.svc.Resolve(c.Request().Context(), query)
	switch {
	case errors.Is(err, ErrNotFound):
		payload := map[string]string{"message": "no records found"}
		if suggestion, ok := h.svc.Suggest(query); ok {
			payload["suggestion"] = suggestion
		}
		return c.JSON(http.StatusNotFound, payload)
	case errors.Is(err, ErrUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "adverse-event service unavailable")
	case err != nil:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, analysis)
}
