package risk

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mindcover/mindcover/internal/domain/coverage"
	"github.com/mindcover/mindcover/internal/platform/auth"
)

type Handler struct {
	est *Estimator
}

func NewHandler(est *Estimator) *Handler {
	return &Handler{est: est}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("patient"))
	g.POST("/patients/:id/risk", h.Estimate)
}

func (h *Handler) Estimate(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	ident := auth.IdentityFromContext(c.Request().Context())
	if ident.ID != patientID.String() {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	label, err := h.est.Estimate(c.Request().Context(), patientID, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, coverage.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "Risk level predicted and stored successfully",
		"patient_id": patientID.String(),
		"risk_level": label,
	})
}
