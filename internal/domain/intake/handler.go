package intake

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mindcover/mindcover/internal/domain/coverage"
	"github.com/mindcover/mindcover/internal/platform/auth"
)

// maxUploadBytes caps clinical document uploads at 10MB.
const maxUploadBytes = 10 << 20

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("patient"))
	g.POST("/patients/:id/documents", h.Analyze)
}

func (h *Handler) Analyze(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	ident := auth.IdentityFromContext(c.Request().Context())
	if ident.ID != patientID.String() {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fh.Size > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read file")
	}

	result, err := h.svc.Analyze(c.Request().Context(), patientID, fh.Filename, data)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"patient_id":   patientID.String(),
		"disease_name": result.DiseaseName,
		"risk_level":   result.RiskLevel,
		"suggestion":   result.Suggestion,
		"raw_output":   result.RawOutput,
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrNoExtractableText),
		errors.Is(err, ErrNotApplicable),
		errors.Is(err, ErrInvalidClassification):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, coverage.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
