package coverage

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mindcover/mindcover/internal/platform/auth"
	"github.com/mindcover/mindcover/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	patients := api.Group("", auth.RequireRole("patient"))
	patients.POST("/applications", h.Apply)

	insurers := api.Group("", auth.RequireRole("insurer"))
	insurers.GET("/insurers/me/applications", h.Dashboard)
	insurers.PUT("/applications/:id/decision", h.Decide)
	insurers.POST("/applications/:id/appointment", h.Book)
}

type applyRequest struct {
	InsurerID string `json:"insurer_id"`
}

func (h *Handler) Apply(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	var req applyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	insurerID, err := uuid.Parse(req.InsurerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid insurer_id")
	}
	patientID, err := uuid.Parse(ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	app, err := h.svc.Apply(c.Request().Context(), patientID, insurerID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, app)
}

type decisionRequest struct {
	Decision string `json:"decision"`
}

func (h *Handler) Decide(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid application id")
	}
	insurerID, err := uuid.Parse(ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	app, err := h.svc.Decide(c.Request().Context(), insurerID, appID, req.Decision)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, app)
}

type bookRequest struct {
	AppointmentTime time.Time `json:"appointment_time"`
}

func (h *Handler) Book(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid application id")
	}
	insurerID, err := uuid.Parse(ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.AppointmentTime.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "appointment_time is required")
	}

	if err := h.svc.Book(c.Request().Context(), insurerID, appID, req.AppointmentTime); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": ApptScheduled})
}

func (h *Handler) Dashboard(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	insurerID, err := uuid.Parse(ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	params := pagination.FromContext(c)

	items, total, err := h.svc.ListForInsurer(c.Request().Context(), insurerID, params.Limit, params.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, params.Limit, params.Offset))
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrDuplicatePendingApplication),
		errors.Is(err, ErrAlreadyCovered),
		errors.Is(err, ErrAlreadyScheduled),
		errors.Is(err, ErrApplicationNotAccepted):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidDecision), errors.Is(err, ErrNotApplicable):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
