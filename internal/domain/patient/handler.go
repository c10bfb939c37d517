package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mindcover/mindcover/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients/signup", h.Signup)
	api.POST("/patients/login", h.Login)

	me := api.Group("", auth.RequireRole("patient"))
	me.GET("/patients/me", h.Me)
	me.PUT("/patients/me", h.UpdateMe)
	me.PUT("/patients/me/mood", h.SetMood)

	api.GET("/patients/:id", h.Get)
	api.GET("/patients/:id/providers", h.Providers)
}

type signupRequest struct {
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	ContactNo string `json:"contact_no"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Address   string `json:"address"`
	District  string `json:"district"`
	Country   string `json:"country"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	ID          string `json:"id"`
	Status      string `json:"status,omitempty"`
}

func (h *Handler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p := &Patient{
		Name:      req.Name,
		Age:       req.Age,
		Gender:    req.Gender,
		ContactNo: req.ContactNo,
		Email:     req.Email,
		Address:   req.Address,
		District:  req.District,
		Country:   req.Country,
	}
	token, err := h.svc.Signup(c.Request().Context(), p, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, tokenResponse{
		AccessToken: token, TokenType: "bearer", Role: "patient",
		ID: p.ID.String(), Status: p.Status,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, token, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token, TokenType: "bearer", Role: "patient",
		ID: p.ID.String(), Status: p.Status,
	})
}

func (h *Handler) Me(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	id, err := uuid.Parse(ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid identity")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateMe(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	id, err := uuid.Parse(ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid identity")
	}
	var profile Profile
	if err := c.Bind(&profile); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.UpdateProfile(c.Request().Context(), id, &profile)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

type moodRequest struct {
	MoodScore int `json:"mood_score"`
}

func (h *Handler) SetMood(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	id, err := uuid.Parse(ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid identity")
	}
	var req moodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetMoodScore(c.Request().Context(), id, req.MoodScore); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patient_id": id, "mood_score": req.MoodScore,
	})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Providers(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	providers, err := h.svc.ProvidersInDistrict(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, providers)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidMoodScore):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
