package insurer

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
	api.POST("/insurers/signup", h.Signup)
	api.POST("/insurers/login", h.Login)

	me := api.Group("", auth.RequireRole("insurer"))
	me.GET("/insurers/me", h.Me)
	me.PUT("/insurers/me", h.UpdateMe)
}

type signupRequest struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	ContactNo   string `json:"contact_no"`
	Address     string `json:"address"`
	District    string `json:"district"`
	Country     string `json:"country"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	ID          string `json:"id"`
}

func (h *Handler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	i := &Insurer{
		CompanyName: req.CompanyName,
		Email:       req.Email,
		ContactNo:   req.ContactNo,
		Address:     req.Address,
		District:    req.District,
		Country:     req.Country,
	}
	token, err := h.svc.Signup(c.Request().Context(), i, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, tokenResponse{
		AccessToken: token, TokenType: "bearer", Role: "insurer", ID: i.ID.String(),
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
	i, token, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token, TokenType: "bearer", Role: "insurer", ID: i.ID.String(),
	})
}

func (h *Handler) Me(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	id, err := uuid.Parse(ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid identity")
	}
	i, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, i)
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
	i, err := h.svc.UpdateProfile(c.Request().Context(), id, &profile)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, i)
}
