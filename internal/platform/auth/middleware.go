package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the resolved caller: an opaque id plus a role. Ownership checks
// downstream trust this pair and nothing else from the credential.
type Identity struct {
	ID   string
	Role string
}

// Claims is the JWT payload minted at signup/login.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
	ID   string `json:"id"`
}

// Middleware validates the bearer token on every request and places the
// resolved Identity in the request context. Paths registered with the skipper
// (signup, login, health) pass through unauthenticated.
func Middleware(secret []byte, skip func(c echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip != nil && skip(c) {
				return next(c)
			}

			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			raw := strings.TrimPrefix(header, "Bearer ")
			raw = strings.TrimSpace(raw)

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := context.WithValue(c.Request().Context(), identityKey, Identity{
				ID:   claims.ID,
				Role: claims.Role,
			})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// IdentityFromContext retrieves the authenticated caller from context.
func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}
