package middleware

import (
	"net/http"
	"strings"

	"storefront-api/pkg/jwtutil"
	"storefront-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const userContextKey = "user"

// AuthMiddleware validates the JWT token and stores the claims in context
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		claims, err := claimsFromRequest(c)
		if err != nil {
			log.Warn("Request not authenticated", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"detail": "Authentication credentials were not provided.",
			})
		}

		c.Set(userContextKey, claims)
		return next(c)
	}
}

// OptionalAuthMiddleware stores claims when a valid token is present but
// lets unauthenticated requests through
func OptionalAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if claims, err := claimsFromRequest(c); err == nil {
			c.Set(userContextKey, claims)
		}
		return next(c)
	}
}

// CurrentUser retrieves the authenticated user's claims from the context.
// Returns nil for anonymous requests.
func CurrentUser(c echo.Context) *jwtutil.UserClaims {
	claims, ok := c.Get(userContextKey).(*jwtutil.UserClaims)
	if !ok {
		return nil
	}
	return claims
}

func claimsFromRequest(c echo.Context) (*jwtutil.UserClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format, expected Bearer token")
	}

	return jwtutil.ValidateToken(parts[1])
}
