package handler

import (
	"net/http"
	"time"

	"storefront-api/internal/model"
	"storefront-api/pkg/database"
	"storefront-api/pkg/jwtutil"
	"storefront-api/pkg/logger"
	"storefront-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LoginRequest carries the credential payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token to exchange
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// Login verifies credentials and issues a refresh/access token pair
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAuthAttempt()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid login payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid request data"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := database.GetDB().Where("username = ?", req.Username).First(&user).Error; err != nil {
		log.Warn("Login failed, unknown user", zap.String("username", req.Username))
		prometheus.RecordAuthError()
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"detail": "No active account found with the given credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn("Login failed, bad password", zap.String("username", req.Username))
		prometheus.RecordAuthError()
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"detail": "No active account found with the given credentials",
		})
	}

	pair, err := jwtutil.GeneratePair(user.ID, user.Username, user.Email, user.IsStaff)
	if err != nil {
		log.Error("Failed to generate tokens", zap.Uint("user_id", user.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to generate tokens"})
	}

	prometheus.RecordAuthSuccess()
	log.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return c.JSON(http.StatusOK, pair)
}

// RefreshToken exchanges a valid refresh token for a new access token
func RefreshToken(c echo.Context) error {
	log := logger.FromContext(c)

	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid request data"})
	}
	if req.Refresh == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"refresh": "This field is required."})
	}

	claims, err := jwtutil.ValidateRefreshToken(req.Refresh)
	if err != nil {
		log.Warn("Refresh token rejected", zap.Error(err))
		prometheus.RecordAuthError()
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"detail": "Token is invalid or expired",
			"code":   "token_not_valid",
		})
	}

	access, err := jwtutil.GenerateAccess(claims)
	if err != nil {
		log.Error("Failed to generate access token", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to generate tokens"})
	}

	return c.JSON(http.StatusOK, echo.Map{"access": access})
}
