package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront-api/pkg/config"
	"storefront-api/pkg/database"
	"storefront-api/pkg/jwtutil"
	"storefront-api/pkg/mediastore"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

// setupTest wires a mock database and a throwaway media store into the
// package-level handler state
func setupTest(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	db, mock := newMockDB(t)
	database.SetDB(db)
	t.Cleanup(func() { database.SetDB(nil) })

	InitProductHandler(mediastore.New(t.TempDir(), "/media"), "")

	jwtutil.Initialize(&config.JWTConfig{
		SigningKey:        "test-signing-key",
		AccessExpiration:  time.Minute,
		RefreshExpiration: time.Hour,
	})

	return mock
}

// newContext builds an echo context around a recorded request
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser injects authenticated claims the way the auth middleware does
func asUser(c echo.Context, userID uint, isStaff bool) *jwtutil.UserClaims {
	claims := &jwtutil.UserClaims{
		UserID:   userID,
		Username: "tester",
		Email:    "tester@example.com",
		IsStaff:  isStaff,
	}
	c.Set("user", claims)
	return claims
}
