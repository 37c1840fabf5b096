package jwtutil

import (
	"errors"
	"time"

	"storefront-api/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTypeAccess marks short-lived API tokens
	TokenTypeAccess = "access"
	// TokenTypeRefresh marks tokens exchangeable for new access tokens
	TokenTypeRefresh = "refresh"
)

var (
	signingKey        []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
)

// ErrWrongTokenType is returned when an access token is presented where a
// refresh token is expected, or the other way around
var ErrWrongTokenType = errors.New("unexpected token type")

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsStaff   bool   `json:"is_staff"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair bundles the refresh and access tokens issued at login
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// Initialize configures the signing key and token lifetimes
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
	accessExpiration = cfg.AccessExpiration
	refreshExpiration = cfg.RefreshExpiration
}

// GeneratePair issues a refresh/access token pair for the given user
func GeneratePair(userID uint, username, email string, isStaff bool) (*TokenPair, error) {
	access, err := generate(userID, username, email, isStaff, TokenTypeAccess, accessExpiration)
	if err != nil {
		return nil, err
	}

	refresh, err := generate(userID, username, email, isStaff, TokenTypeRefresh, refreshExpiration)
	if err != nil {
		return nil, err
	}

	return &TokenPair{Refresh: refresh, Access: access}, nil
}

// GenerateAccess issues a fresh access token from already-validated claims
func GenerateAccess(claims *UserClaims) (string, error) {
	return generate(claims.UserID, claims.Username, claims.Email, claims.IsStaff, TokenTypeAccess, accessExpiration)
}

func generate(userID uint, username, email string, isStaff bool, tokenType string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID:    userID,
		Username:  username,
		Email:     email,
		IsStaff:   isStaff,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses an access token
func ValidateToken(tokenString string) (*UserClaims, error) {
	claims, err := parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// ValidateRefreshToken validates and parses a refresh token
func ValidateRefreshToken(tokenString string) (*UserClaims, error) {
	claims, err := parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func parse(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
