package webserver

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/openmart/catalog/config"
	"github.com/openmart/catalog/internal/domain"
	"github.com/pkg/errors"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims are the claims carried by both access and refresh tokens.
// TokenType distinguishes the two so a refresh token cannot be replayed
// against protected endpoints.
type TokenClaims struct {
	Username  string `json:"username"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func newToken(cfg *config.AppConfig, user *domain.SysUser, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		Username:  user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Web.Secret))
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// CreateAccessToken issues a short-lived access token for the user
func CreateAccessToken(cfg *config.AppConfig, user *domain.SysUser) (string, error) {
	return newToken(cfg, user, TokenTypeAccess, time.Duration(cfg.Web.AccessTTL)*time.Minute)
}

// CreateRefreshToken issues a longer-lived refresh token for the user
func CreateRefreshToken(cfg *config.AppConfig, user *domain.SysUser) (string, error) {
	return newToken(cfg, user, TokenTypeRefresh, time.Duration(cfg.Web.RefreshTTL)*time.Hour)
}

// ParseToken verifies an HS256 token and returns its claims
func ParseToken(secret, raw string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
