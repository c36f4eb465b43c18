package catalogapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/openmart/catalog/internal/domain"
	"github.com/openmart/catalog/internal/webserver"
	"github.com/openmart/catalog/pkg/common"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type registerPayload struct {
	Username  string `json:"username" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=64"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	FirstName string `json:"first_name" validate:"omitempty,max=150"`
	LastName  string `json:"last_name" validate:"omitempty,max=150"`
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshPayload struct {
	Refresh string `json:"refresh" validate:"required"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/register", registerUser)
	webserver.PubPOST("/login", loginUser)
	webserver.PubPOST("/token_refresh/", tokenRefresh)
}

func registerUser(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	payload.Username = strings.TrimSpace(payload.Username)
	payload.Email = strings.TrimSpace(payload.Email)

	var exists int64
	GetDB(c).Model(&domain.SysUser{}).Where("username = ?", payload.Username).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "USERNAME_EXISTS",
			"A user with that username already exists", map[string]interface{}{"field": "username"})
	}
	if payload.Email != "" {
		GetDB(c).Model(&domain.SysUser{}).Where("email = ?", payload.Email).Count(&exists)
		if exists > 0 {
			return fail(c, http.StatusConflict, "EMAIL_EXISTS",
				"A user with that email already exists", map[string]interface{}{"field": "email"})
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to hash password", nil)
	}

	user := domain.SysUser{
		ID:         common.UUIDint64(),
		Username:   payload.Username,
		Email:      payload.Email,
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
		Password:   string(hashed),
		DateJoined: time.Now(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := GetDB(c).Create(&user).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user", err.Error())
	}

	zap.L().Info("user registered", zap.String("username", user.Username))
	return created(c, user)
}

func loginUser(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var user domain.SysUser
	err := GetDB(c).Where("username = ?", strings.TrimSpace(payload.Username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS",
			"No active account found with the given credentials", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user", err.Error())
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS",
			"No active account found with the given credentials", nil)
	}

	cfg := GetApp(c).Config()
	access, err := webserver.CreateAccessToken(cfg, &user)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue access token", nil)
	}
	refresh, err := webserver.CreateRefreshToken(cfg, &user)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue refresh token", nil)
	}

	user.LastLogin = time.Now()
	if err := GetDB(c).Model(&domain.SysUser{}).Where("id = ?", user.ID).
		Update("last_login", user.LastLogin).Error; err != nil {
		zap.L().Warn("failed to update last login", zap.String("username", user.Username), zap.Error(err))
	}

	zap.L().Info("user logged in", zap.String("username", user.Username))
	return ok(c, echo.Map{
		"access":  access,
		"refresh": refresh,
		"user":    user,
	})
}

func tokenRefresh(c echo.Context) error {
	var payload refreshPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse refresh parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	cfg := GetApp(c).Config()
	claims, err := webserver.ParseToken(cfg.Web.Secret, payload.Refresh)
	if err != nil || claims.TokenType != webserver.TokenTypeRefresh {
		return fail(c, http.StatusUnauthorized, "TOKEN_INVALID", "Token is invalid or expired", nil)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "TOKEN_INVALID", "Token is invalid or expired", nil)
	}
	var user domain.SysUser
	if err := GetDB(c).Where("id = ?", userID).First(&user).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "TOKEN_INVALID", "Token is invalid or expired", nil)
	}

	access, err := webserver.CreateAccessToken(cfg, &user)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue access token", nil)
	}
	return ok(c, echo.Map{"access": access})
}
