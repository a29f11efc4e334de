package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"tienda/internal/auth"
	"tienda/internal/logging"
	"tienda/internal/models"
	"tienda/internal/repo"
	"tienda/internal/transport"
)

type AuthHandler struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" {
		return errorJSON(c, http.StatusUnprocessableEntity, "validation failed",
			transport.ValidationError{Field: "username", Constraint: "required"})
	}
	if len(req.Password) < 8 {
		return errorJSON(c, http.StatusUnprocessableEntity, "validation failed",
			transport.ValidationError{Field: "password", Constraint: "must be at least 8 characters"})
	}

	if _, err := h.Repo.GetUserByUsername(ctx, req.Username); err == nil {
		return errorJSON(c, http.StatusConflict, "username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_lookup_error", "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		l.Error("register_hash_error", "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         "user",
	}
	if err := h.Repo.CreateUser(ctx, user); err != nil {
		l.Error("register_create_error", "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	l.Info("user registered", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	user, err := h.Repo.GetUserByUsername(ctx, req.Username)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "username", req.Username)
		return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, exp, err := auth.SignAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		l.Error("login_sign_error", "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(&http.Cookie{
		Name:     "accessToken",
		Value:    token,
		Path:     "/",
		Expires:  time.Unix(exp, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	l.Info("user logged in", "user_id", user.ID)
	return c.JSON(http.StatusOK, transport.TokenResponse{
		AccessToken: token,
		ExpiresAt:   exp,
	})
}
