package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/c14220110/igd-dashboard/config"
	common "github.com/c14220110/igd-dashboard/internal/common/middlewares"
	"github.com/c14220110/igd-dashboard/pkg/utils"
)

const tokenTTL = 12 * time.Hour

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthController struct {
	Cfg *config.Config
}

func NewAuthController(cfg *config.Config) *AuthController {
	return &AuthController{Cfg: cfg}
}

// Login handles POST /api/auth/login
func (ac *AuthController) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload: "+err.Error(), nil)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return respond(c, http.StatusBadRequest, "Username dan password harus diisi", nil)
	}

	role, ok := ac.authenticate(req.Username, req.Password)
	if !ok {
		return respond(c, http.StatusUnauthorized, "Username atau password salah", nil)
	}

	exp := time.Now().Add(tokenTTL)
	token, err := utils.GenerateJWTToken(ac.Cfg.JWTSecret, req.Username, role, exp)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "Gagal membuat token: "+err.Error(), nil)
	}
	return respond(c, http.StatusOK, "Login berhasil", map[string]interface{}{
		"token":      token,
		"username":   req.Username,
		"role":       role,
		"expires_at": exp.Format(time.RFC3339),
	})
}

func (ac *AuthController) authenticate(username, password string) (string, bool) {
	accounts := []struct {
		username, hash, role string
	}{
		{ac.Cfg.AdminUsername, ac.Cfg.AdminPasswordHash, common.RoleAdmin},
		{ac.Cfg.ViewerUsername, ac.Cfg.ViewerPasswordHash, common.RoleViewer},
	}
	for _, a := range accounts {
		if a.username == "" || a.hash == "" || a.username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(a.hash), []byte(password)) == nil {
			return a.role, true
		}
	}
	return "", false
}
