package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Role petugas dashboard.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// RequireRole memeriksa apakah klaim JWT memiliki salah satu role yang dibutuhkan.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "Missing or invalid JWT claims",
					"data":    nil,
				})
			}

			for _, r := range roles {
				if claims.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]interface{}{
				"status":  http.StatusForbidden,
				"message": "Anda tidak memiliki hak akses",
				"data":    nil,
			})
		}
	}
}
