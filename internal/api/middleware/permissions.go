package middleware

import (
	"net/http"

	"brandvault/internal/models"
	"brandvault/internal/permissions"

	"github.com/labstack/echo/v4"
)

// RequirePermission gates a route on the static role matrix. The check runs
// before the handler touches anything, so a denied request never mutates
// state. An unknown or missing role fails closed.
func RequirePermission(required ...permissions.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := models.UserRole(GetUserRole(c))
			if !permissions.HasAllPermissions(role, required...) {
				return echo.NewHTTPError(http.StatusForbidden, "Você não tem permissão para esta ação")
			}
			return next(c)
		}
	}
}

// RequireAnyPermission passes when the role holds at least one of the given
// permissions. Used for routes shared between roles with different grants.
func RequireAnyPermission(required ...permissions.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := models.UserRole(GetUserRole(c))
			if !permissions.HasAnyPermission(role, required...) {
				return echo.NewHTTPError(http.StatusForbidden, "Você não tem permissão para esta ação")
			}
			return next(c)
		}
	}
}

// RequireRole restricts a route to an explicit role list, independent of the
// permission matrix. The activity log viewer uses this (admin and marketing
// editors only).
func RequireRole(roles ...models.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			current := models.UserRole(GetUserRole(c))
			for _, role := range roles {
				if current == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Acesso restrito")
		}
	}
}
