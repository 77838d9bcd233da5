package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
)

const RoleAdmin = "admin"

func HasPermission(user *AppUser, permission string) bool {
	return user != nil && slices.Contains(user.Permissions, permission)
}

func HasAnyPermission(user *AppUser, permissions ...string) bool {
	return slices.ContainsFunc(permissions, func(p string) bool {
		return HasPermission(user, p)
	})
}

func IsAdmin(user *AppUser) bool {
	return user != nil && user.Role == RoleAdmin
}

// CanAccessModel reports whether user may see a model uploaded by owner.
// Foreign models are reported as missing by the handlers.
func CanAccessModel(user *AppUser, owner int64) bool {
	if user == nil {
		return false
	}
	return user.UserID == owner || IsAdmin(user) || HasPermission(user, PermModelViewAll)
}

// RequirePermission rejects requests of users without permission.
func RequirePermission(permission string) echo.MiddlewareFunc {
	return requireUser(func(u *AppUser) bool {
		return HasPermission(u, permission)
	}, permission)
}

// RequireAnyPermission passes users holding at least one of permissions.
func RequireAnyPermission(permissions ...string) echo.MiddlewareFunc {
	return requireUser(func(u *AppUser) bool {
		return HasAnyPermission(u, permissions...)
	}, strings.Join(permissions, " or "))
}

func requireUser(allowed func(*AppUser) bool, missing string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := c.(*AppContext).User
			if user == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			if !allowed(user) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden: missing permission " + missing})
			}
			return next(c)
		}
	}
}
