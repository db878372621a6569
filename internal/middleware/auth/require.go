package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cse_motors/internal/flash"
	"github.com/Skotchmaster/cse_motors/internal/logging"
	"github.com/Skotchmaster/cse_motors/internal/metrics"
)

const (
	LoginPath   = "/account/login"
	LoginNotice = "Please log in."
)

// RequireLogin sends anonymous requests to the login page.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if Identity(c) == nil {
			logging.FromContext(c.Request().Context()).Info("login_required", "status", http.StatusFound)
			metrics.RecordDenied(metrics.PolicyLogin)
			return flash.Redirect(c, LoginPath, LoginNotice)
		}
		return next(c)
	}
}

// RequireElevated admits Employee and Admin accounts only.
func RequireElevated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context())
		claims := Identity(c)
		if claims == nil {
			l.Warn("elevated_access_denied", "status", http.StatusUnauthorized, "reason", "anonymous")
			metrics.RecordDenied(metrics.PolicyElevated)
			return echo.NewHTTPError(http.StatusUnauthorized, "you must be logged in")
		}
		if !claims.Role.Elevated() {
			l.Warn("elevated_access_denied", "status", http.StatusForbidden, "reason", "role", "role", claims.Role)
			metrics.RecordDenied(metrics.PolicyElevated)
			return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
		}
		return next(c)
	}
}
