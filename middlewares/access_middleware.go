package middlewares

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/jorsalda/gestion-permisos-colegios/access"
)

// RequireAccess runs the trial/approval check for the authenticated account.
// Must be mounted after RequireAuth. An expired trial is persisted as
// pending_approval by the check itself.
func RequireAccess(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			accountID, ok := c.Get("account_id").(uint)
			if !ok || accountID == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "MISSING_CREDENTIALS"})
			}
			_, dec, err := access.Check(db, accountID, time.Now().UTC())
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "UNKNOWN_ACCOUNT"})
				}
				return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "ACCESS_CHECK_FAILED"})
			}
			if !dec.Allowed {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "ACCESS_DENIED"})
			}
			c.Set("days_remaining", dec.DaysRemaining)
			return next(c)
		}
	}
}
