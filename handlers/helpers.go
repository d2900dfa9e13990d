package handlers

import (
	"time"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// parseDate accepts calendar dates in YYYY-MM-DD form.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// Identity set by the auth middleware.

func accountID(c echo.Context) uint {
	v, _ := c.Get("account_id").(uint)
	return v
}

func schoolID(c echo.Context) uint {
	v, _ := c.Get("school_id").(uint)
	return v
}
