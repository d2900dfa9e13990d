package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jorsalda/gestion-permisos-colegios/database"
	"github.com/jorsalda/gestion-permisos-colegios/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, sub, school uint, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":       sub,
		"school_id": school,
		"role":      role,
		"email":     "a@x.com",
		"exp":       time.Now().Add(ttl).Unix(),
		"iat":       time.Now().Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func runAuth(e *echo.Echo, req *http.Request) (*httptest.ResponseRecorder, echo.Context, error) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := RequireAuth(testSecret)(next)(c)
	return rec, c, err
}

func TestRequireAuthBearer(t *testing.T) {
	e := echo.New()
	tok := signToken(t, testSecret, 7, 3, models.RoleSchool, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	_, c, err := runAuth(e, req)
	require.NoError(t, err)

	assert.Equal(t, uint(7), c.Get("account_id"))
	assert.Equal(t, uint(3), c.Get("school_id"))
	assert.Equal(t, models.RoleSchool, c.Get("role"))
}

func TestRequireAuthCookie(t *testing.T) {
	e := echo.New()
	tok := signToken(t, testSecret, 7, 3, models.RoleSchool, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
	_, c, err := runAuth(e, req)
	require.NoError(t, err)
	assert.Equal(t, uint(7), c.Get("account_id"))
}

func TestRequireAuthRejects(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"missing credentials", func(r *http.Request) {}},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "Token abc") }},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer not.a.jwt") }},
		{"wrong secret", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", 7, 3, models.RoleSchool, time.Hour))
		}},
		{"expired", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, 7, 3, models.RoleSchool, -time.Hour))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			_, _, err := runAuth(e, req)
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, http.StatusUnauthorized, he.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", models.RoleSchool)
	err := RequireRole(models.RoleAdmin)(next)(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)

	c = e.NewContext(req, httptest.NewRecorder())
	c.Set("role", models.RoleAdmin)
	require.NoError(t, RequireRole(models.RoleAdmin)(next)(c))
}

func TestRequireAccess(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// each :memory: connection is its own database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	deadline := time.Now().UTC().Add(-time.Hour)
	expired := models.Account{
		Email: "expirado@x.com", PasswordHash: "x", SchoolID: 1,
		Role: models.RoleSchool, Status: models.StatusTrial, TrialDeadline: &deadline,
	}
	require.NoError(t, db.Create(&expired).Error)

	future := time.Now().UTC().Add(10 * 24 * time.Hour)
	active := models.Account{
		Email: "activo@x.com", PasswordHash: "x", SchoolID: 1,
		Role: models.RoleSchool, Status: models.StatusTrial, TrialDeadline: &future,
	}
	require.NoError(t, db.Create(&active).Error)

	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := RequireAccess(db)(next)

	run := func(id uint) (echo.Context, error) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set("account_id", id)
		return c, mw(c)
	}

	c, err := run(active.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, c.Get("days_remaining"))

	_, err = run(expired.ID)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)

	// the denial is persisted as pending_approval
	var stored models.Account
	require.NoError(t, db.First(&stored, expired.ID).Error)
	assert.Equal(t, models.StatusPendingApproval, stored.Status)

	_, err = run(999)
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
