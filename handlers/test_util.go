package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jorsalda/gestion-permisos-colegios/config"
	"github.com/jorsalda/gestion-permisos-colegios/database"
	"github.com/jorsalda/gestion-permisos-colegios/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// each :memory: connection is its own database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", TrialDays: 15}
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newFormRequest builds an echo context for a form submission.
func newFormRequest(e *echo.Echo, method, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	var body string
	if form != nil {
		body = form.Encode()
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	return ctx, rec
}

func requireJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// asAccount attaches the identity the auth middleware would have set.
func asAccount(c echo.Context, acc *models.Account) {
	c.Set("account_id", acc.ID)
	c.Set("school_id", acc.SchoolID)
	c.Set("role", acc.Role)
	c.Set("email", acc.Email)
}

func createSchool(t *testing.T, db *gorm.DB, name string) *models.School {
	t.Helper()
	s := models.School{Name: name}
	require.NoError(t, db.Create(&s).Error)
	return &s
}

func createAccount(t *testing.T, db *gorm.DB, email, password string, schoolID uint) *models.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	deadline := now.Add(15 * 24 * time.Hour)
	acc := models.Account{
		Email:         email,
		PasswordHash:  string(hash),
		SchoolID:      schoolID,
		Role:          models.RoleSchool,
		Status:        models.StatusTrial,
		RegisteredAt:  now,
		TrialDeadline: &deadline,
	}
	require.NoError(t, db.Create(&acc).Error)
	return &acc
}

func createTeacher(t *testing.T, db *gorm.DB, name string, schoolID uint) *models.Teacher {
	t.Helper()
	d := models.Teacher{Name: name, SchoolID: schoolID}
	require.NoError(t, db.Create(&d).Error)
	return &d
}

func createLeave(t *testing.T, db *gorm.DB, teacherID, schoolID, approvedBy uint, start, end, typ string) *models.Leave {
	t.Helper()
	lv := models.Leave{
		TeacherID:    teacherID,
		SchoolID:     schoolID,
		StartDate:    start,
		EndDate:      end,
		Type:         typ,
		ApprovedByID: approvedBy,
	}
	require.NoError(t, db.Create(&lv).Error)
	return &lv
}
