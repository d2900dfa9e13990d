package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jorsalda/gestion-permisos-colegios/access"
	"github.com/jorsalda/gestion-permisos-colegios/config"
	"github.com/jorsalda/gestion-permisos-colegios/middlewares"
	"github.com/jorsalda/gestion-permisos-colegios/models"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	TrialDays int
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, JWTSecret: cfg.JWTSecret, TrialDays: cfg.TrialDays}
}

func (h *AuthHandler) signJWT(acc *models.Account, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":       acc.ID,
		"school_id": acc.SchoolID,
		"role":      acc.Role,
		"email":     acc.Email,
		"exp":       time.Now().Add(ttl).Unix(),
		"iat":       time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

/* ====================== DTOs ====================== */

type RegisterReq struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=100"`
	Password string `json:"password" form:"password" validate:"required"`
	School   string `json:"colegio" form:"colegio" validate:"required"`
}

type LoginReq struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

/* ====================== Handlers ====================== */

// POST /register — creates the school on first use of its name, then the
// account with a fresh trial window.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.School = strings.TrimSpace(req.School)
	if err := c.Validate(&req); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
	}

	var acc models.Account
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		// duplicate email aborts before any row is written
		var dup models.Account
		if err := tx.Where("email = ?", req.Email).First(&dup).Error; err == nil {
			return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "EMAIL_EXISTS"})
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var school models.School
		if err := tx.Where("name = ?", req.School).First(&school).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			school = models.School{Name: req.School}
			if err := tx.Create(&school).Error; err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		deadline := now.Add(time.Duration(h.TrialDays) * 24 * time.Hour)
		acc = models.Account{
			Email:         req.Email,
			PasswordHash:  string(hash),
			SchoolID:      school.ID,
			Role:          models.RoleSchool,
			Status:        models.StatusTrial,
			RegisteredAt:  now,
			TrialDeadline: &deadline,
		}
		return tx.Create(&acc).Error
	})
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "REGISTER_FAILED"})
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"id":             acc.ID,
		"school_id":      acc.SchoolID,
		"status":         acc.Status,
		"trial_deadline": acc.TrialDeadline,
	})
}

// POST /login — verifies the password, then the trial/approval gate. The
// token goes out both in the body and as a session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := c.Validate(&req); err != nil {
		return err
	}

	var acc models.Account
	if err := h.DB.Where("email = ?", req.Email).First(&acc).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}

	_, dec, err := access.Check(h.DB, acc.ID, time.Now().UTC())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "ACCESS_CHECK_FAILED"})
	}
	if !dec.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "ACCESS_DENIED"})
	}

	token, err := h.signJWT(&acc, 7*24*time.Hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "TOKEN_GEN_FAILED"})
	}
	setSessionCookie(c, token, 7*24*time.Hour)

	return c.JSON(http.StatusOK, map[string]any{
		"token":          token,
		"days_remaining": dec.DaysRemaining,
		"user": map[string]any{
			"id":        acc.ID,
			"email":     acc.Email,
			"role":      acc.Role,
			"school_id": acc.SchoolID,
		},
	})
}

// GET /logout — drops the session cookie. Bearer clients just discard the
// token.
func (h *AuthHandler) Logout(c echo.Context) error {
	setSessionCookie(c, "", -time.Hour)
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

func setSessionCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     middlewares.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
