package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/jorsalda/gestion-permisos-colegios/access"
	"github.com/jorsalda/gestion-permisos-colegios/models"
)

// AdminHandler reviews school accounts: listing registrations, granting
// permanent approval, blocking.
type AdminHandler struct {
	DB *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler { return &AdminHandler{DB: db} }

type solicitudRow struct {
	models.Account
	DaysRemaining int `json:"days_remaining"`
}

func (h *AdminHandler) findAccount(c echo.Context, id string) (*models.Account, error) {
	var acc models.Account
	if err := h.DB.Where("id = ? AND role <> ?", id, models.RoleAdmin).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return nil, c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return &acc, nil
}

// GET /admin/solicitudes — school accounts, newest registration first.
func (h *AdminHandler) Solicitudes(c echo.Context) error {
	var accounts []models.Account
	if err := h.DB.Where("role <> ?", models.RoleAdmin).
		Order("registered_at DESC").Find(&accounts).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	now := time.Now().UTC()
	rows := make([]solicitudRow, 0, len(accounts))
	for _, acc := range accounts {
		rows = append(rows, solicitudRow{
			Account:       acc,
			DaysRemaining: access.DaysRemaining(&acc, now),
		})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /admin/aprobar/:id — permanent approval; the trial deadline no longer
// applies.
func (h *AdminHandler) Aprobar(c echo.Context) error {
	acc, err := h.findAccount(c, c.Param("id"))
	if acc == nil {
		return err
	}

	updates := map[string]any{
		"permanently_approved": true,
		"status":               models.StatusActive,
		"trial_deadline":       nil,
	}
	if err := h.DB.Model(acc).Updates(updates).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_WRITE_FAILED"})
	}
	return c.JSON(http.StatusOK, acc)
}

// GET /admin/rechazar/:id — blocks the account. The approval flag is cleared
// as well: blocking always revokes access, even for a previously approved
// account.
func (h *AdminHandler) Rechazar(c echo.Context) error {
	acc, err := h.findAccount(c, c.Param("id"))
	if acc == nil {
		return err
	}

	updates := map[string]any{
		"permanently_approved": false,
		"status":               models.StatusBlocked,
	}
	if err := h.DB.Model(acc).Updates(updates).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_WRITE_FAILED"})
	}
	return c.JSON(http.StatusOK, acc)
}
