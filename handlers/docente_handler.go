package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/jorsalda/gestion-permisos-colegios/models"
)

type DocenteHandler struct {
	DB *gorm.DB
}

func NewDocenteHandler(db *gorm.DB) *DocenteHandler { return &DocenteHandler{DB: db} }

type docentePayload struct {
	Name string `json:"nombre" form:"nombre"`
}

// findDocente resolves (id, tenant); a row outside the caller's school is
// indistinguishable from a missing one.
func (h *DocenteHandler) findDocente(c echo.Context, id string) (*models.Teacher, error) {
	var t models.Teacher
	if err := h.DB.Where("id = ? AND school_id = ?", id, schoolID(c)).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return nil, c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return &t, nil
}

// GET /docentes
func (h *DocenteHandler) List(c echo.Context) error {
	var items []models.Teacher
	if err := h.DB.Where("school_id = ?", schoolID(c)).Order("name").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, items)
}

// POST /docente/nuevo
func (h *DocenteHandler) Create(c echo.Context) error {
	var p docentePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "EMPTY_NAME"})
	}

	t := models.Teacher{Name: name, SchoolID: schoolID(c)}
	if err := h.DB.Create(&t).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_WRITE_FAILED"})
	}
	return c.JSON(http.StatusCreated, t)
}

// GET /docente/editar/:id
func (h *DocenteHandler) Get(c echo.Context) error {
	t, err := h.findDocente(c, c.Param("id"))
	if t == nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

// POST /docente/editar/:id
func (h *DocenteHandler) Update(c echo.Context) error {
	t, err := h.findDocente(c, c.Param("id"))
	if t == nil {
		return err
	}
	var p docentePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "EMPTY_NAME"})
	}

	t.Name = name
	if err := h.DB.Save(t).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_WRITE_FAILED"})
	}
	return c.JSON(http.StatusOK, t)
}

// POST /docente/eliminar/:id — refused while leaves still reference the
// teacher; this is a warning, not a cascade.
func (h *DocenteHandler) Delete(c echo.Context) error {
	t, err := h.findDocente(c, c.Param("id"))
	if t == nil {
		return err
	}

	var n int64
	if err := h.DB.Model(&models.Leave{}).
		Where("teacher_id = ? AND school_id = ?", t.ID, schoolID(c)).
		Count(&n).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	if n > 0 {
		return c.JSON(http.StatusConflict, map[string]any{
			"error":   "TEACHER_HAS_LEAVES",
			"message": "No se puede eliminar: el docente tiene permisos registrados",
		})
	}

	if err := h.DB.Delete(t).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_WRITE_FAILED"})
	}
	return c.NoContent(http.StatusNoContent)
}
