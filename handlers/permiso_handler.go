package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/jorsalda/gestion-permisos-colegios/models"
)

type PermisoHandler struct {
	DB *gorm.DB
}

func NewPermisoHandler(db *gorm.DB) *PermisoHandler { return &PermisoHandler{DB: db} }

type permisoPayload struct {
	TeacherID string `json:"docente" form:"docente"`
	StartDate string `json:"fecha_inicio" form:"fecha_inicio"`
	EndDate   string `json:"fecha_fin" form:"fecha_fin"`
	Type      string `json:"tipo" form:"tipo"`
	Note      string `json:"observacion" form:"observacion"`
}

// validate checks required fields, the date range and that the teacher
// belongs to the caller's school. Returns the resolved teacher id.
func (h *PermisoHandler) validate(c echo.Context, p *permisoPayload) (uint, error) {
	p.TeacherID = strings.TrimSpace(p.TeacherID)
	p.StartDate = strings.TrimSpace(p.StartDate)
	p.EndDate = strings.TrimSpace(p.EndDate)
	p.Type = strings.TrimSpace(p.Type)
	p.Note = strings.TrimSpace(p.Note)

	if p.TeacherID == "" || p.StartDate == "" || p.EndDate == "" || p.Type == "" {
		return 0, c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_FIELDS"})
	}
	if !models.ValidLeaveType(p.Type) {
		return 0, c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_TYPE"})
	}

	start, err := parseDate(p.StartDate)
	if err != nil {
		return 0, c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DATE"})
	}
	end, err := parseDate(p.EndDate)
	if err != nil {
		return 0, c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DATE"})
	}
	if end.Before(start) {
		return 0, c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DATE_RANGE"})
	}

	var t models.Teacher
	if err := h.DB.Where("id = ? AND school_id = ?", p.TeacherID, schoolID(c)).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_TEACHER"})
		}
		return 0, c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return t.ID, nil
}

func (h *PermisoHandler) findPermiso(c echo.Context, id string) (*models.Leave, error) {
	var lv models.Leave
	if err := h.DB.Where("id = ? AND school_id = ?", id, schoolID(c)).First(&lv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return nil, c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return &lv, nil
}

// GET /formulario — teachers of the school plus the leave types the form
// offers.
func (h *PermisoHandler) Formulario(c echo.Context) error {
	var docentes []models.Teacher
	if err := h.DB.Where("school_id = ?", schoolID(c)).Order("name").Find(&docentes).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"docentes": docentes,
		"tipos":    models.LeaveTypes,
	})
}

// POST /formulario — the form submits either `guardar` (create a leave) or
// `ver_historial` (one teacher's history).
func (h *PermisoHandler) FormularioPost(c echo.Context) error {
	switch {
	case c.FormValue("guardar") != "":
		return h.create(c)
	case c.FormValue("ver_historial") != "":
		return h.historial(c)
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "UNKNOWN_ACTION"})
	}
}

func (h *PermisoHandler) create(c echo.Context) error {
	var p permisoPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	teacherID, err := h.validate(c, &p)
	if teacherID == 0 {
		return err
	}

	lv := models.Leave{
		TeacherID:    teacherID,
		SchoolID:     schoolID(c),
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Type:         p.Type,
		Note:         p.Note,
		ApprovedByID: accountID(c),
	}
	if err := h.DB.Create(&lv).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_WRITE_FAILED"})
	}
	return c.JSON(http.StatusCreated, lv)
}

func (h *PermisoHandler) historial(c echo.Context) error {
	teacherID := strings.TrimSpace(c.FormValue("docente"))
	if teacherID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_FIELDS"})
	}

	var t models.Teacher
	if err := h.DB.Where("id = ? AND school_id = ?", teacherID, schoolID(c)).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var historial []models.Leave
	if err := h.DB.Where("teacher_id = ? AND school_id = ?", t.ID, schoolID(c)).
		Order("start_date DESC, id DESC").Find(&historial).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"docente":   t,
		"historial": historial,
	})
}

// GET /listado — every leave of the school, most recent start first.
func (h *PermisoHandler) Listado(c echo.Context) error {
	var permisos []models.Leave
	if err := h.DB.Where("school_id = ?", schoolID(c)).
		Order("start_date DESC, id DESC").Find(&permisos).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, permisos)
}

// GET /permiso/:id
func (h *PermisoHandler) Get(c echo.Context) error {
	lv, err := h.findPermiso(c, c.Param("id"))
	if lv == nil {
		return err
	}
	return c.JSON(http.StatusOK, lv)
}

// GET /permiso/editar/:id — the leave plus the data the edit form needs.
func (h *PermisoHandler) EditForm(c echo.Context) error {
	lv, err := h.findPermiso(c, c.Param("id"))
	if lv == nil {
		return err
	}
	var docentes []models.Teacher
	if err := h.DB.Where("school_id = ?", schoolID(c)).Order("name").Find(&docentes).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"permiso":  lv,
		"docentes": docentes,
		"tipos":    models.LeaveTypes,
	})
}

// POST /permiso/editar/:id
func (h *PermisoHandler) Update(c echo.Context) error {
	lv, err := h.findPermiso(c, c.Param("id"))
	if lv == nil {
		return err
	}
	var p permisoPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	teacherID, err := h.validate(c, &p)
	if teacherID == 0 {
		return err
	}

	lv.TeacherID = teacherID
	lv.StartDate = p.StartDate
	lv.EndDate = p.EndDate
	lv.Type = p.Type
	lv.Note = p.Note
	lv.ApprovedByID = accountID(c)

	if err := h.DB.Save(lv).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_WRITE_FAILED"})
	}
	return c.JSON(http.StatusOK, lv)
}

// POST /permiso/eliminar/:id
func (h *PermisoHandler) Delete(c echo.Context) error {
	lv, err := h.findPermiso(c, c.Param("id"))
	if lv == nil {
		return err
	}
	if err := h.DB.Delete(lv).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_WRITE_FAILED"})
	}
	return c.NoContent(http.StatusNoContent)
}
