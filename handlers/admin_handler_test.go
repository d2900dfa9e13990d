package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorsalda/gestion-permisos-colegios/access"
	"github.com/jorsalda/gestion-permisos-colegios/models"
)

func TestSolicitudesListsSchoolAccountsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	h := NewAdminHandler(db)
	e := newEcho()

	school := createSchool(t, db, "Lincoln")
	older := createAccount(t, db, "viejo@x.com", "secreto", school.ID)
	require.NoError(t, db.Model(older).Update("registered_at", time.Now().UTC().Add(-48*time.Hour)).Error)
	createAccount(t, db, "nuevo@x.com", "secreto", school.ID)

	// admins themselves are not review material
	admin := createAccount(t, db, "admin@x.com", "secreto", school.ID)
	require.NoError(t, db.Model(admin).Update("role", models.RoleAdmin).Error)

	c, rec := newFormRequest(e, http.MethodGet, "/admin/solicitudes", nil)
	require.NoError(t, h.Solicitudes(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []solicitudRow
	requireJSON(t, rec, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "nuevo@x.com", rows[0].Email)
	assert.Equal(t, "viejo@x.com", rows[1].Email)
	assert.Equal(t, 14, rows[0].DaysRemaining)
}

func TestAprobarGrantsPermanentAccess(t *testing.T) {
	db := newTestDB(t)
	h := NewAdminHandler(db)
	e := newEcho()

	school := createSchool(t, db, "Lincoln")
	acc := createAccount(t, db, "a@x.com", "secreto", school.ID)
	// even an already-expired trial can be approved
	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Model(acc).Updates(map[string]any{
		"trial_deadline": &past,
		"status":         models.StatusPendingApproval,
	}).Error)

	c, rec := newFormRequest(e, http.MethodGet, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(acc.ID))
	require.NoError(t, h.Aprobar(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Account
	require.NoError(t, db.First(&stored, acc.ID).Error)
	assert.True(t, stored.PermanentlyApproved)
	assert.Equal(t, models.StatusActive, stored.Status)
	assert.Nil(t, stored.TrialDeadline)

	dec := access.Evaluate(&stored, time.Now().UTC())
	assert.True(t, dec.Allowed)
}

func TestRechazarBlocksAndRevokesApproval(t *testing.T) {
	db := newTestDB(t)
	h := NewAdminHandler(db)
	e := newEcho()

	school := createSchool(t, db, "Lincoln")
	acc := createAccount(t, db, "a@x.com", "secreto", school.ID)
	require.NoError(t, db.Model(acc).Updates(map[string]any{
		"permanently_approved": true,
		"status":               models.StatusActive,
	}).Error)

	c, rec := newFormRequest(e, http.MethodGet, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(acc.ID))
	require.NoError(t, h.Rechazar(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Account
	require.NoError(t, db.First(&stored, acc.ID).Error)
	assert.Equal(t, models.StatusBlocked, stored.Status)
	assert.False(t, stored.PermanentlyApproved)

	dec := access.Evaluate(&stored, time.Now().UTC())
	assert.False(t, dec.Allowed)
}

func TestAdminAccountLookupMisses(t *testing.T) {
	db := newTestDB(t)
	h := NewAdminHandler(db)
	e := newEcho()

	c, rec := newFormRequest(e, http.MethodGet, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")
	require.NoError(t, h.Aprobar(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
