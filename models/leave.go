package models

import "time"

// Leave types offered in the request form.
const (
	LeaveVacation = "Vacaciones"
	LeaveIllness  = "Enfermedad"
	LeavePersonal = "Permiso Personal"
	LeaveTraining = "Capacitación"
	LeaveOther    = "Otro"
)

// LeaveTypes in form display order.
var LeaveTypes = []string{LeaveVacation, LeaveIllness, LeavePersonal, LeaveTraining, LeaveOther}

func ValidLeaveType(t string) bool {
	for _, lt := range LeaveTypes {
		if t == lt {
			return true
		}
	}
	return false
}

// Leave is a dated absence entry for a teacher. SchoolID is denormalized so
// tenant scoping never needs a join. Dates are calendar dates, YYYY-MM-DD;
// lexicographic order matches chronological order.
type Leave struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	TeacherID    uint   `json:"teacher_id" gorm:"index;not null"`
	SchoolID     uint   `json:"school_id" gorm:"index;not null"`
	StartDate    string `json:"start_date" gorm:"size:10;not null"`
	EndDate      string `json:"end_date" gorm:"size:10;not null"`
	Type         string `json:"type" gorm:"size:50;not null"`
	Note         string `json:"note" gorm:"type:text"`
	ApprovedByID uint   `json:"approved_by_id" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
