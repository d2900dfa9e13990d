package models

import "time"

// Account statuses.
const (
	StatusTrial           = "trial"
	StatusActive          = "active"
	StatusPendingApproval = "pending_approval"
	StatusBlocked         = "blocked"
)

// Account roles.
const (
	RoleAdmin  = "admin"
	RoleSchool = "school"
)

type Account struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Email        string `json:"email" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"`
	SchoolID     uint   `json:"school_id" gorm:"index;not null"`
	Role         string `json:"role" gorm:"size:20;not null;default:school"`

	Status              string     `json:"status" gorm:"size:20;not null;default:trial"`
	RegisteredAt        time.Time  `json:"registered_at"`
	TrialDeadline       *time.Time `json:"trial_deadline"`
	PermanentlyApproved bool       `json:"permanently_approved" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
