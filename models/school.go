package models

import "time"

// School is the tenant root. Teachers and leaves always belong to exactly
// one school, and every query filters by its id.
type School struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
