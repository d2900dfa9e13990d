// Package access decides whether an account may use the system: blocked
// accounts are always denied, permanently approved accounts are always
// allowed, everyone else is inside or past a trial window.
package access

import (
	"time"

	"gorm.io/gorm"

	"github.com/jorsalda/gestion-permisos-colegios/models"
)

// Decision is the outcome of an access check. DaysRemaining is only
// meaningful while a trial deadline is set; it never goes negative.
type Decision struct {
	Allowed       bool `json:"allowed"`
	DaysRemaining int  `json:"days_remaining"`
}

// Evaluate applies the access policy without touching the store.
//
// Precedence is deliberate: a blocked account is denied even if it was
// permanently approved at some point. The reverse ordering would let a
// rejected account keep its access through the stale approval flag.
func Evaluate(acc *models.Account, now time.Time) Decision {
	if acc.Status == models.StatusBlocked {
		return Decision{Allowed: false}
	}
	if acc.PermanentlyApproved {
		return Decision{Allowed: true}
	}
	if acc.TrialDeadline == nil {
		return Decision{Allowed: true}
	}
	if now.After(*acc.TrialDeadline) {
		return Decision{Allowed: false}
	}
	return Decision{Allowed: true, DaysRemaining: DaysRemaining(acc, now)}
}

// DaysRemaining counts whole days until the trial deadline, floored at 0.
func DaysRemaining(acc *models.Account, now time.Time) int {
	if acc.TrialDeadline == nil {
		return 0
	}
	d := int(acc.TrialDeadline.Sub(now).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// Check loads the account and evaluates access. When an expired trial is
// detected the status advances to pending_approval inside the same
// transaction; the conditional WHERE makes the flip idempotent, so two
// concurrent checks on the same account cannot disagree.
func Check(db *gorm.DB, accountID uint, now time.Time) (*models.Account, Decision, error) {
	var acc models.Account
	var dec Decision

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&acc, "id = ?", accountID).Error; err != nil {
			return err
		}
		dec = Evaluate(&acc, now)

		if !dec.Allowed && acc.Status == models.StatusTrial &&
			acc.TrialDeadline != nil && now.After(*acc.TrialDeadline) {
			if err := tx.Model(&models.Account{}).
				Where("id = ? AND status = ?", acc.ID, models.StatusTrial).
				Update("status", models.StatusPendingApproval).Error; err != nil {
				return err
			}
			acc.Status = models.StatusPendingApproval
		}
		return nil
	})
	if err != nil {
		return nil, Decision{}, err
	}
	return &acc, dec, nil
}
