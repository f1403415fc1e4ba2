package model

import (
	"time"

	"tsinda/internal/i18n"
)

// Plan is a purchasable subscription granting premium access and an
// attempt allowance for a fixed duration. Read-only reference data.
type Plan struct {
	ID               string             `db:"id" json:"id"`
	Name             i18n.LocalizedText `json:"name"`
	Description      i18n.LocalizedText `json:"description"`
	Features         i18n.LocalizedList `json:"features"`
	PriceRWF         int                `db:"price_rwf" json:"price_rwf"`
	DurationDays     int                `db:"duration_days" json:"duration_days"`
	AttemptsIncluded *int               `db:"attempts_included" json:"attempts_included,omitempty"` // nil = unlimited
	DisplayOrder     int                `db:"display_order" json:"display_order"`
	IsActive         bool               `db:"is_active" json:"is_active"`
	CreatedAt        time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `db:"updated_at" json:"updated_at"`
}

// UserPlan records one purchased plan period for a user.
type UserPlan struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"user_id"`
	PlanID            string    `db:"plan_id" json:"plan_id"`
	StartsAt          time.Time `db:"starts_at" json:"starts_at"`
	ExpiresAt         time.Time `db:"expires_at" json:"expires_at"`
	AttemptsRemaining *int      `db:"attempts_remaining" json:"attempts_remaining,omitempty"`
	Status            string    `db:"status" json:"status"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
