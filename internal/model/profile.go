package model

import "time"

// Profile represents a user profile in the system.
//
// CurrentPlanID and PlanExpiresAt must always be read together from the
// same row version; entitlement checks evaluated against values from two
// different reads can grant access on a half-updated profile.
type Profile struct {
	ID                string     `db:"id" json:"id"`
	UserID            string     `db:"user_id" json:"user_id"`
	FullName          string     `db:"full_name" json:"full_name"`
	Email             string     `db:"email" json:"email"`
	IsAdmin           bool       `db:"is_admin" json:"is_admin"`
	Language          string     `db:"language" json:"language"`
	CurrentPlanID     *string    `db:"current_plan_id" json:"current_plan_id,omitempty"`
	PlanExpiresAt     *time.Time `db:"plan_expires_at" json:"plan_expires_at,omitempty"`
	AttemptsLeft      *int       `db:"attempts_left" json:"attempts_left,omitempty"` // nil = unlimited
	TotalAttemptsUsed int        `db:"total_attempts_used" json:"total_attempts_used"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
