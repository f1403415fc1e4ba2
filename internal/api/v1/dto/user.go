package dto

import "time"

// ProfileCreateDTO is used for incoming profile create requests.
type ProfileCreateDTO struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Language string `json:"language" validate:"omitempty,oneof=en fr rw"`
}

// ProfileResponseDTO is returned in API responses.
type ProfileResponseDTO struct {
	UserID            string     `json:"user_id"`
	FullName          string     `json:"full_name"`
	Email             string     `json:"email"`
	IsAdmin           bool       `json:"is_admin"`
	Language          string     `json:"language"`
	CurrentPlanID     *string    `json:"current_plan_id,omitempty"`
	PlanExpiresAt     *time.Time `json:"plan_expires_at,omitempty"`
	AttemptsLeft      *int       `json:"attempts_left,omitempty"`
	TotalAttemptsUsed int        `json:"total_attempts_used"`
	CreatedAt         time.Time  `json:"created_at"`
}

// LanguageUpdateDTO switches the caller's interface language.
type LanguageUpdateDTO struct {
	Language string `json:"language" validate:"required,oneof=en fr rw"`
}
