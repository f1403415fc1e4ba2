package model

import (
	"time"

	"tsinda/internal/i18n"
)

// Quiz difficulty levels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Quiz is a timed question set with a pass threshold.
type Quiz struct {
	ID              string             `db:"id" json:"id"`
	Title           i18n.LocalizedText `json:"title"`
	Description     i18n.LocalizedText `json:"description"`
	Category        string             `db:"category" json:"category"`
	Difficulty      string             `db:"difficulty" json:"difficulty"`
	DurationMinutes int                `db:"duration_minutes" json:"duration_minutes"`
	PassPercentage  int                `db:"pass_percentage" json:"pass_percentage"`
	IsPremium       bool               `db:"is_premium" json:"is_premium"`
	DisplayOrder    int                `db:"display_order" json:"display_order"`
	IsActive        bool               `db:"is_active" json:"is_active"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at" json:"updated_at"`
}

// Question belongs to one quiz. CorrectAnswer is the zero-based index
// into the options list.
type Question struct {
	ID            string             `db:"id" json:"id"`
	QuizID        string             `db:"quiz_id" json:"quiz_id"`
	Text          i18n.LocalizedText `json:"text"`
	Options       i18n.LocalizedList `json:"options"`
	CorrectAnswer int                `db:"correct_answer" json:"correct_answer"`
	Explanation   i18n.LocalizedText `json:"explanation"`
	ImageURL      *string            `db:"image_url" json:"image_url,omitempty"`
	DisplayOrder  int                `db:"display_order" json:"display_order"`
}

// QuizAttempt is one completed, scored run of a quiz. Append-only.
type QuizAttempt struct {
	ID               string         `db:"id" json:"id"`
	UserID           string         `db:"user_id" json:"user_id"`
	QuizID           string         `db:"quiz_id" json:"quiz_id"`
	StartedAt        time.Time      `db:"started_at" json:"started_at"`
	CompletedAt      time.Time      `db:"completed_at" json:"completed_at"`
	TimeTakenSeconds int            `db:"time_taken_seconds" json:"time_taken_seconds"`
	Score            int            `db:"score" json:"score"`
	CorrectAnswers   int            `db:"correct_answers" json:"correct_answers"`
	TotalQuestions   int            `db:"total_questions" json:"total_questions"`
	Passed           bool           `db:"passed" json:"passed"`
	SubmittedAnswers map[string]int `db:"submitted_answers" json:"submitted_answers"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}
