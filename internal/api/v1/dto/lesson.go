package dto

import "time"

// LessonSummaryDTO is a lesson list entry resolved into the caller's
// language. Locked reports whether the premium gate denies the caller.
type LessonSummaryDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	LessonType  string `json:"lesson_type"`
	IsPremium   bool   `json:"is_premium"`
	Locked      bool   `json:"locked"`
}

// LessonResponseDTO is a full lesson view.
type LessonResponseDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	LessonType  string `json:"lesson_type"`
	IsPremium   bool   `json:"is_premium"`
}

// LessonProgressDTO reports completion state for one lesson.
type LessonProgressDTO struct {
	LessonID    string     `json:"lesson_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// LessonAssetDTO carries a short-lived signed media URL.
type LessonAssetDTO struct {
	URL string `json:"url"`
}
