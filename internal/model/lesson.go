package model

import (
	"time"

	"tsinda/internal/i18n"
)

// Lesson categories mirror the driving-theory curriculum.
const (
	LessonCategoryRoadSigns      = "road_signs"
	LessonCategoryTrafficRules   = "traffic_rules"
	LessonCategorySafety         = "safety"
	LessonCategoryVehicleControl = "vehicle_control"
	LessonCategoryEmergency      = "emergency_procedures"
)

// Lesson content types.
const (
	LessonTypeMarkdown = "markdown"
	LessonTypeVideo    = "video"
	LessonTypePDF      = "pdf"
)

// Lesson is a unit of learning content. Premium lessons are gated by the
// access evaluator.
type Lesson struct {
	ID           string             `db:"id" json:"id"`
	Title        i18n.LocalizedText `json:"title"`
	Description  i18n.LocalizedText `json:"description"`
	Content      i18n.LocalizedText `json:"content"`
	Category     string             `db:"category" json:"category"`
	LessonType   string             `db:"lesson_type" json:"lesson_type"`
	IsPremium    bool               `db:"is_premium" json:"is_premium"`
	VideoURL     *string            `db:"video_url" json:"video_url,omitempty"`
	FileURL      *string            `db:"file_url" json:"file_url,omitempty"`
	DisplayOrder int                `db:"display_order" json:"display_order"`
	IsActive     bool               `db:"is_active" json:"is_active"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updated_at"`
}

// LessonProgress tracks completion per (user, lesson). At most one row
// exists per pair; repeat completions update the existing row.
type LessonProgress struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	LessonID    string     `db:"lesson_id" json:"lesson_id"`
	Completed   bool       `db:"completed" json:"completed"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
