package dto

import "time"

// QuizSummaryDTO is a quiz list entry resolved into the caller's
// language.
type QuizSummaryDTO struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Difficulty      string `json:"difficulty"`
	DurationMinutes int    `json:"duration_minutes"`
	PassPercentage  int    `json:"pass_percentage"`
	IsPremium       bool   `json:"is_premium"`
	Locked          bool   `json:"locked"`
}

// QuestionDTO is a question resolved into the caller's language. The
// correct-answer index is never serialized.
type QuestionDTO struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	ImageURL *string  `json:"image_url,omitempty"`
}

// QuizDetailDTO is a quiz with its ordered questions, ready to take.
type QuizDetailDTO struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	DurationMinutes int           `json:"duration_minutes"`
	PassPercentage  int           `json:"pass_percentage"`
	Questions       []QuestionDTO `json:"questions"`
}

// AttemptSubmitDTO is one quiz submission. Answers maps question id to
// the selected zero-based option index; unanswered questions are simply
// absent.
type AttemptSubmitDTO struct {
	StartedAt time.Time      `json:"started_at" validate:"required"`
	Answers   map[string]int `json:"answers"`
}

// AttemptResultDTO reports one scored attempt, with per-question
// explanations resolved into the caller's language.
type AttemptResultDTO struct {
	AttemptID        string                  `json:"attempt_id"`
	Score            int                     `json:"score"`
	CorrectAnswers   int                     `json:"correct_answers"`
	TotalQuestions   int                     `json:"total_questions"`
	Passed           bool                    `json:"passed"`
	TimeTakenSeconds int                     `json:"time_taken_seconds"`
	Message          string                  `json:"message"`
	Review           []AttemptReviewEntryDTO `json:"review,omitempty"`
}

// AttemptReviewEntryDTO explains one question's outcome.
type AttemptReviewEntryDTO struct {
	QuestionID    string `json:"question_id"`
	Correct       bool   `json:"correct"`
	CorrectAnswer int    `json:"correct_answer"`
	Selected      *int   `json:"selected,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
}

// AttemptHistoryEntryDTO is one past attempt in the user's history.
type AttemptHistoryEntryDTO struct {
	AttemptID   string    `json:"attempt_id"`
	QuizID      string    `json:"quiz_id"`
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	CompletedAt time.Time `json:"completed_at"`
}
