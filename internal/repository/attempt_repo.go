package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"tsinda/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AttemptRepository stores completed quiz attempts. Append-only.
type AttemptRepository interface {
	Create(ctx context.Context, a *model.QuizAttempt) error
	ListByUser(ctx context.Context, userID string, limit int) ([]model.QuizAttempt, error)
}

type attemptRepo struct {
	pool *pgxpool.Pool
}

// NewAttemptRepo creates a new AttemptRepository.
func NewAttemptRepo(pool *pgxpool.Pool) AttemptRepository {
	return &attemptRepo{pool: pool}
}

func (r *attemptRepo) Create(ctx context.Context, a *model.QuizAttempt) error {
	answers, err := json.Marshal(a.SubmittedAnswers)
	if err != nil {
		return fmt.Errorf("marshal submitted answers: %w", err)
	}
	const q = `
        INSERT INTO quiz_attempts
            (user_id, quiz_id, started_at, completed_at, time_taken_seconds,
             score, correct_answers, total_questions, passed, submitted_answers)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at
    `
	err = r.pool.QueryRow(ctx, q,
		a.UserID, a.QuizID, a.StartedAt, a.CompletedAt, a.TimeTakenSeconds,
		a.Score, a.CorrectAnswers, a.TotalQuestions, a.Passed, answers,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create attempt for user %s quiz %s: %w", a.UserID, a.QuizID, err)
	}
	return nil
}

func (r *attemptRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.QuizAttempt, error) {
	const q = `
        SELECT id, user_id, quiz_id, started_at, completed_at, time_taken_seconds,
               score, correct_answers, total_questions, passed, submitted_answers, created_at
        FROM quiz_attempts
        WHERE user_id = $1
        ORDER BY completed_at DESC
        LIMIT $2
    `
	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts for user %s: %w", userID, err)
	}
	defer rows.Close()

	var attempts []model.QuizAttempt
	for rows.Next() {
		var a model.QuizAttempt
		var rawAnswers []byte
		err := rows.Scan(
			&a.ID, &a.UserID, &a.QuizID, &a.StartedAt, &a.CompletedAt, &a.TimeTakenSeconds,
			&a.Score, &a.CorrectAnswers, &a.TotalQuestions, &a.Passed, &rawAnswers, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if err := json.Unmarshal(rawAnswers, &a.SubmittedAnswers); err != nil {
			return nil, fmt.Errorf("unmarshal submitted answers for attempt %s: %w", a.ID, err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attempts for user %s: %w", userID, err)
	}
	return attempts, nil
}
