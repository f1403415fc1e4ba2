package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"tsinda/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuizRepository defines methods for accessing quizzes and their
// questions.
type QuizRepository interface {
	ListActive(ctx context.Context, category string) ([]model.Quiz, error)
	GetActiveByID(ctx context.Context, quizID string) (*model.Quiz, error)
	// GetQuestions returns the quiz's questions ordered by display_order.
	GetQuestions(ctx context.Context, quizID string) ([]model.Question, error)
}

type quizRepo struct {
	pool *pgxpool.Pool
}

// NewQuizRepo creates a new QuizRepository.
func NewQuizRepo(pool *pgxpool.Pool) QuizRepository {
	return &quizRepo{pool: pool}
}

const quizColumns = `
        id,
        title_en, title_fr, title_rw,
        COALESCE(description_en, ''), COALESCE(description_fr, ''), COALESCE(description_rw, ''),
        category, difficulty, duration_minutes, pass_percentage, is_premium,
        display_order, is_active, created_at, updated_at`

func (r *quizRepo) ListActive(ctx context.Context, category string) ([]model.Quiz, error) {
	q := `SELECT` + quizColumns + `
        FROM quizzes
        WHERE is_active = TRUE AND ($1 = '' OR category = $1)
        ORDER BY display_order`
	rows, err := r.pool.Query(ctx, q, category)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		qz, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *qz)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

func (r *quizRepo) GetActiveByID(ctx context.Context, quizID string) (*model.Quiz, error) {
	q := `SELECT` + quizColumns + `
        FROM quizzes
        WHERE id = $1 AND is_active = TRUE`
	rows, err := r.pool.Query(ctx, q, quizID)
	if err != nil {
		return nil, fmt.Errorf("fetch quiz %s: %w", quizID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("fetch quiz %s: %w", quizID, err)
		}
		return nil, nil
	}
	return scanQuiz(rows)
}

func scanQuiz(row pgx.Row) (*model.Quiz, error) {
	var qz model.Quiz
	err := row.Scan(
		&qz.ID,
		&qz.Title.EN, &qz.Title.FR, &qz.Title.RW,
		&qz.Description.EN, &qz.Description.FR, &qz.Description.RW,
		&qz.Category, &qz.Difficulty, &qz.DurationMinutes, &qz.PassPercentage, &qz.IsPremium,
		&qz.DisplayOrder, &qz.IsActive, &qz.CreatedAt, &qz.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan quiz: %w", err)
	}
	return &qz, nil
}

func (r *quizRepo) GetQuestions(ctx context.Context, quizID string) ([]model.Question, error) {
	const q = `
        SELECT id, quiz_id,
               text_en, text_fr, text_rw,
               options_en, options_fr, options_rw,
               correct_answer,
               COALESCE(explanation_en, ''), COALESCE(explanation_fr, ''), COALESCE(explanation_rw, ''),
               image_url, display_order
        FROM questions
        WHERE quiz_id = $1
        ORDER BY display_order
    `
	rows, err := r.pool.Query(ctx, q, quizID)
	if err != nil {
		return nil, fmt.Errorf("fetch questions for quiz %s: %w", quizID, err)
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var qu model.Question
		var optEN, optFR, optRW []byte
		err := rows.Scan(
			&qu.ID, &qu.QuizID,
			&qu.Text.EN, &qu.Text.FR, &qu.Text.RW,
			&optEN, &optFR, &optRW,
			&qu.CorrectAnswer,
			&qu.Explanation.EN, &qu.Explanation.FR, &qu.Explanation.RW,
			&qu.ImageURL, &qu.DisplayOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(optEN, &qu.Options.EN); err != nil {
			return nil, fmt.Errorf("unmarshal options_en for question %s: %w", qu.ID, err)
		}
		if err := json.Unmarshal(optFR, &qu.Options.FR); err != nil {
			return nil, fmt.Errorf("unmarshal options_fr for question %s: %w", qu.ID, err)
		}
		if err := json.Unmarshal(optRW, &qu.Options.RW); err != nil {
			return nil, fmt.Errorf("unmarshal options_rw for question %s: %w", qu.ID, err)
		}
		questions = append(questions, qu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch questions for quiz %s: %w", quizID, err)
	}
	return questions, nil
}
