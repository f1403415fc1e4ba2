package repository

import (
	"context"
	"fmt"
	"time"

	"tsinda/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LessonRepository defines methods for accessing lessons and per-user
// lesson progress.
type LessonRepository interface {
	ListActive(ctx context.Context, category string) ([]model.Lesson, error)
	GetActiveByID(ctx context.Context, lessonID string) (*model.Lesson, error)
	ListProgress(ctx context.Context, userID string) ([]model.LessonProgress, error)
	// UpsertCompletion marks a lesson completed. At most one row exists
	// per (user, lesson); a second completion updates it in place.
	UpsertCompletion(ctx context.Context, userID, lessonID string, completedAt time.Time) (*model.LessonProgress, error)
}

type lessonRepo struct {
	pool *pgxpool.Pool
}

// NewLessonRepo creates a new LessonRepository.
func NewLessonRepo(pool *pgxpool.Pool) LessonRepository {
	return &lessonRepo{pool: pool}
}

const lessonColumns = `
        id,
        title_en, title_fr, title_rw,
        COALESCE(description_en, ''), COALESCE(description_fr, ''), COALESCE(description_rw, ''),
        COALESCE(content_en, ''), COALESCE(content_fr, ''), COALESCE(content_rw, ''),
        category, lesson_type, is_premium, video_url, file_url,
        display_order, is_active, created_at, updated_at`

func (r *lessonRepo) ListActive(ctx context.Context, category string) ([]model.Lesson, error) {
	q := `SELECT` + lessonColumns + `
        FROM lessons
        WHERE is_active = TRUE AND ($1 = '' OR category = $1)
        ORDER BY display_order`
	rows, err := r.pool.Query(ctx, q, category)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []model.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

func (r *lessonRepo) GetActiveByID(ctx context.Context, lessonID string) (*model.Lesson, error) {
	q := `SELECT` + lessonColumns + `
        FROM lessons
        WHERE id = $1 AND is_active = TRUE`
	rows, err := r.pool.Query(ctx, q, lessonID)
	if err != nil {
		return nil, fmt.Errorf("fetch lesson %s: %w", lessonID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("fetch lesson %s: %w", lessonID, err)
		}
		return nil, nil
	}
	return scanLesson(rows)
}

func scanLesson(row pgx.Row) (*model.Lesson, error) {
	var l model.Lesson
	err := row.Scan(
		&l.ID,
		&l.Title.EN, &l.Title.FR, &l.Title.RW,
		&l.Description.EN, &l.Description.FR, &l.Description.RW,
		&l.Content.EN, &l.Content.FR, &l.Content.RW,
		&l.Category, &l.LessonType, &l.IsPremium, &l.VideoURL, &l.FileURL,
		&l.DisplayOrder, &l.IsActive, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan lesson: %w", err)
	}
	return &l, nil
}

func (r *lessonRepo) ListProgress(ctx context.Context, userID string) ([]model.LessonProgress, error) {
	const q = `
        SELECT id, user_id, lesson_id, completed, completed_at, created_at, updated_at
        FROM lesson_progress
        WHERE user_id = $1
    `
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress for user %s: %w", userID, err)
	}
	defer rows.Close()

	var progress []model.LessonProgress
	for rows.Next() {
		var p model.LessonProgress
		if err := rows.Scan(&p.ID, &p.UserID, &p.LessonID, &p.Completed, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		progress = append(progress, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list progress for user %s: %w", userID, err)
	}
	return progress, nil
}

func (r *lessonRepo) UpsertCompletion(ctx context.Context, userID, lessonID string, completedAt time.Time) (*model.LessonProgress, error) {
	const q = `
        INSERT INTO lesson_progress (user_id, lesson_id, completed, completed_at, created_at, updated_at)
        VALUES ($1, $2, TRUE, $3, NOW(), NOW())
        ON CONFLICT (user_id, lesson_id) DO UPDATE
        SET completed = TRUE,
            completed_at = EXCLUDED.completed_at,
            updated_at = NOW()
        RETURNING id, user_id, lesson_id, completed, completed_at, created_at, updated_at
    `
	var p model.LessonProgress
	err := r.pool.QueryRow(ctx, q, userID, lessonID, completedAt).Scan(
		&p.ID, &p.UserID, &p.LessonID, &p.Completed, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert completion for user %s lesson %s: %w", userID, lessonID, err)
	}
	return &p, nil
}
