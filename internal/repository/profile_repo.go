package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tsinda/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository defines methods for accessing user profiles.
type ProfileRepository interface {
	// GetByUserID returns the profile in a single row read, so the
	// (current_plan_id, plan_expires_at) pair used by entitlement checks
	// is always consistent.
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Create(ctx context.Context, p *model.Profile) error
	UpdateLanguage(ctx context.Context, userID, language string) error
	// ApplyPurchasedPlan points the profile at a newly purchased plan.
	ApplyPurchasedPlan(ctx context.Context, userID, planID string, expiresAt time.Time, attempts *int) error
	// ConsumeAttempt decrements attempts_left (floored at zero) and
	// increments total_attempts_used in one statement. Profiles with a
	// NULL counter (unlimited) only get the usage increment.
	ConsumeAttempt(ctx context.Context, userID string) error
}

type profileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepo creates a new ProfileRepository.
func NewProfileRepo(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepo{pool: pool}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	const q = `
        SELECT id, user_id, full_name, email, is_admin, language,
               current_plan_id, plan_expires_at, attempts_left, total_attempts_used,
               created_at, updated_at
        FROM profiles
        WHERE user_id = $1
    `
	var p model.Profile
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.Email,
		&p.IsAdmin,
		&p.Language,
		&p.CurrentPlanID,
		&p.PlanExpiresAt,
		&p.AttemptsLeft,
		&p.TotalAttemptsUsed,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch profile for user %s: %w", userID, err)
	}
	return &p, nil
}

func (r *profileRepo) Create(ctx context.Context, p *model.Profile) error {
	const q = `
        INSERT INTO profiles (user_id, full_name, email, language)
        VALUES ($1, $2, $3, $4)
        RETURNING id, is_admin, total_attempts_used, created_at, updated_at
    `
	err := r.pool.QueryRow(ctx, q, p.UserID, p.FullName, p.Email, p.Language).Scan(
		&p.ID, &p.IsAdmin, &p.TotalAttemptsUsed, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create profile for user %s: %w", p.UserID, err)
	}
	return nil
}

func (r *profileRepo) UpdateLanguage(ctx context.Context, userID, language string) error {
	const q = `UPDATE profiles SET language = $2, updated_at = NOW() WHERE user_id = $1`
	if _, err := r.pool.Exec(ctx, q, userID, language); err != nil {
		return fmt.Errorf("update language for user %s: %w", userID, err)
	}
	return nil
}

func (r *profileRepo) ApplyPurchasedPlan(ctx context.Context, userID, planID string, expiresAt time.Time, attempts *int) error {
	const q = `
        UPDATE profiles
        SET current_plan_id = $2,
            plan_expires_at = $3,
            attempts_left = $4,
            updated_at = NOW()
        WHERE user_id = $1
    `
	if _, err := r.pool.Exec(ctx, q, userID, planID, expiresAt, attempts); err != nil {
		return fmt.Errorf("apply plan %s to user %s: %w", planID, userID, err)
	}
	return nil
}

func (r *profileRepo) ConsumeAttempt(ctx context.Context, userID string) error {
	const q = `
        UPDATE profiles
        SET attempts_left = CASE
                WHEN attempts_left IS NULL THEN NULL -- unlimited plans keep no counter
                ELSE GREATEST(attempts_left - 1, 0)
            END,
            total_attempts_used = total_attempts_used + 1,
            updated_at = NOW()
        WHERE user_id = $1
    `
	if _, err := r.pool.Exec(ctx, q, userID); err != nil {
		return fmt.Errorf("consume attempt for user %s: %w", userID, err)
	}
	return nil
}
