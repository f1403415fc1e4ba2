package repository

import (
	"context"
	"errors"
	"fmt"

	"tsinda/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentRepository stores checkout payments and purchased plan periods.
// Every write is keyed by the purchase attempt id so the checkout
// sequence can be retried after a partial failure without duplicating
// charges or grants.
type PaymentRepository interface {
	// CreatePending inserts a pending payment for the attempt id, or
	// returns the existing payment when the attempt was already started.
	CreatePending(ctx context.Context, p *model.Payment) error
	GetByAttemptID(ctx context.Context, attemptID string) (*model.Payment, error)
	MarkCompleted(ctx context.Context, attemptID string) error
	// CreateUserPlan activates a purchased plan period. Idempotent per
	// attempt id.
	CreateUserPlan(ctx context.Context, attemptID string, up *model.UserPlan) error
}

type paymentRepo struct {
	pool *pgxpool.Pool
}

// NewPaymentRepo creates a new PaymentRepository.
func NewPaymentRepo(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepo{pool: pool}
}

func (r *paymentRepo) CreatePending(ctx context.Context, p *model.Payment) error {
	const q = `
        INSERT INTO payments (attempt_id, user_id, plan_id, amount_rwf, payment_method, phone_number, status)
        VALUES ($1, $2, $3, $4, $5, $6, 'pending')
        ON CONFLICT (attempt_id) DO NOTHING
    `
	if _, err := r.pool.Exec(ctx, q, p.AttemptID, p.UserID, p.PlanID, p.AmountRWF, p.PaymentMethod, p.PhoneNumber); err != nil {
		return fmt.Errorf("create payment for attempt %s: %w", p.AttemptID, err)
	}
	existing, err := r.GetByAttemptID(ctx, p.AttemptID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("payment for attempt %s missing after insert", p.AttemptID)
	}
	*p = *existing
	return nil
}

func (r *paymentRepo) GetByAttemptID(ctx context.Context, attemptID string) (*model.Payment, error) {
	const q = `
        SELECT id, attempt_id, user_id, plan_id, amount_rwf, payment_method, phone_number, status, created_at, updated_at
        FROM payments
        WHERE attempt_id = $1
    `
	var p model.Payment
	err := r.pool.QueryRow(ctx, q, attemptID).Scan(
		&p.ID, &p.AttemptID, &p.UserID, &p.PlanID, &p.AmountRWF,
		&p.PaymentMethod, &p.PhoneNumber, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch payment for attempt %s: %w", attemptID, err)
	}
	return &p, nil
}

func (r *paymentRepo) MarkCompleted(ctx context.Context, attemptID string) error {
	const q = `
        UPDATE payments
        SET status = 'completed', updated_at = NOW()
        WHERE attempt_id = $1
    `
	if _, err := r.pool.Exec(ctx, q, attemptID); err != nil {
		return fmt.Errorf("complete payment for attempt %s: %w", attemptID, err)
	}
	return nil
}

func (r *paymentRepo) CreateUserPlan(ctx context.Context, attemptID string, up *model.UserPlan) error {
	const q = `
        INSERT INTO user_plans (purchase_attempt_id, user_id, plan_id, starts_at, expires_at, attempts_remaining, status)
        VALUES ($1, $2, $3, $4, $5, $6, 'active')
        ON CONFLICT (purchase_attempt_id) DO NOTHING
    `
	if _, err := r.pool.Exec(ctx, q, attemptID, up.UserID, up.PlanID, up.StartsAt, up.ExpiresAt, up.AttemptsRemaining); err != nil {
		return fmt.Errorf("create user plan for attempt %s: %w", attemptID, err)
	}
	// Read the row back so a retried attempt id yields the originally
	// granted period, not the values this call tried to insert. Callers
	// apply what the store holds, keeping the entitlement window fixed
	// across retries.
	const get = `
        SELECT id, user_id, plan_id, starts_at, expires_at, attempts_remaining, status, created_at
        FROM user_plans
        WHERE purchase_attempt_id = $1
    `
	err := r.pool.QueryRow(ctx, get, attemptID).Scan(
		&up.ID, &up.UserID, &up.PlanID, &up.StartsAt, &up.ExpiresAt, &up.AttemptsRemaining, &up.Status, &up.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("fetch user plan for attempt %s: %w", attemptID, err)
	}
	return nil
}
