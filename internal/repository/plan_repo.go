package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"tsinda/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlanRepository defines methods for accessing subscription plans.
// Plans are read-only reference data from the API's perspective.
type PlanRepository interface {
	ListActive(ctx context.Context) ([]model.Plan, error)
	GetActiveByID(ctx context.Context, planID string) (*model.Plan, error)
}

type planRepo struct {
	pool *pgxpool.Pool
}

// NewPlanRepo creates a new PlanRepository.
func NewPlanRepo(pool *pgxpool.Pool) PlanRepository {
	return &planRepo{pool: pool}
}

const planColumns = `
        id,
        name_en, name_fr, name_rw,
        COALESCE(description_en, ''), COALESCE(description_fr, ''), COALESCE(description_rw, ''),
        features_en, features_fr, features_rw,
        price_rwf, duration_days, attempts_included,
        display_order, is_active, created_at, updated_at`

func (r *planRepo) ListActive(ctx context.Context) ([]model.Plan, error) {
	q := `SELECT` + planColumns + `
        FROM plans
        WHERE is_active = TRUE
        ORDER BY display_order`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []model.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

func (r *planRepo) GetActiveByID(ctx context.Context, planID string) (*model.Plan, error) {
	q := `SELECT` + planColumns + `
        FROM plans
        WHERE id = $1 AND is_active = TRUE`
	rows, err := r.pool.Query(ctx, q, planID)
	if err != nil {
		return nil, fmt.Errorf("fetch plan %s: %w", planID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("fetch plan %s: %w", planID, err)
		}
		return nil, nil
	}
	return scanPlan(rows)
}

func scanPlan(row pgx.Row) (*model.Plan, error) {
	var p model.Plan
	var featEN, featFR, featRW []byte
	err := row.Scan(
		&p.ID,
		&p.Name.EN, &p.Name.FR, &p.Name.RW,
		&p.Description.EN, &p.Description.FR, &p.Description.RW,
		&featEN, &featFR, &featRW,
		&p.PriceRWF, &p.DurationDays, &p.AttemptsIncluded,
		&p.DisplayOrder, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan plan: %w", err)
	}
	for _, f := range []struct {
		raw  []byte
		dest *[]string
	}{
		{featEN, &p.Features.EN},
		{featFR, &p.Features.FR},
		{featRW, &p.Features.RW},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dest); err != nil {
			return nil, fmt.Errorf("unmarshal features for plan %s: %w", p.ID, err)
		}
	}
	return &p, nil
}
