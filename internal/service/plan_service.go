package service

import (
	"context"

	"tsinda/internal/model"
	"tsinda/internal/repository"

	"github.com/rs/zerolog"
)

// PlanService defines business logic methods for subscription plans.
type PlanService interface {
	List(ctx context.Context) ([]model.Plan, error)
	Get(ctx context.Context, planID string) (*model.Plan, error)
}

type planService struct {
	repo   repository.PlanRepository
	logger zerolog.Logger
}

// NewPlanService creates a new PlanService with a scoped logger.
func NewPlanService(repo repository.PlanRepository, logger zerolog.Logger) PlanService {
	return &planService{
		repo:   repo,
		logger: logger.With().Str("service", "PlanService").Logger(),
	}
}

func (s *planService) List(ctx context.Context) ([]model.Plan, error) {
	plans, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list plans")
		return nil, err
	}
	return plans, nil
}

func (s *planService) Get(ctx context.Context, planID string) (*model.Plan, error) {
	plan, err := s.repo.GetActiveByID(ctx, planID)
	if err != nil {
		s.logger.Error().Err(err).Str("plan_id", planID).Msg("Failed to fetch plan")
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}
