package service

import (
	"context"

	"tsinda/internal/i18n"
	"tsinda/internal/model"
	"tsinda/internal/repository"

	"github.com/rs/zerolog"
)

// ProfileService defines business logic methods for user profiles.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*model.Profile, error)
	Create(ctx context.Context, p *model.Profile) (*model.Profile, error)
	SetLanguage(ctx context.Context, userID string, lang i18n.Language) error
}

type profileService struct {
	repo   repository.ProfileRepository
	logger zerolog.Logger
}

// NewProfileService creates a new ProfileService with a scoped logger.
func NewProfileService(repo repository.ProfileRepository, logger zerolog.Logger) ProfileService {
	return &profileService{
		repo:   repo,
		logger: logger.With().Str("service", "ProfileService").Logger(),
	}
}

func (s *profileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch profile")
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (s *profileService) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	if p.Language == "" {
		p.Language = string(i18n.LangEN)
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("user_id", p.UserID).Msg("Failed to create profile")
		return nil, err
	}
	return p, nil
}

func (s *profileService) SetLanguage(ctx context.Context, userID string, lang i18n.Language) error {
	if err := s.repo.UpdateLanguage(ctx, userID, string(lang)); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to update language")
		return err
	}
	return nil
}
