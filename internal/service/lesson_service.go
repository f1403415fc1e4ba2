package service

import (
	"context"
	"errors"
	"time"

	"tsinda/internal/access"
	"tsinda/internal/model"
	"tsinda/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// ErrNoAsset is returned when a lesson has no downloadable media.
var ErrNoAsset = errors.New("lesson has no downloadable asset")

// LessonService defines business logic methods for lessons and lesson
// progress.
type LessonService interface {
	List(ctx context.Context, category string) ([]model.Lesson, error)
	// Get returns the lesson after enforcing the premium gate for the
	// given user. userID may be empty for anonymous listing of free
	// content.
	Get(ctx context.Context, userID, lessonID string) (*model.Lesson, error)
	// MarkComplete upserts the user's completion state for the lesson.
	// Calling it twice yields one progress row, updated in place.
	MarkComplete(ctx context.Context, userID, lessonID string) (*model.LessonProgress, error)
	ListProgress(ctx context.Context, userID string) ([]model.LessonProgress, error)
	// AssetURL returns a short-lived signed download URL for a video or
	// pdf lesson's media object.
	AssetURL(ctx context.Context, userID, lessonID string) (string, error)
}

type lessonService struct {
	repo          repository.LessonRepository
	profileRepo   repository.ProfileRepository
	presignClient *s3.PresignClient
	bucketName    string
	logger        zerolog.Logger
	now           func() time.Time
}

// NewLessonService creates a new LessonService.
func NewLessonService(
	repo repository.LessonRepository,
	profileRepo repository.ProfileRepository,
	s3Client *s3.Client,
	bucketName string,
	logger zerolog.Logger,
) LessonService {
	return &lessonService{
		repo:          repo,
		profileRepo:   profileRepo,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    bucketName,
		logger:        logger.With().Str("service", "LessonService").Logger(),
		now:           time.Now,
	}
}

func (s *lessonService) List(ctx context.Context, category string) ([]model.Lesson, error) {
	lessons, err := s.repo.ListActive(ctx, category)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list lessons")
		return nil, err
	}
	return lessons, nil
}

func (s *lessonService) Get(ctx context.Context, userID, lessonID string) (*model.Lesson, error) {
	lesson, err := s.repo.GetActiveByID(ctx, lessonID)
	if err != nil {
		s.logger.Error().Err(err).Str("lesson_id", lessonID).Msg("Failed to fetch lesson")
		return nil, err
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	if err := s.checkAccess(ctx, userID, lesson.IsPremium); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *lessonService) MarkComplete(ctx context.Context, userID, lessonID string) (*model.LessonProgress, error) {
	// Access is enforced on completion too: a premium lesson cannot be
	// marked complete by a user who cannot view it.
	if _, err := s.Get(ctx, userID, lessonID); err != nil {
		return nil, err
	}
	progress, err := s.repo.UpsertCompletion(ctx, userID, lessonID, s.now())
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("lesson_id", lessonID).Msg("Failed to mark lesson complete")
		return nil, err
	}
	return progress, nil
}

func (s *lessonService) ListProgress(ctx context.Context, userID string) ([]model.LessonProgress, error) {
	progress, err := s.repo.ListProgress(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list lesson progress")
		return nil, err
	}
	return progress, nil
}

func (s *lessonService) AssetURL(ctx context.Context, userID, lessonID string) (string, error) {
	lesson, err := s.Get(ctx, userID, lessonID)
	if err != nil {
		return "", err
	}

	var storagePath *string
	switch lesson.LessonType {
	case model.LessonTypeVideo:
		storagePath = lesson.VideoURL
	case model.LessonTypePDF:
		storagePath = lesson.FileURL
	}
	if storagePath == nil || *storagePath == "" {
		return "", ErrNoAsset
	}

	resp, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(*storagePath),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		s.logger.Error().Err(err).Str("lesson_id", lessonID).Msg("Failed to presign asset URL")
		return "", err
	}
	return resp.URL, nil
}

// checkAccess loads the profile once and evaluates the premium gate
// against that single read.
func (s *lessonService) checkAccess(ctx context.Context, userID string, isPremium bool) error {
	if !isPremium {
		return nil
	}
	var profile *model.Profile
	if userID != "" {
		var err error
		profile, err = s.profileRepo.GetByUserID(ctx, userID)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch profile for access check")
			return err
		}
	}
	if d := access.CanView(profile, isPremium, s.now()); !d.Allowed {
		return &AccessDeniedError{Reason: d.Reason}
	}
	return nil
}
