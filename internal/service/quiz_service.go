package service

import (
	"context"
	"time"

	"tsinda/internal/access"
	"tsinda/internal/model"
	"tsinda/internal/pubsub"
	"tsinda/internal/quiz"
	"tsinda/internal/repository"

	"github.com/rs/zerolog"
)

// QuizDetail bundles a quiz with its ordered questions.
type QuizDetail struct {
	Quiz      *model.Quiz
	Questions []model.Question
}

// AttemptInput carries one submission into SubmitAttempt. Answers maps
// question id to the selected zero-based option index.
type AttemptInput struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Answers     map[string]int
}

// QuizService defines business logic methods for quizzes and attempts.
type QuizService interface {
	List(ctx context.Context, category string) ([]model.Quiz, error)
	// GetDetail returns the quiz with questions after enforcing the
	// attempt gate. A quiz with zero questions is rejected at load time
	// with quiz.ErrNoQuestions rather than failing at scoring.
	GetDetail(ctx context.Context, userID, quizID string) (*QuizDetail, error)
	// SubmitAttempt scores the submission, records the attempt and
	// consumes one attempt from limited premium plans. The questions it
	// scored against come back with the attempt so callers can build the
	// answer review without a second fetch.
	SubmitAttempt(ctx context.Context, userID, quizID string, in AttemptInput) (*model.QuizAttempt, []model.Question, error)
	ListAttempts(ctx context.Context, userID string, limit int) ([]model.QuizAttempt, error)
}

type quizService struct {
	repo        repository.QuizRepository
	attemptRepo repository.AttemptRepository
	profileRepo repository.ProfileRepository
	publisher   pubsub.Publisher
	eventsTopic string
	logger      zerolog.Logger
	now         func() time.Time
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	repo repository.QuizRepository,
	attemptRepo repository.AttemptRepository,
	profileRepo repository.ProfileRepository,
	publisher pubsub.Publisher,
	eventsTopic string,
	logger zerolog.Logger,
) QuizService {
	return &quizService{
		repo:        repo,
		attemptRepo: attemptRepo,
		profileRepo: profileRepo,
		publisher:   publisher,
		eventsTopic: eventsTopic,
		logger:      logger.With().Str("service", "QuizService").Logger(),
		now:         time.Now,
	}
}

func (s *quizService) List(ctx context.Context, category string) ([]model.Quiz, error) {
	quizzes, err := s.repo.ListActive(ctx, category)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list quizzes")
		return nil, err
	}
	return quizzes, nil
}

func (s *quizService) GetDetail(ctx context.Context, userID, quizID string) (*QuizDetail, error) {
	qz, _, err := s.loadGated(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}

	questions, err := s.repo.GetQuestions(ctx, quizID)
	if err != nil {
		s.logger.Error().Err(err).Str("quiz_id", quizID).Msg("Failed to fetch questions")
		return nil, err
	}
	if len(questions) == 0 {
		s.logger.Warn().Str("quiz_id", quizID).Msg("Quiz has no questions")
		return nil, quiz.ErrNoQuestions
	}
	return &QuizDetail{Quiz: qz, Questions: questions}, nil
}

func (s *quizService) SubmitAttempt(ctx context.Context, userID, quizID string, in AttemptInput) (*model.QuizAttempt, []model.Question, error) {
	qz, profile, err := s.loadGated(ctx, userID, quizID)
	if err != nil {
		return nil, nil, err
	}

	questions, err := s.repo.GetQuestions(ctx, quizID)
	if err != nil {
		s.logger.Error().Err(err).Str("quiz_id", quizID).Msg("Failed to fetch questions")
		return nil, nil, err
	}

	result, err := quiz.Score(questions, in.Answers, qz.PassPercentage)
	if err != nil {
		return nil, nil, err
	}

	completedAt := in.CompletedAt
	if completedAt.IsZero() {
		completedAt = s.now()
	}
	// StartedAt comes from the client; a start after completion would
	// record a negative duration, so it is rejected outright. Elapsed
	// time is capped at the quiz duration.
	if in.StartedAt.After(completedAt) {
		return nil, nil, ErrInvalidAttemptWindow
	}
	elapsed := int(completedAt.Sub(in.StartedAt).Round(time.Second) / time.Second)
	if limit := qz.DurationMinutes * 60; limit > 0 && elapsed > limit {
		elapsed = limit
	}
	attempt := &model.QuizAttempt{
		UserID:           userID,
		QuizID:           quizID,
		StartedAt:        in.StartedAt,
		CompletedAt:      completedAt,
		TimeTakenSeconds: elapsed,
		Score:            result.PercentScore,
		CorrectAnswers:   result.CorrectCount,
		TotalQuestions:   result.TotalQuestions,
		Passed:           result.Passed,
		SubmittedAnswers: in.Answers,
	}
	if attempt.SubmittedAnswers == nil {
		attempt.SubmittedAnswers = map[string]int{}
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("quiz_id", quizID).Msg("Failed to record attempt")
		return nil, nil, err
	}

	// Limited premium plans pay one attempt per submission. Admins and
	// unlimited plans keep no counter.
	if qz.IsPremium && profile != nil && !profile.IsAdmin && profile.AttemptsLeft != nil {
		if err := s.profileRepo.ConsumeAttempt(ctx, userID); err != nil {
			// The attempt record is already in; a counter that lags by
			// one is preferable to refusing the result.
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to consume attempt")
		}
	}

	if s.publisher != nil {
		ev := pubsub.Event{
			Type:       pubsub.EventQuizAttemptRecorded,
			UserID:     userID,
			EntityID:   attempt.ID,
			OccurredAt: completedAt,
		}
		if _, err := pubsub.PublishEvent(ctx, s.publisher, s.eventsTopic, ev); err != nil {
			s.logger.Error().Err(err).Str("attempt_id", attempt.ID).Msg("Failed to publish attempt event")
		}
	}

	return attempt, questions, nil
}

func (s *quizService) ListAttempts(ctx context.Context, userID string, limit int) ([]model.QuizAttempt, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	attempts, err := s.attemptRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list attempts")
		return nil, err
	}
	return attempts, nil
}

// loadGated fetches the quiz and enforces the attempt gate against a
// single profile read.
func (s *quizService) loadGated(ctx context.Context, userID, quizID string) (*model.Quiz, *model.Profile, error) {
	qz, err := s.repo.GetActiveByID(ctx, quizID)
	if err != nil {
		s.logger.Error().Err(err).Str("quiz_id", quizID).Msg("Failed to fetch quiz")
		return nil, nil, err
	}
	if qz == nil {
		return nil, nil, ErrQuizNotFound
	}

	var profile *model.Profile
	if userID != "" {
		profile, err = s.profileRepo.GetByUserID(ctx, userID)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch profile for attempt gate")
			return nil, nil, err
		}
	}
	if d := access.CanAttempt(profile, qz.IsPremium, s.now()); !d.Allowed {
		return nil, nil, &AccessDeniedError{Reason: d.Reason}
	}
	return qz, profile, nil
}
