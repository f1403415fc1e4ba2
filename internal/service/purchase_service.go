package service

import (
	"context"
	"time"

	"tsinda/internal/model"
	"tsinda/internal/pubsub"
	"tsinda/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CheckoutInput describes one plan purchase. AttemptID is optional; when
// the client does not supply one, a fresh id is generated. Supplying the
// same id again retries the same purchase instead of starting a new one.
type CheckoutInput struct {
	AttemptID     string
	PlanID        string
	PaymentMethod string
	PhoneNumber   *string
}

// PurchaseService runs the plan checkout sequence:
//
//  1. create a pending payment
//  2. simulated processor delay
//  3. mark the payment completed
//  4. create the active user plan period
//  5. point the profile at the new plan
//
// There is no compensating action: a failure surfaces to the caller and
// leaves earlier steps in place. Every write is keyed by the purchase
// attempt id, so retrying the same attempt id completes the remaining
// steps without double-charging or double-granting.
type PurchaseService interface {
	Checkout(ctx context.Context, userID string, in CheckoutInput) (*model.Payment, *model.UserPlan, error)
}

type purchaseService struct {
	paymentRepo     repository.PaymentRepository
	planRepo        repository.PlanRepository
	profileRepo     repository.ProfileRepository
	publisher       pubsub.Publisher
	eventsTopic     string
	processingDelay time.Duration
	logger          zerolog.Logger
	now             func() time.Time
	sleep           func(context.Context, time.Duration) error
}

// NewPurchaseService creates a new PurchaseService.
func NewPurchaseService(
	paymentRepo repository.PaymentRepository,
	planRepo repository.PlanRepository,
	profileRepo repository.ProfileRepository,
	publisher pubsub.Publisher,
	eventsTopic string,
	processingDelay time.Duration,
	logger zerolog.Logger,
) PurchaseService {
	return &purchaseService{
		paymentRepo:     paymentRepo,
		planRepo:        planRepo,
		profileRepo:     profileRepo,
		publisher:       publisher,
		eventsTopic:     eventsTopic,
		processingDelay: processingDelay,
		logger:          logger.With().Str("service", "PurchaseService").Logger(),
		now:             time.Now,
		sleep:           sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *purchaseService) Checkout(ctx context.Context, userID string, in CheckoutInput) (*model.Payment, *model.UserPlan, error) {
	plan, err := s.planRepo.GetActiveByID(ctx, in.PlanID)
	if err != nil {
		s.logger.Error().Err(err).Str("plan_id", in.PlanID).Msg("Failed to fetch plan")
		return nil, nil, err
	}
	if plan == nil {
		return nil, nil, ErrPlanNotFound
	}

	attemptID := in.AttemptID
	if attemptID == "" {
		attemptID = uuid.NewString()
	}

	// Step 1: pending payment record.
	payment := &model.Payment{
		AttemptID:     attemptID,
		UserID:        userID,
		PlanID:        plan.ID,
		AmountRWF:     plan.PriceRWF,
		PaymentMethod: in.PaymentMethod,
		PhoneNumber:   in.PhoneNumber,
	}
	if err := s.paymentRepo.CreatePending(ctx, payment); err != nil {
		s.logger.Error().Err(err).Str("attempt_id", attemptID).Msg("Failed to create payment")
		return nil, nil, err
	}

	// Step 2: mock processor. Real providers would be called here.
	if payment.Status != model.PaymentStatusCompleted {
		if err := s.sleep(ctx, s.processingDelay); err != nil {
			return nil, nil, err
		}
		// Step 3: settle the payment.
		if err := s.paymentRepo.MarkCompleted(ctx, attemptID); err != nil {
			s.logger.Error().Err(err).Str("attempt_id", attemptID).Msg("Failed to complete payment")
			return nil, nil, err
		}
		payment.Status = model.PaymentStatusCompleted
	}

	// Step 4: activate the purchased plan period. The repository hands
	// back the stored row, so a retried attempt id carries the original
	// period instead of one recomputed from the retry instant.
	start := s.now()
	userPlan := &model.UserPlan{
		UserID:            userID,
		PlanID:            plan.ID,
		StartsAt:          start,
		ExpiresAt:         start.AddDate(0, 0, plan.DurationDays),
		AttemptsRemaining: plan.AttemptsIncluded,
	}
	if err := s.paymentRepo.CreateUserPlan(ctx, attemptID, userPlan); err != nil {
		s.logger.Error().Err(err).Str("attempt_id", attemptID).Msg("Failed to create user plan")
		return nil, nil, err
	}

	// Step 5: point the profile at the granted period. Values come from
	// the stored plan period, never this call's locals, so retries leave
	// the entitlement window unchanged.
	if err := s.profileRepo.ApplyPurchasedPlan(ctx, userID, userPlan.PlanID, userPlan.ExpiresAt, userPlan.AttemptsRemaining); err != nil {
		s.logger.Error().Err(err).Str("attempt_id", attemptID).Msg("Failed to update profile with new plan")
		return nil, nil, err
	}

	if s.publisher != nil {
		ev := pubsub.Event{
			Type:       pubsub.EventPaymentCompleted,
			UserID:     userID,
			EntityID:   payment.ID,
			OccurredAt: s.now(),
		}
		if _, err := pubsub.PublishEvent(ctx, s.publisher, s.eventsTopic, ev); err != nil {
			s.logger.Error().Err(err).Str("attempt_id", attemptID).Msg("Failed to publish payment event")
		}
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("plan_id", plan.ID).
		Str("attempt_id", attemptID).
		Msg("Checkout completed")
	return payment, userPlan, nil
}
