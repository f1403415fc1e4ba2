package service

import (
	"context"
	"fmt"
	"time"

	"tsinda/internal/model"
)

// In-memory repository fakes. They record call order so the sequence
// tests can assert which write happened when.

type fakeProfileRepo struct {
	profiles map[string]*model.Profile
	calls    *[]string
}

func newFakeProfileRepo(calls *[]string) *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*model.Profile), calls: calls}
}

func (r *fakeProfileRepo) record(call string) {
	if r.calls != nil {
		*r.calls = append(*r.calls, call)
	}
}

func (r *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) Create(ctx context.Context, p *model.Profile) error {
	p.ID = "profile-" + p.UserID
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeProfileRepo) UpdateLanguage(ctx context.Context, userID, language string) error {
	p, ok := r.profiles[userID]
	if !ok {
		return fmt.Errorf("profile %s not found", userID)
	}
	p.Language = language
	return nil
}

func (r *fakeProfileRepo) ApplyPurchasedPlan(ctx context.Context, userID, planID string, expiresAt time.Time, attempts *int) error {
	r.record("profile.apply_plan")
	p, ok := r.profiles[userID]
	if !ok {
		return fmt.Errorf("profile %s not found", userID)
	}
	p.CurrentPlanID = &planID
	p.PlanExpiresAt = &expiresAt
	if attempts != nil {
		n := *attempts
		p.AttemptsLeft = &n
	} else {
		p.AttemptsLeft = nil
	}
	return nil
}

func (r *fakeProfileRepo) ConsumeAttempt(ctx context.Context, userID string) error {
	r.record("profile.consume_attempt")
	p, ok := r.profiles[userID]
	if !ok {
		return fmt.Errorf("profile %s not found", userID)
	}
	if p.AttemptsLeft != nil && *p.AttemptsLeft > 0 {
		n := *p.AttemptsLeft - 1
		p.AttemptsLeft = &n
	}
	p.TotalAttemptsUsed++
	return nil
}

type fakePlanRepo struct {
	plans map[string]*model.Plan
}

func (r *fakePlanRepo) ListActive(ctx context.Context) ([]model.Plan, error) {
	out := make([]model.Plan, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePlanRepo) GetActiveByID(ctx context.Context, planID string) (*model.Plan, error) {
	p, ok := r.plans[planID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

type fakePaymentRepo struct {
	payments  map[string]*model.Payment
	userPlans map[string]*model.UserPlan
	calls     *[]string
}

func newFakePaymentRepo(calls *[]string) *fakePaymentRepo {
	return &fakePaymentRepo{
		payments:  make(map[string]*model.Payment),
		userPlans: make(map[string]*model.UserPlan),
		calls:     calls,
	}
}

func (r *fakePaymentRepo) record(call string) {
	if r.calls != nil {
		*r.calls = append(*r.calls, call)
	}
}

func (r *fakePaymentRepo) CreatePending(ctx context.Context, p *model.Payment) error {
	r.record("payment.create_pending")
	if existing, ok := r.payments[p.AttemptID]; ok {
		*p = *existing
		return nil
	}
	p.ID = "payment-" + p.AttemptID
	p.Status = model.PaymentStatusPending
	cp := *p
	r.payments[p.AttemptID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetByAttemptID(ctx context.Context, attemptID string) (*model.Payment, error) {
	p, ok := r.payments[attemptID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) MarkCompleted(ctx context.Context, attemptID string) error {
	r.record("payment.mark_completed")
	p, ok := r.payments[attemptID]
	if !ok {
		return fmt.Errorf("payment for attempt %s not found", attemptID)
	}
	p.Status = model.PaymentStatusCompleted
	return nil
}

func (r *fakePaymentRepo) CreateUserPlan(ctx context.Context, attemptID string, up *model.UserPlan) error {
	r.record("payment.create_user_plan")
	if existing, ok := r.userPlans[attemptID]; ok {
		*up = *existing
		return nil
	}
	up.ID = "user-plan-" + attemptID
	up.Status = "active"
	cp := *up
	r.userPlans[attemptID] = &cp
	return nil
}

type fakeQuizRepo struct {
	quizzes   map[string]*model.Quiz
	questions map[string][]model.Question
}

func (r *fakeQuizRepo) ListActive(ctx context.Context, category string) ([]model.Quiz, error) {
	out := make([]model.Quiz, 0, len(r.quizzes))
	for _, q := range r.quizzes {
		if category == "" || q.Category == category {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeQuizRepo) GetActiveByID(ctx context.Context, quizID string) (*model.Quiz, error) {
	q, ok := r.quizzes[quizID]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuizRepo) GetQuestions(ctx context.Context, quizID string) ([]model.Question, error) {
	return r.questions[quizID], nil
}

type fakeAttemptRepo struct {
	created []*model.QuizAttempt
}

func (r *fakeAttemptRepo) Create(ctx context.Context, a *model.QuizAttempt) error {
	a.ID = fmt.Sprintf("attempt-%d", len(r.created)+1)
	r.created = append(r.created, a)
	return nil
}

func (r *fakeAttemptRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.QuizAttempt, error) {
	out := make([]model.QuizAttempt, 0, limit)
	for i := len(r.created) - 1; i >= 0 && len(out) < limit; i-- {
		if r.created[i].UserID == userID {
			out = append(out, *r.created[i])
		}
	}
	return out, nil
}

type fakeLessonRepo struct {
	lessons  map[string]*model.Lesson
	progress map[string]*model.LessonProgress
}

func progressKey(userID, lessonID string) string { return userID + "/" + lessonID }

func (r *fakeLessonRepo) ListActive(ctx context.Context, category string) ([]model.Lesson, error) {
	out := make([]model.Lesson, 0, len(r.lessons))
	for _, l := range r.lessons {
		if category == "" || l.Category == category {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) GetActiveByID(ctx context.Context, lessonID string) (*model.Lesson, error) {
	l, ok := r.lessons[lessonID]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLessonRepo) ListProgress(ctx context.Context, userID string) ([]model.LessonProgress, error) {
	var out []model.LessonProgress
	for _, p := range r.progress {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) UpsertCompletion(ctx context.Context, userID, lessonID string, completedAt time.Time) (*model.LessonProgress, error) {
	key := progressKey(userID, lessonID)
	if existing, ok := r.progress[key]; ok {
		existing.Completed = true
		existing.CompletedAt = &completedAt
		cp := *existing
		return &cp, nil
	}
	p := &model.LessonProgress{
		ID:          "progress-" + key,
		UserID:      userID,
		LessonID:    lessonID,
		Completed:   true,
		CompletedAt: &completedAt,
	}
	r.progress[key] = p
	cp := *p
	return &cp, nil
}

type fakePublisher struct {
	published []string
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.published = append(p.published, string(payload))
	return fmt.Sprintf("msg-%d", len(p.published)), nil
}
