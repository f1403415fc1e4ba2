package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tsinda/internal/access"
	"tsinda/internal/model"
	"tsinda/internal/quiz"

	"github.com/rs/zerolog"
)

func premiumQuiz() *model.Quiz {
	return &model.Quiz{
		ID:              "quiz-1",
		Category:        "road_signs",
		DurationMinutes: 10,
		PassPercentage:  70,
		IsPremium:       true,
		IsActive:        true,
	}
}

func quizQuestions(quizID string) []model.Question {
	return []model.Question{
		{ID: "q1", QuizID: quizID, CorrectAnswer: 0, DisplayOrder: 1},
		{ID: "q2", QuizID: quizID, CorrectAnswer: 1, DisplayOrder: 2},
		{ID: "q3", QuizID: quizID, CorrectAnswer: 2, DisplayOrder: 3},
		{ID: "q4", QuizID: quizID, CorrectAnswer: 3, DisplayOrder: 4},
	}
}

func subscribedProfile(userID string, attemptsLeft *int) *model.Profile {
	planID := "plan-month"
	expiry := testNow.Add(24 * time.Hour)
	return &model.Profile{
		UserID:        userID,
		CurrentPlanID: &planID,
		PlanExpiresAt: &expiry,
		AttemptsLeft:  attemptsLeft,
	}
}

func newTestQuiz(t *testing.T, quizzes *fakeQuizRepo, attempts *fakeAttemptRepo, profiles *fakeProfileRepo, pub *fakePublisher) *quizService {
	t.Helper()
	svc := NewQuizService(quizzes, attempts, profiles, pub, "events", zerolog.Nop()).(*quizService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestGetDetailDeniesAnonymousPremium(t *testing.T) {
	quizzes := &fakeQuizRepo{
		quizzes:   map[string]*model.Quiz{"quiz-1": premiumQuiz()},
		questions: map[string][]model.Question{"quiz-1": quizQuestions("quiz-1")},
	}
	svc := newTestQuiz(t, quizzes, &fakeAttemptRepo{}, newFakeProfileRepo(nil), &fakePublisher{})

	_, err := svc.GetDetail(context.Background(), "", "quiz-1")
	var denied *AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}
	if denied.Reason != access.ReasonLoginRequired {
		t.Fatalf("expected LOGIN_REQUIRED, got %q", denied.Reason)
	}
}

func TestGetDetailRejectsEmptyQuiz(t *testing.T) {
	q := premiumQuiz()
	q.IsPremium = false
	quizzes := &fakeQuizRepo{
		quizzes:   map[string]*model.Quiz{"quiz-1": q},
		questions: map[string][]model.Question{},
	}
	svc := newTestQuiz(t, quizzes, &fakeAttemptRepo{}, newFakeProfileRepo(nil), &fakePublisher{})

	_, err := svc.GetDetail(context.Background(), "", "quiz-1")
	if !errors.Is(err, quiz.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestGetDetailUnknownQuiz(t *testing.T) {
	quizzes := &fakeQuizRepo{quizzes: map[string]*model.Quiz{}, questions: map[string][]model.Question{}}
	svc := newTestQuiz(t, quizzes, &fakeAttemptRepo{}, newFakeProfileRepo(nil), &fakePublisher{})

	_, err := svc.GetDetail(context.Background(), "", "nope")
	if !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestSubmitAttemptScoresAndRecords(t *testing.T) {
	quizzes := &fakeQuizRepo{
		quizzes:   map[string]*model.Quiz{"quiz-1": premiumQuiz()},
		questions: map[string][]model.Question{"quiz-1": quizQuestions("quiz-1")},
	}
	attempts := &fakeAttemptRepo{}
	profiles := newFakeProfileRepo(nil)
	left := 5
	profiles.profiles["user-1"] = subscribedProfile("user-1", &left)
	pub := &fakePublisher{}
	svc := newTestQuiz(t, quizzes, attempts, profiles, pub)

	attempt, questions, err := svc.SubmitAttempt(context.Background(), "user-1", "quiz-1", AttemptInput{
		StartedAt:   testNow.Add(-5 * time.Minute),
		CompletedAt: testNow,
		Answers:     map[string]int{"q1": 0, "q2": 1, "q3": 2, "q4": 0},
	})
	if err != nil {
		t.Fatalf("SubmitAttempt returned error: %v", err)
	}
	if attempt.Score != 75 || attempt.CorrectAnswers != 3 || attempt.TotalQuestions != 4 {
		t.Fatalf("unexpected score: %+v", attempt)
	}
	if !attempt.Passed {
		t.Fatal("75 against a 70 threshold must pass")
	}
	if attempt.TimeTakenSeconds != 300 {
		t.Fatalf("expected 300 seconds taken, got %d", attempt.TimeTakenSeconds)
	}
	if len(questions) != 4 || questions[0].ID != "q1" {
		t.Fatalf("expected the scored question set back, got %v", questions)
	}
	if len(attempts.created) != 1 {
		t.Fatalf("expected one recorded attempt, got %d", len(attempts.created))
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(pub.published))
	}
}

func TestSubmitAttemptRejectsFutureStart(t *testing.T) {
	quizzes := &fakeQuizRepo{
		quizzes:   map[string]*model.Quiz{"quiz-1": premiumQuiz()},
		questions: map[string][]model.Question{"quiz-1": quizQuestions("quiz-1")},
	}
	attempts := &fakeAttemptRepo{}
	profiles := newFakeProfileRepo(nil)
	left := 5
	profiles.profiles["user-1"] = subscribedProfile("user-1", &left)
	svc := newTestQuiz(t, quizzes, attempts, profiles, &fakePublisher{})

	_, _, err := svc.SubmitAttempt(context.Background(), "user-1", "quiz-1", AttemptInput{
		StartedAt: testNow.Add(2 * time.Hour),
		Answers:   map[string]int{"q1": 0},
	})
	if !errors.Is(err, ErrInvalidAttemptWindow) {
		t.Fatalf("expected ErrInvalidAttemptWindow, got %v", err)
	}
	if len(attempts.created) != 0 {
		t.Fatal("rejected submission must not be recorded")
	}
	if *profiles.profiles["user-1"].AttemptsLeft != 5 {
		t.Fatal("rejected submission must not consume an attempt")
	}
}

func TestSubmitAttemptCapsElapsedAtQuizDuration(t *testing.T) {
	quizzes := &fakeQuizRepo{
		quizzes:   map[string]*model.Quiz{"quiz-1": premiumQuiz()},
		questions: map[string][]model.Question{"quiz-1": quizQuestions("quiz-1")},
	}
	profiles := newFakeProfileRepo(nil)
	profiles.profiles["user-1"] = subscribedProfile("user-1", nil)
	svc := newTestQuiz(t, quizzes, &fakeAttemptRepo{}, profiles, &fakePublisher{})

	attempt, _, err := svc.SubmitAttempt(context.Background(), "user-1", "quiz-1", AttemptInput{
		StartedAt:   testNow.Add(-3 * time.Hour),
		CompletedAt: testNow,
		Answers:     map[string]int{"q1": 0},
	})
	if err != nil {
		t.Fatalf("SubmitAttempt returned error: %v", err)
	}
	if attempt.TimeTakenSeconds != 600 {
		t.Fatalf("expected elapsed capped at the 10 minute duration, got %d", attempt.TimeTakenSeconds)
	}
}

func TestSubmitAttemptConsumesLimitedCounter(t *testing.T) {
	quizzes := &fakeQuizRepo{
		quizzes:   map[string]*model.Quiz{"quiz-1": premiumQuiz()},
		questions: map[string][]model.Question{"quiz-1": quizQuestions("quiz-1")},
	}
	profiles := newFakeProfileRepo(nil)
	left := 2
	profiles.profiles["user-1"] = subscribedProfile("user-1", &left)
	svc := newTestQuiz(t, quizzes, &fakeAttemptRepo{}, profiles, &fakePublisher{})

	if _, _, err := svc.SubmitAttempt(context.Background(), "user-1", "quiz-1", AttemptInput{
		StartedAt: testNow.Add(-time.Minute),
		Answers:   map[string]int{"q1": 0},
	}); err != nil {
		t.Fatalf("SubmitAttempt returned error: %v", err)
	}

	p := profiles.profiles["user-1"]
	if p.AttemptsLeft == nil || *p.AttemptsLeft != 1 {
		t.Fatalf("expected counter decremented to 1, got %v", p.AttemptsLeft)
	}
	if p.TotalAttemptsUsed != 1 {
		t.Fatalf("expected usage incremented, got %d", p.TotalAttemptsUsed)
	}
}

func TestSubmitAttemptUnlimitedPlanKeepsNilCounter(t *testing.T) {
	quizzes := &fakeQuizRepo{
		quizzes:   map[string]*model.Quiz{"quiz-1": premiumQuiz()},
		questions: map[string][]model.Question{"quiz-1": quizQuestions("quiz-1")},
	}
	profiles := newFakeProfileRepo(nil)
	profiles.profiles["user-1"] = subscribedProfile("user-1", nil)
	svc := newTestQuiz(t, quizzes, &fakeAttemptRepo{}, profiles, &fakePublisher{})

	if _, _, err := svc.SubmitAttempt(context.Background(), "user-1", "quiz-1", AttemptInput{
		StartedAt: testNow.Add(-time.Minute),
	}); err != nil {
		t.Fatalf("SubmitAttempt returned error: %v", err)
	}
	p := profiles.profiles["user-1"]
	if p.AttemptsLeft != nil {
		t.Fatalf("unlimited counter must stay nil, got %v", *p.AttemptsLeft)
	}
	if p.TotalAttemptsUsed != 0 {
		t.Fatalf("unlimited plans skip the consume call, got usage %d", p.TotalAttemptsUsed)
	}
}

func TestSubmitAttemptDeniedWhenNoAttemptsLeft(t *testing.T) {
	quizzes := &fakeQuizRepo{
		quizzes:   map[string]*model.Quiz{"quiz-1": premiumQuiz()},
		questions: map[string][]model.Question{"quiz-1": quizQuestions("quiz-1")},
	}
	attempts := &fakeAttemptRepo{}
	profiles := newFakeProfileRepo(nil)
	zero := 0
	profiles.profiles["user-1"] = subscribedProfile("user-1", &zero)
	svc := newTestQuiz(t, quizzes, attempts, profiles, &fakePublisher{})

	_, _, err := svc.SubmitAttempt(context.Background(), "user-1", "quiz-1", AttemptInput{StartedAt: testNow})
	var denied *AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}
	if denied.Reason != access.ReasonNoAttemptsLeft {
		t.Fatalf("expected NO_ATTEMPTS_LEFT, got %q", denied.Reason)
	}
	if len(attempts.created) != 0 {
		t.Fatal("denied submission must not be recorded")
	}
}

func TestSubmitAttemptFreeQuizSkipsCounter(t *testing.T) {
	q := premiumQuiz()
	q.IsPremium = false
	quizzes := &fakeQuizRepo{
		quizzes:   map[string]*model.Quiz{"quiz-1": q},
		questions: map[string][]model.Question{"quiz-1": quizQuestions("quiz-1")},
	}
	profiles := newFakeProfileRepo(nil)
	left := 3
	profiles.profiles["user-1"] = subscribedProfile("user-1", &left)
	svc := newTestQuiz(t, quizzes, &fakeAttemptRepo{}, profiles, &fakePublisher{})

	if _, _, err := svc.SubmitAttempt(context.Background(), "user-1", "quiz-1", AttemptInput{
		StartedAt: testNow.Add(-time.Minute),
	}); err != nil {
		t.Fatalf("SubmitAttempt returned error: %v", err)
	}
	if *profiles.profiles["user-1"].AttemptsLeft != 3 {
		t.Fatal("free quizzes must not consume premium attempts")
	}
}

func TestListAttemptsClampsLimit(t *testing.T) {
	attempts := &fakeAttemptRepo{}
	for i := 0; i < 30; i++ {
		_ = attempts.Create(context.Background(), &model.QuizAttempt{UserID: "user-1", QuizID: "quiz-1"})
	}
	svc := newTestQuiz(t, &fakeQuizRepo{}, attempts, newFakeProfileRepo(nil), &fakePublisher{})

	got, err := svc.ListAttempts(context.Background(), "user-1", 0)
	if err != nil {
		t.Fatalf("ListAttempts returned error: %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("expected default limit of 20, got %d", len(got))
	}
}
