package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tsinda/internal/access"
	"tsinda/internal/model"

	"github.com/rs/zerolog"
)

func newTestLesson(t *testing.T, lessons *fakeLessonRepo, profiles *fakeProfileRepo) *lessonService {
	t.Helper()
	return &lessonService{
		repo:        lessons,
		profileRepo: profiles,
		logger:      zerolog.Nop(),
		now:         func() time.Time { return testNow },
	}
}

func premiumLesson() *model.Lesson {
	return &model.Lesson{
		ID:        "lesson-1",
		Category:  model.LessonCategoryRoadSigns,
		IsPremium: true,
		IsActive:  true,
	}
}

func TestLessonGetFreeWithoutProfile(t *testing.T) {
	l := premiumLesson()
	l.IsPremium = false
	lessons := &fakeLessonRepo{
		lessons:  map[string]*model.Lesson{"lesson-1": l},
		progress: map[string]*model.LessonProgress{},
	}
	svc := newTestLesson(t, lessons, newFakeProfileRepo(nil))

	if _, err := svc.Get(context.Background(), "", "lesson-1"); err != nil {
		t.Fatalf("free lesson must be readable anonymously: %v", err)
	}
}

func TestLessonGetPremiumDenied(t *testing.T) {
	lessons := &fakeLessonRepo{
		lessons:  map[string]*model.Lesson{"lesson-1": premiumLesson()},
		progress: map[string]*model.LessonProgress{},
	}
	profiles := newFakeProfileRepo(nil)
	profiles.profiles["user-1"] = &model.Profile{UserID: "user-1"}
	svc := newTestLesson(t, lessons, profiles)

	_, err := svc.Get(context.Background(), "user-1", "lesson-1")
	var denied *AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}
	if denied.Reason != access.ReasonUpgradeRequired {
		t.Fatalf("expected UPGRADE_REQUIRED, got %q", denied.Reason)
	}
}

func TestLessonGetUnknown(t *testing.T) {
	lessons := &fakeLessonRepo{lessons: map[string]*model.Lesson{}, progress: map[string]*model.LessonProgress{}}
	svc := newTestLesson(t, lessons, newFakeProfileRepo(nil))

	if _, err := svc.Get(context.Background(), "", "nope"); !errors.Is(err, ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	l := premiumLesson()
	l.IsPremium = false
	lessons := &fakeLessonRepo{
		lessons:  map[string]*model.Lesson{"lesson-1": l},
		progress: map[string]*model.LessonProgress{},
	}
	profiles := newFakeProfileRepo(nil)
	profiles.profiles["user-1"] = &model.Profile{UserID: "user-1"}
	svc := newTestLesson(t, lessons, profiles)

	first, err := svc.MarkComplete(context.Background(), "user-1", "lesson-1")
	if err != nil {
		t.Fatalf("MarkComplete returned error: %v", err)
	}
	second, err := svc.MarkComplete(context.Background(), "user-1", "lesson-1")
	if err != nil {
		t.Fatalf("second MarkComplete returned error: %v", err)
	}

	if len(lessons.progress) != 1 {
		t.Fatalf("expected one progress row per (user, lesson), got %d", len(lessons.progress))
	}
	if first.ID != second.ID {
		t.Fatalf("repeat completion must update the same row: %q vs %q", first.ID, second.ID)
	}
	if !second.Completed || second.CompletedAt == nil {
		t.Fatalf("completion not recorded: %+v", second)
	}
}

func TestMarkCompletePremiumDenied(t *testing.T) {
	lessons := &fakeLessonRepo{
		lessons:  map[string]*model.Lesson{"lesson-1": premiumLesson()},
		progress: map[string]*model.LessonProgress{},
	}
	svc := newTestLesson(t, lessons, newFakeProfileRepo(nil))

	_, err := svc.MarkComplete(context.Background(), "", "lesson-1")
	var denied *AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}
	if len(lessons.progress) != 0 {
		t.Fatal("denied completion must not write progress")
	}
}

func TestAssetURLNoAsset(t *testing.T) {
	l := premiumLesson()
	l.IsPremium = false
	l.LessonType = model.LessonTypeMarkdown
	lessons := &fakeLessonRepo{
		lessons:  map[string]*model.Lesson{"lesson-1": l},
		progress: map[string]*model.LessonProgress{},
	}
	svc := newTestLesson(t, lessons, newFakeProfileRepo(nil))

	if _, err := svc.AssetURL(context.Background(), "", "lesson-1"); !errors.Is(err, ErrNoAsset) {
		t.Fatalf("expected ErrNoAsset for a markdown lesson, got %v", err)
	}
}
