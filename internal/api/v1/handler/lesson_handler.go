package handler

import (
	"net/http"
	"strings"
	"time"

	"tsinda/internal/access"
	"tsinda/internal/api/v1/dto"
	"tsinda/internal/middleware"
	"tsinda/internal/model"
	"tsinda/internal/service"

	"github.com/rs/zerolog"
)

// LessonHandler serves lessons, lesson media and completion state.
type LessonHandler struct {
	lessonSvc  service.LessonService
	profileSvc service.ProfileService
	logger     zerolog.Logger
}

// NewLessonHandler creates a new LessonHandler.
func NewLessonHandler(lessonSvc service.LessonService, profileSvc service.ProfileService, logger zerolog.Logger) *LessonHandler {
	return &LessonHandler{lessonSvc: lessonSvc, profileSvc: profileSvc, logger: logger}
}

// RegisterRoutes mounts v1 lesson routes. Listing and detail take
// optional auth so premium locks reflect the caller's plan; completion
// requires a user.
func (h *LessonHandler) RegisterRoutes(mux *http.ServeMux, optionalAuthMw func(http.Handler) http.Handler) {
	mux.Handle("/lessons", optionalAuthMw(http.HandlerFunc(h.listLessons)))
	mux.Handle("/lessons/", optionalAuthMw(http.HandlerFunc(h.handleLesson)))
}

func (h *LessonHandler) handleLesson(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/lessons/")
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(rest, "/asset"):
		h.getAsset(w, r, strings.TrimSuffix(rest, "/asset"))
	case r.Method == http.MethodPost && strings.HasSuffix(rest, "/complete"):
		h.markComplete(w, r, strings.TrimSuffix(rest, "/complete"))
	case r.Method == http.MethodGet && !strings.Contains(rest, "/"):
		h.getLesson(w, r, rest)
	default:
		http.NotFound(w, r)
	}
}

func (h *LessonHandler) listLessons(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	lang := requestLanguage(r)

	lessons, err := h.lessonSvc.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	profile := h.callerProfile(r)
	now := time.Now()
	resp := make([]dto.LessonSummaryDTO, 0, len(lessons))
	for _, l := range lessons {
		resp = append(resp, dto.LessonSummaryDTO{
			ID:          l.ID,
			Title:       l.Title.Resolve(lang),
			Description: l.Description.Resolve(lang),
			Category:    l.Category,
			LessonType:  l.LessonType,
			IsPremium:   l.IsPremium,
			Locked:      !access.CanAccess(profile, l.IsPremium, now),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LessonHandler) getLesson(w http.ResponseWriter, r *http.Request, lessonID string) {
	lang := requestLanguage(r)
	lesson, err := h.lessonSvc.Get(r.Context(), middleware.UserID(r.Context()), lessonID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LessonResponseDTO{
		ID:          lesson.ID,
		Title:       lesson.Title.Resolve(lang),
		Description: lesson.Description.Resolve(lang),
		Content:     lesson.Content.Resolve(lang),
		Category:    lesson.Category,
		LessonType:  lesson.LessonType,
		IsPremium:   lesson.IsPremium,
	})
}

func (h *LessonHandler) markComplete(w http.ResponseWriter, r *http.Request, lessonID string) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "access denied", Reason: string(access.ReasonLoginRequired)})
		return
	}
	progress, err := h.lessonSvc.MarkComplete(r.Context(), userID, lessonID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LessonProgressDTO{
		LessonID:    progress.LessonID,
		Completed:   progress.Completed,
		CompletedAt: progress.CompletedAt,
	})
}

func (h *LessonHandler) getAsset(w http.ResponseWriter, r *http.Request, lessonID string) {
	url, err := h.lessonSvc.AssetURL(r.Context(), middleware.UserID(r.Context()), lessonID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LessonAssetDTO{URL: url})
}

// callerProfile loads the authenticated caller's profile for lock
// computation; anonymous callers and missing profiles read as nil.
func (h *LessonHandler) callerProfile(r *http.Request) *model.Profile {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		return nil
	}
	profile, err := h.profileSvc.Get(r.Context(), userID)
	if err != nil {
		return nil
	}
	return profile
}
