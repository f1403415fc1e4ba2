package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"tsinda/internal/api/v1/dto"
	"tsinda/internal/i18n"
	"tsinda/internal/middleware"
	"tsinda/internal/model"
	"tsinda/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// UserHandler serves the caller's profile, language preference, lesson
// progress and attempt history.
type UserHandler struct {
	profileSvc service.ProfileService
	lessonSvc  service.LessonService
	quizSvc    service.QuizService
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(
	profileSvc service.ProfileService,
	lessonSvc service.LessonService,
	quizSvc service.QuizService,
	v *validator.Validate,
	logger zerolog.Logger,
) *UserHandler {
	return &UserHandler{
		profileSvc: profileSvc,
		lessonSvc:  lessonSvc,
		quizSvc:    quizSvc,
		validate:   v,
		logger:     logger,
	}
}

// RegisterRoutes mounts v1 user routes.
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users/me", authMw(http.HandlerFunc(h.handleProfile)))
	mux.Handle("/users/me/language", authMw(http.HandlerFunc(h.updateLanguage)))
	mux.Handle("/users/me/progress", authMw(http.HandlerFunc(h.listProgress)))
	mux.Handle("/users/me/attempts", authMw(http.HandlerFunc(h.listAttempts)))
}

func (h *UserHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProfile(w, r)
	case http.MethodPost:
		h.createProfile(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *UserHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	profile, err := h.profileSvc.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse(profile))
}

func (h *UserHandler) createProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req dto.ProfileCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}
	profile, err := h.profileSvc.Create(r.Context(), &model.Profile{
		UserID:   userID,
		FullName: req.FullName,
		Email:    req.Email,
		Language: req.Language,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profileResponse(profile))
}

func (h *UserHandler) updateLanguage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID := middleware.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req dto.LanguageUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}
	if err := h.profileSvc.SetLanguage(r.Context(), userID, i18n.ParseLanguage(req.Language)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) listProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID := middleware.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	progress, err := h.lessonSvc.ListProgress(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]dto.LessonProgressDTO, 0, len(progress))
	for _, p := range progress {
		resp = append(resp, dto.LessonProgressDTO{
			LessonID:    p.LessonID,
			Completed:   p.Completed,
			CompletedAt: p.CompletedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) listAttempts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID := middleware.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	attempts, err := h.quizSvc.ListAttempts(r.Context(), userID, 20)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]dto.AttemptHistoryEntryDTO, 0, len(attempts))
	for _, a := range attempts {
		resp = append(resp, dto.AttemptHistoryEntryDTO{
			AttemptID:   a.ID,
			QuizID:      a.QuizID,
			Score:       a.Score,
			Passed:      a.Passed,
			CompletedAt: a.CompletedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func profileResponse(p *model.Profile) dto.ProfileResponseDTO {
	return dto.ProfileResponseDTO{
		UserID:            p.UserID,
		FullName:          p.FullName,
		Email:             p.Email,
		IsAdmin:           p.IsAdmin,
		Language:          p.Language,
		CurrentPlanID:     p.CurrentPlanID,
		PlanExpiresAt:     p.PlanExpiresAt,
		AttemptsLeft:      p.AttemptsLeft,
		TotalAttemptsUsed: p.TotalAttemptsUsed,
		CreatedAt:         p.CreatedAt,
	}
}
