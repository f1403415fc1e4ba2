package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"tsinda/internal/access"
	"tsinda/internal/api/v1/dto"
	"tsinda/internal/i18n"
	"tsinda/internal/middleware"
	"tsinda/internal/model"
	"tsinda/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// QuizHandler serves quizzes, questions and attempt submission.
type QuizHandler struct {
	quizSvc    service.QuizService
	profileSvc service.ProfileService
	translator *i18n.Translator
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(
	quizSvc service.QuizService,
	profileSvc service.ProfileService,
	translator *i18n.Translator,
	v *validator.Validate,
	logger zerolog.Logger,
) *QuizHandler {
	return &QuizHandler{
		quizSvc:    quizSvc,
		profileSvc: profileSvc,
		translator: translator,
		validate:   v,
		logger:     logger,
	}
}

// RegisterRoutes mounts v1 quiz routes.
func (h *QuizHandler) RegisterRoutes(mux *http.ServeMux, optionalAuthMw func(http.Handler) http.Handler) {
	mux.Handle("/quizzes", optionalAuthMw(http.HandlerFunc(h.listQuizzes)))
	mux.Handle("/quizzes/", optionalAuthMw(http.HandlerFunc(h.handleQuiz)))
}

func (h *QuizHandler) handleQuiz(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/quizzes/")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(rest, "/attempts"):
		h.submitAttempt(w, r, strings.TrimSuffix(rest, "/attempts"))
	case r.Method == http.MethodGet && !strings.Contains(rest, "/"):
		h.getQuiz(w, r, rest)
	default:
		http.NotFound(w, r)
	}
}

func (h *QuizHandler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	lang := requestLanguage(r)

	quizzes, err := h.quizSvc.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	profile := h.callerProfile(r)
	now := time.Now()
	resp := make([]dto.QuizSummaryDTO, 0, len(quizzes))
	for _, q := range quizzes {
		resp = append(resp, dto.QuizSummaryDTO{
			ID:              q.ID,
			Title:           q.Title.Resolve(lang),
			Description:     q.Description.Resolve(lang),
			Category:        q.Category,
			Difficulty:      q.Difficulty,
			DurationMinutes: q.DurationMinutes,
			PassPercentage:  q.PassPercentage,
			IsPremium:       q.IsPremium,
			Locked:          !access.CanAccess(profile, q.IsPremium, now),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *QuizHandler) getQuiz(w http.ResponseWriter, r *http.Request, quizID string) {
	lang := requestLanguage(r)
	detail, err := h.quizSvc.GetDetail(r.Context(), middleware.UserID(r.Context()), quizID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	questions := make([]dto.QuestionDTO, 0, len(detail.Questions))
	for _, q := range detail.Questions {
		questions = append(questions, dto.QuestionDTO{
			ID:       q.ID,
			Text:     q.Text.Resolve(lang),
			Options:  q.Options.Resolve(lang),
			ImageURL: q.ImageURL,
		})
	}
	writeJSON(w, http.StatusOK, dto.QuizDetailDTO{
		ID:              detail.Quiz.ID,
		Title:           detail.Quiz.Title.Resolve(lang),
		Description:     detail.Quiz.Description.Resolve(lang),
		DurationMinutes: detail.Quiz.DurationMinutes,
		PassPercentage:  detail.Quiz.PassPercentage,
		Questions:       questions,
	})
}

func (h *QuizHandler) submitAttempt(w http.ResponseWriter, r *http.Request, quizID string) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "access denied", Reason: string(access.ReasonLoginRequired)})
		return
	}
	lang := requestLanguage(r)

	var req dto.AttemptSubmitDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	attempt, questions, err := h.quizSvc.SubmitAttempt(r.Context(), userID, quizID, service.AttemptInput{
		StartedAt: req.StartedAt,
		Answers:   req.Answers,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	msgKey := "quiz.failed"
	if attempt.Passed {
		msgKey = "quiz.passed"
	}
	resp := dto.AttemptResultDTO{
		AttemptID:        attempt.ID,
		Score:            attempt.Score,
		CorrectAnswers:   attempt.CorrectAnswers,
		TotalQuestions:   attempt.TotalQuestions,
		Passed:           attempt.Passed,
		TimeTakenSeconds: attempt.TimeTakenSeconds,
		Message:          h.translator.T(lang, msgKey),
		Review:           buildReview(questions, attempt.SubmittedAnswers, lang),
	}
	writeJSON(w, http.StatusCreated, resp)
}

func buildReview(questions []model.Question, answers map[string]int, lang i18n.Language) []dto.AttemptReviewEntryDTO {
	review := make([]dto.AttemptReviewEntryDTO, 0, len(questions))
	for _, q := range questions {
		entry := dto.AttemptReviewEntryDTO{
			QuestionID:    q.ID,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation.Resolve(lang),
		}
		if sel, ok := answers[q.ID]; ok {
			s := sel
			entry.Selected = &s
			entry.Correct = sel == q.CorrectAnswer
		}
		review = append(review, entry)
	}
	return review
}

func (h *QuizHandler) callerProfile(r *http.Request) *model.Profile {
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
