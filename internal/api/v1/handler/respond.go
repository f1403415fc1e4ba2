package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"tsinda/internal/access"
	"tsinda/internal/i18n"
	"tsinda/internal/quiz"
	"tsinda/internal/service"
)

// errorBody is the JSON shape for every error response. Reason carries
// the attempt-gate code when the error is an entitlement denial.
type errorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeServiceError maps service-layer errors onto HTTP statuses. An
// entitlement denial surfaces exactly one reason code.
func writeServiceError(w http.ResponseWriter, err error) {
	var denied *service.AccessDeniedError
	switch {
	case errors.As(err, &denied):
		status := http.StatusForbidden
		if denied.Reason == access.ReasonLoginRequired {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, errorBody{Error: "access denied", Reason: string(denied.Reason)})
	case errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, service.ErrQuizNotFound),
		errors.Is(err, service.ErrNoAsset):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidAttemptWindow):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, quiz.ErrNoQuestions):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requestLanguage picks the response language from the lang query
// parameter, defaulting to English.
func requestLanguage(r *http.Request) i18n.Language {
	return i18n.ParseLanguage(r.URL.Query().Get("lang"))
}
