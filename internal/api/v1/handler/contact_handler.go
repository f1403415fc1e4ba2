package handler

import (
	"encoding/json"
	"net/http"

	"tsinda/internal/api/v1/dto"
	"tsinda/internal/i18n"
	"tsinda/internal/middleware"
	"tsinda/internal/model"
	"tsinda/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ContactHandler serves the public contact form.
type ContactHandler struct {
	contactSvc service.ContactService
	translator *i18n.Translator
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactSvc service.ContactService, translator *i18n.Translator, v *validator.Validate, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		contactSvc: contactSvc,
		translator: translator,
		validate:   v,
		logger:     logger,
	}
}

// RegisterRoutes mounts v1 contact routes. The form is public; when a
// valid token is present the message is linked to the caller.
func (h *ContactHandler) RegisterRoutes(mux *http.ServeMux, optionalAuthMw func(http.Handler) http.Handler) {
	mux.Handle("/contact", optionalAuthMw(http.HandlerFunc(h.submit)))
}

func (h *ContactHandler) submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req dto.ContactRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	msg := &model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	if userID := middleware.UserID(r.Context()); userID != "" {
		msg.UserID = &userID
	}
	if err := h.contactSvc.Submit(r.Context(), msg); err != nil {
		writeError(w, http.StatusBadGateway, "failed to deliver message")
		return
	}

	lang := requestLanguage(r)
	writeJSON(w, http.StatusCreated, dto.ContactResponseDTO{
		ID:      msg.ID,
		Message: h.translator.T(lang, "contact.sent"),
	})
}
