package handler

import (
	"net/http"
	"strings"

	"tsinda/internal/api/v1/dto"
	"tsinda/internal/i18n"
	"tsinda/internal/model"
	"tsinda/internal/service"

	"github.com/rs/zerolog"
)

// PlanHandler serves the plan catalogue.
type PlanHandler struct {
	planSvc service.PlanService
	logger  zerolog.Logger
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planSvc service.PlanService, logger zerolog.Logger) *PlanHandler {
	return &PlanHandler{planSvc: planSvc, logger: logger}
}

// RegisterRoutes mounts v1 plan routes. The catalogue is public.
func (h *PlanHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/plans", http.HandlerFunc(h.listPlans))
	mux.Handle("/plans/", http.HandlerFunc(h.getPlan))
}

func (h *PlanHandler) listPlans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	lang := requestLanguage(r)

	plans, err := h.planSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]dto.PlanResponseDTO, 0, len(plans))
	for _, p := range plans {
		resp = append(resp, planResponse(&p, lang))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PlanHandler) getPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	planID := strings.TrimPrefix(r.URL.Path, "/plans/")
	if planID == "" || strings.Contains(planID, "/") {
		http.NotFound(w, r)
		return
	}

	plan, err := h.planSvc.Get(r.Context(), planID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, planResponse(plan, requestLanguage(r)))
}

func planResponse(p *model.Plan, lang i18n.Language) dto.PlanResponseDTO {
	return dto.PlanResponseDTO{
		ID:               p.ID,
		Name:             p.Name.Resolve(lang),
		Description:      p.Description.Resolve(lang),
		Features:         p.Features.Resolve(lang),
		PriceRWF:         p.PriceRWF,
		DurationDays:     p.DurationDays,
		AttemptsIncluded: p.AttemptsIncluded,
	}
}
