package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"tsinda/internal/api/v1/dto"
	"tsinda/internal/middleware"
	"tsinda/internal/model"
	"tsinda/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// PaymentHandler drives the mock checkout flow.
type PaymentHandler struct {
	purchaseSvc service.PurchaseService
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(purchaseSvc service.PurchaseService, v *validator.Validate, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{purchaseSvc: purchaseSvc, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 payment routes.
func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/payments/checkout", authMw(http.HandlerFunc(h.checkout)))
}

func (h *PaymentHandler) checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID := middleware.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req dto.CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}
	// Mobile-money methods need a number to bill; cards do not.
	var phone *string
	if req.PaymentMethod != model.PaymentMethodCard {
		if req.PhoneNumber == "" {
			writeError(w, http.StatusBadRequest, "phone_number is required for mobile money payments")
			return
		}
		phone = &req.PhoneNumber
	}

	payment, userPlan, err := h.purchaseSvc.Checkout(r.Context(), userID, service.CheckoutInput{
		AttemptID:     req.AttemptID,
		PlanID:        req.PlanID,
		PaymentMethod: req.PaymentMethod,
		PhoneNumber:   phone,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CheckoutResponseDTO{
		PaymentID:     payment.ID,
		AttemptID:     payment.AttemptID,
		Status:        payment.Status,
		PlanID:        userPlan.PlanID,
		PlanExpiresAt: userPlan.ExpiresAt.Format(time.RFC3339),
		Message:       "plan activated",
	})
}
