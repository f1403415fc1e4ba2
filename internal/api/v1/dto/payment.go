package dto

// CheckoutRequestDTO starts (or retries) a plan purchase. AttemptID is
// optional: clients that generate one can safely retry a failed
// checkout with the same id. PhoneNumber is required for mobile-money
// methods and must look like a local MTN/Airtel number.
type CheckoutRequestDTO struct {
	PlanID        string `json:"plan_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=mtn_mobile_money airtel_money card"`
	PhoneNumber   string `json:"phone_number" validate:"omitempty,e164|numeric"`
	AttemptID     string `json:"attempt_id" validate:"omitempty,uuid4"`
}

// CheckoutResponseDTO reports a finished checkout.
type CheckoutResponseDTO struct {
	PaymentID     string `json:"payment_id"`
	AttemptID     string `json:"attempt_id"`
	Status        string `json:"status"`
	PlanID        string `json:"plan_id"`
	PlanExpiresAt string `json:"plan_expires_at"`
	Message       string `json:"message"`
}
