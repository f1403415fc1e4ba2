package dto

// PlanResponseDTO is a plan resolved into the caller's language.
type PlanResponseDTO struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Features         []string `json:"features"`
	PriceRWF         int      `json:"price_rwf"`
	DurationDays     int      `json:"duration_days"`
	AttemptsIncluded *int     `json:"attempts_included,omitempty"`
}
