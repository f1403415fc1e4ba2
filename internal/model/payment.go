package model

import "time"

// Payment methods supported by the checkout flow.
const (
	PaymentMethodMTNMobileMoney = "mtn_mobile_money"
	PaymentMethodAirtelMoney    = "airtel_money"
	PaymentMethodCard           = "card"
)

// Payment statuses. Only pending -> completed is reachable from the
// checkout sequence.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

// Payment records one checkout for a plan. AttemptID is the
// client-generated purchase attempt id that keys every step of the
// checkout sequence, so a retry after partial failure cannot
// double-charge or double-grant.
type Payment struct {
	ID            string    `db:"id" json:"id"`
	AttemptID     string    `db:"attempt_id" json:"attempt_id"`
	UserID        string    `db:"user_id" json:"user_id"`
	PlanID        string    `db:"plan_id" json:"plan_id"`
	AmountRWF     int       `db:"amount_rwf" json:"amount_rwf"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	PhoneNumber   *string   `db:"phone_number" json:"phone_number,omitempty"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
