package entity

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Payment is the engine's record of the amount owed for a reservation.
// The payment gateway itself is external; the engine only reacts to its
// outcome events. One payment row per reservation, created pending
// alongside the hold.
type Payment struct {
	Base
	ReservationID uuid.UUID     `db:"reservation_id"`
	Amount        float64       `db:"amount"`
	Currency      string        `db:"currency"`
	Method        *string       `db:"method"`
	Status        PaymentStatus `db:"status"`
}
