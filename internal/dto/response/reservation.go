package response

import (
	"time"

	"albergue-booking/internal/data/entity"
	"albergue-booking/pkg/utils"
)

type ReservationResponse struct {
	ID           string                   `json:"id"`
	Reference    string                   `json:"reference"`
	GuestRef     string                   `json:"guest_ref"`
	BedID        *string                  `json:"bed_id,omitempty"`
	CheckIn      string                   `json:"check_in"`
	CheckOut     string                   `json:"check_out"`
	Nights       int                      `json:"nights"`
	Status       entity.ReservationStatus `json:"status"`
	HoldDeadline time.Time                `json:"hold_deadline"`
	Payment      *PaymentResponse         `json:"payment,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
}

type PaymentResponse struct {
	ID            string               `json:"id"`
	ReservationID string               `json:"reservation_id"`
	Amount        float64              `json:"amount"`
	Currency      string               `json:"currency"`
	Method        *string              `json:"method,omitempty"`
	Status        entity.PaymentStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
}

// Helper converters
func ReservationToResponse(reservation *entity.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:           reservation.ID.String(),
		Reference:    reservation.Reference,
		GuestRef:     reservation.GuestRef,
		CheckIn:      utils.FormatDate(reservation.CheckIn),
		CheckOut:     utils.FormatDate(reservation.CheckOut),
		Nights:       reservation.Nights(),
		Status:       reservation.Status,
		HoldDeadline: reservation.HoldDeadline,
		CreatedAt:    reservation.CreatedAt,
	}
	if reservation.BedID != nil {
		id := reservation.BedID.String()
		resp.BedID = &id
	}
	return resp
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            payment.ID.String(),
		ReservationID: payment.ReservationID.String(),
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Method:        payment.Method,
		Status:        payment.Status,
		CreatedAt:     payment.CreatedAt,
	}
}
