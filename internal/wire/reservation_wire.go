package wire

import (
	"albergue-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReservation(r chi.Router, reservationHandler *adaptor.ReservationHandler) {
	r.Route("/api/reservations", func(r chi.Router) {
		// POST /api/reservations - Place a hold on a free bed
		r.Post("/", reservationHandler.CreateReservation)

		// GET /api/reservations/{id} - Look up by UUID or RES- reference
		r.Get("/{id}", reservationHandler.GetReservation)

		// POST /api/reservations/{id}/cancel - Cancel before payment
		r.Post("/{id}/cancel", reservationHandler.CancelReservation)

		// POST /api/reservations/{id}/checkin - Staff check-in on arrival
		r.Post("/{id}/checkin", reservationHandler.CheckIn)

		// POST /api/reservations/{id}/checkout - Staff check-out on departure
		r.Post("/{id}/checkout", reservationHandler.CheckOut)
	})
}
