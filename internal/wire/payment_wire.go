package wire

import (
	"albergue-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler) {
	// POST /api/payments/events - Payment channel reports an outcome
	r.Post("/api/payments/events", paymentHandler.PaymentEvent)
}
