package adaptor

import (
	"albergue-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Reservation  *ReservationHandler
	Payment      *PaymentHandler
	Availability *AvailabilityHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Reservation:  NewReservationHandler(service.Reservation, log),
		Payment:      NewPaymentHandler(service.Settlement, log),
		Availability: NewAvailabilityHandler(service.Availability, service.Inventory, log),
	}
}
