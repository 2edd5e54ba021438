package repository

import (
	"albergue-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Bed         BedRepository
	Reservation ReservationRepository
	Payment     PaymentRepository
}

func NewRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Bed:         NewBedRepository(db, log),
		Reservation: NewReservationRepository(db, log),
		Payment:     NewPaymentRepository(db, log),
	}
}
