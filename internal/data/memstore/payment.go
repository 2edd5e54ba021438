package memstore

import (
	"context"
	"time"

	"albergue-booking/internal/data/entity"
	"albergue-booking/internal/data/repository"

	"github.com/google/uuid"
)

func (s paymentStore) Create(ctx context.Context, payment *entity.Payment) error {
	defer s.lockState(ctx)()

	s.payments[payment.ReservationID] = clonePayment(payment)

	return nil
}

func (s paymentStore) FindByReservationID(ctx context.Context, reservationID uuid.UUID) (*entity.Payment, error) {
	defer s.lockState(ctx)()

	payment, exists := s.payments[reservationID]
	if !exists {
		return nil, repository.ErrPaymentNotFound
	}

	return clonePayment(payment), nil
}

func (s paymentStore) ResolvePending(ctx context.Context, reservationID uuid.UUID, to entity.PaymentStatus, method *string) (bool, error) {
	defer s.lockState(ctx)()

	payment, exists := s.payments[reservationID]
	if !exists {
		return false, nil
	}
	// Failed payments stay retryable; completed and cancelled are
	// terminal.
	if payment.Status != entity.PaymentStatusPending && payment.Status != entity.PaymentStatusFailed {
		return false, nil
	}

	payment.Status = to
	if method != nil {
		m := *method
		payment.Method = &m
	}
	payment.UpdatedAt = time.Now()

	return true, nil
}
