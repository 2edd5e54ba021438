package usecase

import (
	"context"
	"errors"
	"fmt"

	"albergue-booking/internal/data/entity"
	"albergue-booking/internal/data/repository"
	"albergue-booking/pkg/database"
	"albergue-booking/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentOutcome is the result reported by the payment channel for a
// reservation's pending payment.
type PaymentOutcome struct {
	Success bool
	Amount  float64
	Method  string
}

// SettlementService applies payment outcomes to reservations. A
// successful outcome confirms the hold; a failed one records the
// failure and leaves the hold in place so the guest can retry until
// the hold deadline.
type SettlementService interface {
	Settle(ctx context.Context, reservationID uuid.UUID, outcome PaymentOutcome) (*entity.Reservation, error)
}

type settlementService struct {
	repo    *repository.Repository
	txm     database.TxManager
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewSettlementService(
	repo *repository.Repository,
	txm database.TxManager,
	m *metrics.Metrics,
	log *zap.Logger,
) SettlementService {
	return &settlementService{
		repo:    repo,
		txm:     txm,
		metrics: m,
		log:     log.With(zap.String("service", "settlement")),
	}
}

func (s *settlementService) Settle(ctx context.Context, reservationID uuid.UUID, outcome PaymentOutcome) (*entity.Reservation, error) {
	var result *entity.Reservation

	err := s.txm.Do(ctx, func(ctx context.Context) error {
		reservation, err := s.repo.Reservation.FindByIDForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}

		if !outcome.Success {
			// The reservation keeps its hold; only the payment record
			// moves. Settling a reservation that already left reserved
			// is reported as a conflict either way.
			if reservation.Status != entity.ReservationStatusReserved {
				return fmt.Errorf("%w: reservation %s is %s",
					ErrSettlementConflict, reservation.Reference, reservation.Status)
			}

			var method *string
			if outcome.Method != "" {
				method = &outcome.Method
			}
			if _, err := s.repo.Payment.ResolvePending(ctx, reservation.ID, entity.PaymentStatusFailed, method); err != nil {
				return err
			}

			result = reservation
			return nil
		}

		ok, err := s.repo.Reservation.TransitionStatus(ctx, reservation.ID,
			entity.ReservationStatusReserved, entity.ReservationStatusConfirmed)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: reservation %s is %s",
				ErrSettlementConflict, reservation.Reference, reservation.Status)
		}

		if reservation.BedID != nil {
			if err := s.repo.Bed.UpdateStatus(ctx, *reservation.BedID, entity.BedStatusOccupied, nil); err != nil {
				return err
			}
		}

		var method *string
		if outcome.Method != "" {
			method = &outcome.Method
		}
		if _, err := s.repo.Payment.ResolvePending(ctx, reservation.ID, entity.PaymentStatusCompleted, method); err != nil {
			return err
		}

		reservation.Status = entity.ReservationStatusConfirmed
		result = reservation

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSettlementConflict) {
			s.metrics.Settlements.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	if outcome.Success {
		s.metrics.Settlements.WithLabelValues("confirmed").Inc()
		s.log.Info("Reservation confirmed",
			zap.String("reservation_id", reservationID.String()),
			zap.Float64("amount", outcome.Amount),
		)
	} else {
		s.metrics.Settlements.WithLabelValues("payment_failed").Inc()
		s.log.Warn("Payment failed, hold kept",
			zap.String("reservation_id", reservationID.String()),
		)
	}

	return result, nil
}
