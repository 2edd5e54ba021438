package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"albergue-booking/internal/data/entity"
	"albergue-booking/internal/data/repository"
	"albergue-booking/pkg/clock"
	"albergue-booking/pkg/database"
	"albergue-booking/pkg/metrics"
	"albergue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateReservationInput struct {
	GuestRef           string
	CheckIn            time.Time
	CheckOut           time.Time
	RoomTypePreference *entity.RoomType
}

// ReservationService owns the reservation state machine. Every
// operation that changes reservation state also writes the matching
// bed state inside the same transaction; nothing else in the service
// is allowed to touch bed status.
type ReservationService interface {
	// Create places a time-bounded hold on a free bed and returns the
	// reservation in state reserved with its hold deadline set.
	Create(ctx context.Context, input CreateReservationInput) (*entity.Reservation, error)

	Get(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	GetByReference(ctx context.Context, reference string) (*entity.Reservation, error)
	GetPayment(ctx context.Context, reservationID uuid.UUID) (*entity.Payment, error)

	// Cancel is the explicit guest/staff exit before payment:
	// reserved → cancelled, bed freed, pending payment cancelled.
	Cancel(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)

	// CheckIn is the staff action on arrival: confirmed → checked_in.
	CheckIn(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)

	// CheckOut is the staff action on departure: checked_in →
	// checked_out, bed back to available.
	CheckOut(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
}

type reservationService struct {
	repo         *repository.Repository
	txm          database.TxManager
	clk          clock.Clock
	availability AvailabilityService
	metrics      *metrics.Metrics
	holdDuration time.Duration
	log          *zap.Logger
}

func NewReservationService(
	repo *repository.Repository,
	txm database.TxManager,
	clk clock.Clock,
	availability AvailabilityService,
	m *metrics.Metrics,
	holdDuration time.Duration,
	log *zap.Logger,
) ReservationService {
	return &reservationService{
		repo:         repo,
		txm:          txm,
		clk:          clk,
		availability: availability,
		metrics:      m,
		holdDuration: holdDuration,
		log:          log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) Create(ctx context.Context, input CreateReservationInput) (*entity.Reservation, error) {
	if err := ValidateDateRange(input.CheckIn, input.CheckOut); err != nil {
		return nil, err
	}
	if input.GuestRef == "" {
		return nil, fmt.Errorf("guest reference is required")
	}

	// Candidate pick is advisory. The bed can be taken between this
	// read and the hold transaction, so availability is re-checked on
	// the locked bed row inside tryHold and losing the race here just
	// moves on to the next candidate.
	candidates, err := s.availability.FindAvailable(ctx, input.CheckIn, input.CheckOut, input.RoomTypePreference)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoAvailability
	}

	for _, bed := range candidates {
		reservation, err := s.tryHold(ctx, bed, input)
		if err == nil {
			s.metrics.ReservationsCreated.Inc()
			s.log.Info("Reservation created",
				zap.String("reference", reservation.Reference),
				zap.String("guest_ref", reservation.GuestRef),
				zap.String("bed_id", bed.ID.String()),
				zap.Time("hold_deadline", reservation.HoldDeadline),
			)
			return reservation, nil
		}
		if errors.Is(err, ErrBedUnavailable) {
			continue
		}
		return nil, err
	}

	return nil, ErrNoAvailability
}

// tryHold writes the hold for one candidate bed as a single atomic
// unit: lock the bed row, re-run the overlap check, create the
// reservation, flip the bed to reserved, open the pending payment.
func (s *reservationService) tryHold(ctx context.Context, candidate *entity.Bed, input CreateReservationInput) (*entity.Reservation, error) {
	var reservation *entity.Reservation

	err := s.txm.Do(ctx, func(ctx context.Context) error {
		bed, err := s.repo.Bed.FindByIDForUpdate(ctx, candidate.ID)
		if err != nil {
			return err
		}
		if bed.Status == entity.BedStatusMaintenance {
			return ErrBedUnavailable
		}

		overlapping, err := s.repo.Reservation.CountActiveOverlapping(ctx, bed.ID, input.CheckIn, input.CheckOut)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return fmt.Errorf("%w: bed %d-%d already claimed", ErrBedUnavailable, bed.RoomNumber, bed.BedNumber)
		}

		now := s.clk.Now()
		deadline := now.Add(s.holdDuration)
		bedID := bed.ID

		reservation = &entity.Reservation{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Reference:    utils.GenerateReference(now),
			GuestRef:     input.GuestRef,
			BedID:        &bedID,
			CheckIn:      input.CheckIn,
			CheckOut:     input.CheckOut,
			Status:       entity.ReservationStatusReserved,
			HoldDeadline: deadline,
		}

		if err := s.repo.Reservation.Create(ctx, reservation); err != nil {
			return err
		}
		if err := s.repo.Bed.UpdateStatus(ctx, bed.ID, entity.BedStatusReserved, &deadline); err != nil {
			return err
		}

		nights := reservation.Nights()
		payment := &entity.Payment{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			ReservationID: reservation.ID,
			Amount:        float64(nights) * bed.NightlyPrice,
			Currency:      bed.Currency,
			Status:        entity.PaymentStatusPending,
		}

		return s.repo.Payment.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

func (s *reservationService) Get(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return s.repo.Reservation.FindByID(ctx, id)
}

func (s *reservationService) GetByReference(ctx context.Context, reference string) (*entity.Reservation, error) {
	return s.repo.Reservation.FindByReference(ctx, reference)
}

func (s *reservationService) GetPayment(ctx context.Context, reservationID uuid.UUID) (*entity.Payment, error) {
	return s.repo.Payment.FindByReservationID(ctx, reservationID)
}

func (s *reservationService) Cancel(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	reservation, err := s.transition(ctx, id,
		entity.ReservationStatusReserved, entity.ReservationStatusCancelled,
		entity.BedStatusAvailable,
		func(ctx context.Context, reservation *entity.Reservation) error {
			_, err := s.repo.Payment.ResolvePending(ctx, reservation.ID, entity.PaymentStatusCancelled, nil)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	s.metrics.Cancellations.Inc()
	s.log.Info("Reservation cancelled", zap.String("reference", reservation.Reference))

	return reservation, nil
}

func (s *reservationService) CheckIn(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	reservation, err := s.transition(ctx, id,
		entity.ReservationStatusConfirmed, entity.ReservationStatusCheckedIn,
		entity.BedStatusOccupied,
		nil,
	)
	if err != nil {
		return nil, err
	}

	s.log.Info("Guest checked in", zap.String("reference", reservation.Reference))

	return reservation, nil
}

func (s *reservationService) CheckOut(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	reservation, err := s.transition(ctx, id,
		entity.ReservationStatusCheckedIn, entity.ReservationStatusCheckedOut,
		entity.BedStatusAvailable,
		nil,
	)
	if err != nil {
		return nil, err
	}

	s.log.Info("Guest checked out", zap.String("reference", reservation.Reference))

	return reservation, nil
}

// transition applies one state-machine edge atomically: lock the
// reservation, verify the source state, move reservation and bed
// together, then run any extra step inside the same transaction.
func (s *reservationService) transition(
	ctx context.Context,
	id uuid.UUID,
	from, to entity.ReservationStatus,
	bedStatus entity.BedStatus,
	extra func(ctx context.Context, reservation *entity.Reservation) error,
) (*entity.Reservation, error) {
	var result *entity.Reservation

	err := s.txm.Do(ctx, func(ctx context.Context) error {
		reservation, err := s.repo.Reservation.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if reservation.Status != from {
			return fmt.Errorf("%w: reservation %s is %s, expected %s",
				ErrInvalidTransition, reservation.Reference, reservation.Status, from)
		}

		ok, err := s.repo.Reservation.TransitionStatus(ctx, id, from, to)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: reservation %s left %s concurrently",
				ErrInvalidTransition, reservation.Reference, from)
		}

		if reservation.BedID != nil {
			if err := s.repo.Bed.UpdateStatus(ctx, *reservation.BedID, bedStatus, nil); err != nil {
				return err
			}
		}

		if extra != nil {
			if err := extra(ctx, reservation); err != nil {
				return err
			}
		}

		reservation.Status = to
		result = reservation

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
