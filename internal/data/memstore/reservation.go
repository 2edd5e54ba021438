package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"albergue-booking/internal/data/entity"
	"albergue-booking/internal/data/repository"

	"github.com/google/uuid"
)

// Create rejects duplicate references the way the postgres unique
// index on reference does.
func (s reservationStore) Create(ctx context.Context, reservation *entity.Reservation) error {
	defer s.lockState(ctx)()

	if _, exists := s.refs[reservation.Reference]; exists {
		return fmt.Errorf("reservation reference %s already exists", reservation.Reference)
	}

	s.reservations[reservation.ID] = cloneReservation(reservation)
	s.refs[reservation.Reference] = reservation.ID

	return nil
}

func (s reservationStore) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	defer s.lockState(ctx)()

	reservation, exists := s.reservations[id]
	if !exists {
		return nil, repository.ErrReservationNotFound
	}

	return cloneReservation(reservation), nil
}

// FindByIDForUpdate is a plain read, same as the bed variant: the
// transaction mutex already serializes writers.
func (s reservationStore) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return s.FindByID(ctx, id)
}

func (s reservationStore) FindByReference(ctx context.Context, reference string) (*entity.Reservation, error) {
	defer s.lockState(ctx)()

	id, exists := s.refs[reference]
	if !exists {
		return nil, repository.ErrReservationNotFound
	}

	return cloneReservation(s.reservations[id]), nil
}

func (s reservationStore) CountActiveOverlapping(ctx context.Context, bedID uuid.UUID, checkIn, checkOut time.Time) (int64, error) {
	defer s.lockState(ctx)()

	var count int64
	for _, reservation := range s.reservations {
		if reservation.BedID == nil || *reservation.BedID != bedID {
			continue
		}
		if reservation.Status.Active() && reservation.Overlaps(checkIn, checkOut) {
			count++
		}
	}

	return count, nil
}

func (s reservationStore) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ReservationStatus) (bool, error) {
	defer s.lockState(ctx)()

	reservation, exists := s.reservations[id]
	if !exists || reservation.Status != from {
		return false, nil
	}

	reservation.Status = to
	reservation.UpdatedAt = time.Now()

	return true, nil
}

func (s reservationStore) MarkExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	defer s.lockState(ctx)()

	reservation, exists := s.reservations[id]
	if !exists || reservation.Status != entity.ReservationStatusReserved {
		return false, nil
	}

	reservation.Status = entity.ReservationStatusExpired
	reservation.CleanupProcessed = true
	reservation.UpdatedAt = time.Now()

	return true, nil
}

func (s reservationStore) FindDueForExpiry(ctx context.Context, now time.Time) ([]*entity.Reservation, error) {
	defer s.lockState(ctx)()

	var due []*entity.Reservation
	for _, reservation := range s.reservations {
		if reservation.Status != entity.ReservationStatusReserved {
			continue
		}
		if reservation.CleanupProcessed {
			continue
		}
		if reservation.HoldDeadline.Before(now) {
			due = append(due, cloneReservation(reservation))
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].HoldDeadline.Before(due[j].HoldDeadline)
	})

	return due, nil
}
