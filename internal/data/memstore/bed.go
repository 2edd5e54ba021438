package memstore

import (
	"context"
	"sort"
	"time"

	"albergue-booking/internal/data/entity"
	"albergue-booking/internal/data/repository"

	"github.com/google/uuid"
)

// Seed implements repository.BedRepository. Beds whose room and bed
// number already exist are skipped, mirroring the postgres
// ON CONFLICT DO NOTHING.
func (s bedStore) Seed(ctx context.Context, beds []*entity.Bed) (int, error) {
	defer s.lockState(ctx)()

	inserted := 0
	for _, bed := range beds {
		key := bedNumberKey(bed.RoomNumber, bed.BedNumber)
		if _, exists := s.bedsByNumber[key]; exists {
			continue
		}
		s.beds[bed.ID] = cloneBed(bed)
		s.bedsByNumber[key] = bed.ID
		inserted++
	}

	return inserted, nil
}

func (s bedStore) FindAll(ctx context.Context) ([]*entity.Bed, error) {
	defer s.lockState(ctx)()

	beds := make([]*entity.Bed, 0, len(s.beds))
	for _, bed := range s.beds {
		beds = append(beds, cloneBed(bed))
	}
	sortBeds(beds)

	return beds, nil
}

func (s bedStore) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bed, error) {
	defer s.lockState(ctx)()

	bed, exists := s.beds[id]
	if !exists {
		return nil, repository.ErrBedNotFound
	}

	return cloneBed(bed), nil
}

// FindByIDForUpdate is a plain read here: transactions are fully
// serialized by the store's transaction mutex, so row locking has
// nothing left to do.
func (s bedStore) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Bed, error) {
	return s.FindByID(ctx, id)
}

func (s bedStore) FindFreeForRange(ctx context.Context, checkIn, checkOut time.Time, filter repository.AvailabilityFilter) ([]*entity.Bed, error) {
	defer s.lockState(ctx)()

	var free []*entity.Bed
	for _, bed := range s.beds {
		if bed.Status == entity.BedStatusMaintenance {
			continue
		}
		if filter.RoomType != nil && bed.RoomType != *filter.RoomType {
			continue
		}
		if s.bedClaimedLocked(bed.ID, checkIn, checkOut) {
			continue
		}
		free = append(free, cloneBed(bed))
	}
	sortBeds(free)

	return free, nil
}

func (s bedStore) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BedStatus, heldUntil *time.Time) error {
	defer s.lockState(ctx)()

	bed, exists := s.beds[id]
	if !exists {
		return repository.ErrBedNotFound
	}

	bed.Status = status
	if heldUntil != nil {
		t := *heldUntil
		bed.HeldUntil = &t
	} else {
		bed.HeldUntil = nil
	}
	bed.UpdatedAt = time.Now()

	return nil
}

func (s bedStore) CountByStatus(ctx context.Context) (map[entity.BedStatus]int, error) {
	defer s.lockState(ctx)()

	counts := make(map[entity.BedStatus]int)
	for _, bed := range s.beds {
		counts[bed.Status]++
	}

	return counts, nil
}

// bedClaimedLocked reports whether any active reservation holds the bed
// for a range overlapping [checkIn, checkOut). Caller holds s.mu.
func (s *Store) bedClaimedLocked(bedID uuid.UUID, checkIn, checkOut time.Time) bool {
	for _, reservation := range s.reservations {
		if reservation.BedID == nil || *reservation.BedID != bedID {
			continue
		}
		if !reservation.Status.Active() {
			continue
		}
		if reservation.Overlaps(checkIn, checkOut) {
			return true
		}
	}
	return false
}

func sortBeds(beds []*entity.Bed) {
	sort.Slice(beds, func(i, j int) bool {
		if beds[i].RoomNumber != beds[j].RoomNumber {
			return beds[i].RoomNumber < beds[j].RoomNumber
		}
		return beds[i].BedNumber < beds[j].BedNumber
	})
}
