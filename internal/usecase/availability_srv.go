package usecase

import (
	"context"
	"fmt"
	"time"

	"albergue-booking/internal/data/entity"
	"albergue-booking/internal/data/repository"

	"go.uber.org/zap"
)

// AvailabilitySummary is the public availability count for a date
// range. Best effort under contention: the authoritative check happens
// again inside the hold transaction.
type AvailabilitySummary struct {
	TotalBeds     int
	AvailableBeds int
	OccupiedBeds  int
}

type AvailabilityService interface {
	// FindAvailable returns the beds free for [checkIn, checkOut),
	// ordered by room number then bed number. A room-type preference
	// narrows the result; if nothing of that type is free it falls back
	// to any free bed rather than failing.
	FindAvailable(ctx context.Context, checkIn, checkOut time.Time, preference *entity.RoomType) ([]*entity.Bed, error)

	Summary(ctx context.Context, checkIn, checkOut time.Time) (*AvailabilitySummary, error)
}

type availabilityService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo: repo,
		log:  log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) FindAvailable(ctx context.Context, checkIn, checkOut time.Time, preference *entity.RoomType) ([]*entity.Bed, error) {
	if err := ValidateDateRange(checkIn, checkOut); err != nil {
		return nil, err
	}

	beds, err := s.repo.Bed.FindFreeForRange(ctx, checkIn, checkOut, repository.AvailabilityFilter{RoomType: preference})
	if err != nil {
		return nil, fmt.Errorf("find available beds: %w", err)
	}

	// Preference is a tie-break, not a hard filter: fall back to any
	// free bed before reporting no availability.
	if len(beds) == 0 && preference != nil {
		s.log.Debug("No beds of preferred type free, falling back to any type",
			zap.String("preference", string(*preference)),
		)
		beds, err = s.repo.Bed.FindFreeForRange(ctx, checkIn, checkOut, repository.AvailabilityFilter{})
		if err != nil {
			return nil, fmt.Errorf("find available beds (fallback): %w", err)
		}
	}

	return beds, nil
}

func (s *availabilityService) Summary(ctx context.Context, checkIn, checkOut time.Time) (*AvailabilitySummary, error) {
	if err := ValidateDateRange(checkIn, checkOut); err != nil {
		return nil, err
	}

	all, err := s.repo.Bed.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("availability summary: %w", err)
	}

	free, err := s.repo.Bed.FindFreeForRange(ctx, checkIn, checkOut, repository.AvailabilityFilter{})
	if err != nil {
		return nil, fmt.Errorf("availability summary: %w", err)
	}

	maintenance := 0
	for _, bed := range all {
		if bed.Status == entity.BedStatusMaintenance {
			maintenance++
		}
	}

	return &AvailabilitySummary{
		TotalBeds:     len(all),
		AvailableBeds: len(free),
		OccupiedBeds:  len(all) - len(free) - maintenance,
	}, nil
}

// ValidateDateRange rejects empty and inverted ranges. Ranges are
// half-open, so a one-night stay has checkOut exactly one day after
// checkIn.
func ValidateDateRange(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return ErrInvalidDateRange
	}
	if !checkOut.After(checkIn) {
		return ErrInvalidDateRange
	}
	return nil
}
