package usecase

import "errors"

var (
	// ErrNoAvailability is returned when no bed in the catalog can take
	// the requested date range. Recoverable: the caller retries with
	// different dates.
	ErrNoAvailability = errors.New("no beds available for the requested dates")

	// ErrBedUnavailable is returned when a specific bed turned out to be
	// claimed for overlapping dates, typically because a concurrent
	// request won the race inside the hold transaction.
	ErrBedUnavailable = errors.New("bed is not available for the requested dates")

	// ErrInvalidTransition is returned when an operation is attempted
	// on a reservation that is not in the transition's source state.
	ErrInvalidTransition = errors.New("invalid reservation state transition")

	// ErrSettlementConflict is returned when a payment success arrives
	// for a reservation that is no longer settleable (expired,
	// cancelled, or already settled). Never swallowed: money moved and
	// the caller must reconcile.
	ErrSettlementConflict = errors.New("reservation can no longer be settled")

	// ErrInvalidDateRange is returned when check-out is not after
	// check-in.
	ErrInvalidDateRange = errors.New("check-out date must be after check-in date")
)
