package repository

import "errors"

var (
	// ErrBedNotFound is returned when a bed id is unknown
	ErrBedNotFound = errors.New("repository: bed not found")

	// ErrReservationNotFound is returned when a reservation id or reference is unknown
	ErrReservationNotFound = errors.New("repository: reservation not found")

	// ErrPaymentNotFound is returned when a reservation has no payment record
	ErrPaymentNotFound = errors.New("repository: payment not found")
)
