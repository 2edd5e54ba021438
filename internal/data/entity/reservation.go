package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusReserved   ReservationStatus = "reserved"
	ReservationStatusConfirmed  ReservationStatus = "confirmed"
	ReservationStatusCheckedIn  ReservationStatus = "checked_in"
	ReservationStatusCheckedOut ReservationStatus = "checked_out"
	ReservationStatusCancelled  ReservationStatus = "cancelled"
	ReservationStatusExpired    ReservationStatus = "expired"
)

// Active reports whether the reservation still claims its bed for the
// booked date range. Active reservations are the ones the availability
// overlap check counts.
func (s ReservationStatus) Active() bool {
	switch s {
	case ReservationStatusReserved, ReservationStatusConfirmed, ReservationStatusCheckedIn:
		return true
	}
	return false
}

// Terminal reports whether the reservation can accept no further
// transitions.
func (s ReservationStatus) Terminal() bool {
	switch s {
	case ReservationStatusCheckedOut, ReservationStatusCancelled, ReservationStatusExpired:
		return true
	}
	return false
}

// Reservation is one booking. Dates are half-open: [CheckIn, CheckOut).
// A reservation starts as a hold on a bed and must be settled before
// HoldDeadline or the expiry sweep reclaims the bed.
type Reservation struct {
	Base
	Reference        string            `db:"reference"`
	GuestRef         string            `db:"guest_ref"`
	BedID            *uuid.UUID        `db:"bed_id"`
	CheckIn          time.Time         `db:"check_in"`
	CheckOut         time.Time         `db:"check_out"`
	Status           ReservationStatus `db:"status"`
	HoldDeadline     time.Time         `db:"hold_deadline"`
	CleanupProcessed bool              `db:"cleanup_processed"`
}

// Nights returns the number of nights booked under half-open semantics.
func (r *Reservation) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn) / (24 * time.Hour))
}

// Overlaps applies the half-open interval overlap test against another
// date range.
func (r *Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return r.CheckIn.Before(checkOut) && r.CheckOut.After(checkIn)
}
