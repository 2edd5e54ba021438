package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2026, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	reservation := &Reservation{CheckIn: day(10), CheckOut: day(13)}

	cases := []struct {
		name     string
		checkIn  int
		checkOut int
		want     bool
	}{
		{"identical", 10, 13, true},
		{"straddles start", 8, 11, true},
		{"straddles end", 12, 15, true},
		{"contained", 11, 12, true},
		{"contains", 9, 14, true},
		{"ends at check-in", 8, 10, false},
		{"starts at check-out", 13, 15, false},
		{"well before", 1, 5, false},
		{"well after", 20, 25, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reservation.Overlaps(day(tc.checkIn), day(tc.checkOut)))
		})
	}
}

func TestNights(t *testing.T) {
	assert.Equal(t, 1, (&Reservation{CheckIn: day(10), CheckOut: day(11)}).Nights())
	assert.Equal(t, 3, (&Reservation{CheckIn: day(10), CheckOut: day(13)}).Nights())
}

func TestStatusSets(t *testing.T) {
	active := []ReservationStatus{ReservationStatusReserved, ReservationStatusConfirmed, ReservationStatusCheckedIn}
	terminal := []ReservationStatus{ReservationStatusCheckedOut, ReservationStatusCancelled, ReservationStatusExpired}

	for _, s := range active {
		assert.True(t, s.Active(), string(s))
		assert.False(t, s.Terminal(), string(s))
	}
	for _, s := range terminal {
		assert.False(t, s.Active(), string(s))
		assert.True(t, s.Terminal(), string(s))
	}
}
