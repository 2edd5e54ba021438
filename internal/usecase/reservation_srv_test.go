package usecase_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"albergue-booking/internal/data/entity"
	"albergue-booking/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReservation(t *testing.T) {
	env := newTestEnv(t)

	reservation := env.reserve("pilgrim-1", 10, 13)

	assert.Equal(t, entity.ReservationStatusReserved, reservation.Status)
	assert.True(t, strings.HasPrefix(reservation.Reference, "RES-"))
	assert.Equal(t, 3, reservation.Nights())
	assert.Equal(t, baseTime.Add(2*time.Hour), reservation.HoldDeadline)

	bed := env.bed(reservation)
	assert.Equal(t, entity.BedStatusReserved, bed.Status)
	require.NotNil(t, bed.HeldUntil)
	assert.Equal(t, reservation.HoldDeadline, *bed.HeldUntil)

	payment := env.payment(reservation)
	assert.Equal(t, entity.PaymentStatusPending, payment.Status)
	assert.Equal(t, 3*bed.NightlyPrice, payment.Amount)
	assert.Equal(t, bed.Currency, payment.Currency)
}

func TestCreateReservationPrefersLowestRoom(t *testing.T) {
	env := newTestEnv(t)

	first := env.reserve("pilgrim-1", 10, 11)
	second := env.reserve("pilgrim-2", 10, 11)

	// Allocation walks room then bed number, so Dormitorio A fills
	// before anything else.
	assert.Equal(t, 1, env.bed(first).RoomNumber)
	assert.Equal(t, 1, env.bed(first).BedNumber)
	assert.Equal(t, 1, env.bed(second).RoomNumber)
	assert.Equal(t, 2, env.bed(second).BedNumber)
}

func TestCreateReservationRoomTypePreference(t *testing.T) {
	env := newTestEnv(t)

	private := entity.RoomTypePrivate
	reservation, err := env.svc.Reservation.Create(context.Background(), usecase.CreateReservationInput{
		GuestRef:           "couple-1",
		CheckIn:            date(10),
		CheckOut:           date(12),
		RoomTypePreference: &private,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RoomTypePrivate, env.bed(reservation).RoomType)
}

func TestCreateReservationPreferenceFallsBack(t *testing.T) {
	env := newTestEnv(t)

	// Claim both private rooms.
	private := entity.RoomTypePrivate
	for i := 0; i < 2; i++ {
		_, err := env.svc.Reservation.Create(context.Background(), usecase.CreateReservationInput{
			GuestRef:           "couple",
			CheckIn:            date(10),
			CheckOut:           date(12),
			RoomTypePreference: &private,
		})
		require.NoError(t, err)
	}

	// A third private request still gets a bed, just a dormitory one.
	reservation, err := env.svc.Reservation.Create(context.Background(), usecase.CreateReservationInput{
		GuestRef:           "couple-3",
		CheckIn:            date(10),
		CheckOut:           date(12),
		RoomTypePreference: &private,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoomTypeDormitory, env.bed(reservation).RoomType)
}

func TestCreateReservationNoAvailability(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < totalBeds; i++ {
		env.reserve("pilgrim", 10, 11)
	}

	_, err := env.svc.Reservation.Create(context.Background(), usecase.CreateReservationInput{
		GuestRef: "late-pilgrim",
		CheckIn:  date(10),
		CheckOut: date(11),
	})
	assert.ErrorIs(t, err, usecase.ErrNoAvailability)
}

func TestBackToBackStaysShareBed(t *testing.T) {
	env := newTestEnv(t)

	// Fill every bed for nights 10 and 11.
	for i := 0; i < totalBeds; i++ {
		env.reserve("pilgrim", 10, 12)
	}

	// Check-out day is free for the next guest: [10,12) and [12,14)
	// do not overlap.
	reservation, err := env.svc.Reservation.Create(context.Background(), usecase.CreateReservationInput{
		GuestRef: "next-wave",
		CheckIn:  date(12),
		CheckOut: date(14),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusReserved, reservation.Status)
}

func TestCreateReservationInvalidRange(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
	}{
		{"zero dates", time.Time{}, time.Time{}},
		{"same day", date(10), date(10)},
		{"inverted", date(12), date(10)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Reservation.Create(context.Background(), usecase.CreateReservationInput{
				GuestRef: "pilgrim",
				CheckIn:  tc.checkIn,
				CheckOut: tc.checkOut,
			})
			assert.ErrorIs(t, err, usecase.ErrInvalidDateRange)
		})
	}
}

func TestCancelReservation(t *testing.T) {
	env := newTestEnv(t)

	reservation := env.reserve("pilgrim-1", 10, 12)

	cancelled, err := env.svc.Reservation.Cancel(context.Background(), reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCancelled, cancelled.Status)

	assert.Equal(t, entity.BedStatusAvailable, env.bed(reservation).Status)
	assert.Equal(t, entity.PaymentStatusCancelled, env.payment(reservation).Status)

	// The freed bed is immediately reusable for the same range.
	again := env.reserve("pilgrim-2", 10, 12)
	assert.Equal(t, *reservation.BedID, *again.BedID)
}

func TestCancelRequiresReservedState(t *testing.T) {
	env := newTestEnv(t)

	reservation := env.reserve("pilgrim-1", 10, 12)
	env.confirm(reservation)

	_, err := env.svc.Reservation.Cancel(context.Background(), reservation.ID)
	assert.ErrorIs(t, err, usecase.ErrInvalidTransition)

	// Second cancel of an already cancelled reservation fails the same
	// way.
	other := env.reserve("pilgrim-2", 10, 12)
	_, err = env.svc.Reservation.Cancel(context.Background(), other.ID)
	require.NoError(t, err)
	_, err = env.svc.Reservation.Cancel(context.Background(), other.ID)
	assert.ErrorIs(t, err, usecase.ErrInvalidTransition)
}

func TestCheckInRequiresConfirmed(t *testing.T) {
	env := newTestEnv(t)

	reservation := env.reserve("pilgrim-1", 10, 12)

	// reserved, not yet paid
	_, err := env.svc.Reservation.CheckIn(context.Background(), reservation.ID)
	assert.ErrorIs(t, err, usecase.ErrInvalidTransition)
}

func TestCheckOutRequiresCheckedIn(t *testing.T) {
	env := newTestEnv(t)

	reservation := env.reserve("pilgrim-1", 10, 12)
	env.confirm(reservation)

	_, err := env.svc.Reservation.CheckOut(context.Background(), reservation.ID)
	assert.ErrorIs(t, err, usecase.ErrInvalidTransition)
}

func TestFullLifecycle(t *testing.T) {
	env := newTestEnv(t)

	reservation := env.reserve("pilgrim-1", 10, 12)
	confirmed := env.confirm(reservation)
	assert.Equal(t, entity.ReservationStatusConfirmed, confirmed.Status)
	assert.Equal(t, entity.BedStatusOccupied, env.bed(reservation).Status)

	checkedIn, err := env.svc.Reservation.CheckIn(context.Background(), reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCheckedIn, checkedIn.Status)
	assert.Equal(t, entity.BedStatusOccupied, env.bed(reservation).Status)

	checkedOut, err := env.svc.Reservation.CheckOut(context.Background(), reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusCheckedOut, checkedOut.Status)
	assert.Equal(t, entity.BedStatusAvailable, env.bed(reservation).Status)

	// A checked-out stay no longer blocks its date range.
	again := env.reserve("pilgrim-2", 10, 12)
	assert.Equal(t, entity.ReservationStatusReserved, again.Status)
}

func TestGetByReference(t *testing.T) {
	env := newTestEnv(t)

	reservation := env.reserve("pilgrim-1", 10, 12)

	found, err := env.svc.Reservation.GetByReference(context.Background(), reservation.Reference)
	require.NoError(t, err)
	assert.Equal(t, reservation.ID, found.ID)
}

func TestConcurrentCreateNeverDoubleBooks(t *testing.T) {
	env := newTestEnv(t)

	const requests = totalBeds + 12

	var wg sync.WaitGroup
	results := make([]*entity.Reservation, requests)
	errs := make([]error, requests)

	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = env.svc.Reservation.Create(context.Background(), usecase.CreateReservationInput{
				GuestRef: "pilgrim",
				CheckIn:  date(10),
				CheckOut: date(12),
			})
		}(i)
	}
	wg.Wait()

	claimed := make(map[uuid.UUID]bool)
	succeeded := 0
	for i := 0; i < requests; i++ {
		if errs[i] != nil {
			assert.ErrorIs(t, errs[i], usecase.ErrNoAvailability)
			continue
		}
		succeeded++
		require.NotNil(t, results[i].BedID)
		assert.False(t, claimed[*results[i].BedID], "bed handed to two reservations")
		claimed[*results[i].BedID] = true
	}

	assert.Equal(t, totalBeds, succeeded)
}
