package usecase_test

import (
	"context"
	"testing"
	"time"

	"albergue-booking/internal/data/entity"
	"albergue-booking/internal/data/memstore"
	"albergue-booking/internal/data/repository"
	"albergue-booking/internal/usecase"
	"albergue-booking/pkg/clock"
	"albergue-booking/pkg/metrics"
	"albergue-booking/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// The seed catalog: two dormitories (10 + 6 beds) and two private
// rooms (1 bed each).
const totalBeds = 18

var baseTime = time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	t     *testing.T
	store *memstore.Store
	repo  *repository.Repository
	clk   *clock.FakeClock
	svc   *usecase.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memstore.New()
	repo := store.Repositories()
	clk := clock.Fake(baseTime)

	config := &utils.Config{
		Engine: utils.EngineConfig{
			HoldDuration:  2 * time.Hour,
			SweepInterval: 5 * time.Minute,
		},
	}

	m := metrics.NewWith(prometheus.NewRegistry(), "test")
	svc := usecase.NewService(repo, store, clk, m, config, zap.NewNop())

	_, err := svc.Inventory.Seed(context.Background())
	require.NoError(t, err)

	return &testEnv{t: t, store: store, repo: repo, clk: clk, svc: svc}
}

// date returns midnight UTC on the given day of June 2026.
func date(day int) time.Time {
	return time.Date(2026, time.June, day, 0, 0, 0, 0, time.UTC)
}

// reserve places a hold and fails the test if it cannot.
func (e *testEnv) reserve(guest string, checkIn, checkOut int) *entity.Reservation {
	e.t.Helper()

	reservation, err := e.svc.Reservation.Create(context.Background(), usecase.CreateReservationInput{
		GuestRef: guest,
		CheckIn:  date(checkIn),
		CheckOut: date(checkOut),
	})
	require.NoError(e.t, err)

	return reservation
}

// confirm settles the pending payment successfully.
func (e *testEnv) confirm(reservation *entity.Reservation) *entity.Reservation {
	e.t.Helper()

	payment, err := e.svc.Reservation.GetPayment(context.Background(), reservation.ID)
	require.NoError(e.t, err)

	confirmed, err := e.svc.Settlement.Settle(context.Background(), reservation.ID, usecase.PaymentOutcome{
		Success: true,
		Amount:  payment.Amount,
		Method:  "card",
	})
	require.NoError(e.t, err)

	return confirmed
}

// bed fetches the current state of the reservation's bed.
func (e *testEnv) bed(reservation *entity.Reservation) *entity.Bed {
	e.t.Helper()

	require.NotNil(e.t, reservation.BedID)
	bed, err := e.repo.Bed.FindByID(context.Background(), *reservation.BedID)
	require.NoError(e.t, err)

	return bed
}

// payment fetches the reservation's payment record.
func (e *testEnv) payment(reservation *entity.Reservation) *entity.Payment {
	e.t.Helper()

	payment, err := e.repo.Payment.FindByReservationID(context.Background(), reservation.ID)
	require.NoError(e.t, err)

	return payment
}

// reload fetches the current state of the reservation.
func (e *testEnv) reload(reservation *entity.Reservation) *entity.Reservation {
	e.t.Helper()

	current, err := e.repo.Reservation.FindByID(context.Background(), reservation.ID)
	require.NoError(e.t, err)

	return current
}
