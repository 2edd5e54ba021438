package usecase_test

import (
	"context"
	"testing"
	"time"

	"albergue-booking/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepExpiresOverdueHolds(t *testing.T) {
	env := newTestEnv(t)

	overdue := env.reserve("slow-payer", 10, 12)
	paid := env.reserve("fast-payer", 10, 12)
	env.confirm(paid)

	// Past both hold deadlines.
	env.clk.Advance(3 * time.Hour)

	expired, failed, err := env.svc.Sweeper.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, 0, failed)

	assert.Equal(t, entity.ReservationStatusExpired, env.reload(overdue).Status)
	assert.Equal(t, entity.BedStatusAvailable, env.bed(overdue).Status)
	assert.Equal(t, entity.PaymentStatusCancelled, env.payment(overdue).Status)

	// The confirmed stay is untouched.
	assert.Equal(t, entity.ReservationStatusConfirmed, env.reload(paid).Status)
	assert.Equal(t, entity.BedStatusOccupied, env.bed(paid).Status)
}

func TestSweepLeavesFreshHolds(t *testing.T) {
	env := newTestEnv(t)

	fresh := env.reserve("on-time", 10, 12)

	// Half the hold window: not yet due.
	env.clk.Advance(time.Hour)

	expired, failed, err := env.svc.Sweeper.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
	assert.Equal(t, 0, failed)
	assert.Equal(t, entity.ReservationStatusReserved, env.reload(fresh).Status)
}

func TestSweepIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	env.reserve("slow-payer", 10, 12)
	env.clk.Advance(3 * time.Hour)

	expired, _, err := env.svc.Sweeper.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	expired, _, err = env.svc.Sweeper.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}

func TestExpiredBedIsReusable(t *testing.T) {
	env := newTestEnv(t)

	// Fill the house, let every hold lapse.
	for i := 0; i < totalBeds; i++ {
		env.reserve("no-show", 10, 12)
	}
	env.clk.Advance(3 * time.Hour)

	expired, failed, err := env.svc.Sweeper.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, totalBeds, expired)
	assert.Equal(t, 0, failed)

	// The whole catalog is bookable again for the same dates.
	for i := 0; i < totalBeds; i++ {
		env.reserve("second-wave", 10, 12)
	}
}

func TestSweeperLoopFiresOnInterval(t *testing.T) {
	env := newTestEnv(t)

	overdue := env.reserve("slow-payer", 10, 12)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env.svc.Sweeper.Start(ctx)
	defer env.svc.Sweeper.Stop()

	env.clk.WaitForTickers(1)

	// Cross the hold deadline and one sweep interval, then wait for
	// the loop to pick the reservation up.
	env.clk.Advance(3 * time.Hour)

	require.Eventually(t, func() bool {
		return env.reload(overdue).Status == entity.ReservationStatusExpired
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, entity.BedStatusAvailable, env.bed(overdue).Status)
}
