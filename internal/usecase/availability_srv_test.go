package usecase_test

import (
	"context"
	"testing"

	"albergue-booking/internal/data/entity"
	"albergue-booking/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAvailableExcludesOverlapping(t *testing.T) {
	env := newTestEnv(t)

	reservation := env.reserve("pilgrim-1", 10, 13)

	cases := []struct {
		name     string
		checkIn  int
		checkOut int
		expected int
	}{
		{"identical range", 10, 13, totalBeds - 1},
		{"straddles start", 9, 11, totalBeds - 1},
		{"straddles end", 12, 15, totalBeds - 1},
		{"contained", 11, 12, totalBeds - 1},
		{"ends at check-in", 8, 10, totalBeds},
		{"starts at check-out", 13, 15, totalBeds},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			beds, err := env.svc.Availability.FindAvailable(context.Background(), date(tc.checkIn), date(tc.checkOut), nil)
			require.NoError(t, err)
			assert.Len(t, beds, tc.expected)

			if tc.expected == totalBeds-1 {
				for _, bed := range beds {
					assert.NotEqual(t, *reservation.BedID, bed.ID)
				}
			}
		})
	}
}

func TestFindAvailableRoomTypeFilter(t *testing.T) {
	env := newTestEnv(t)

	private := entity.RoomTypePrivate
	beds, err := env.svc.Availability.FindAvailable(context.Background(), date(10), date(12), &private)
	require.NoError(t, err)

	require.Len(t, beds, 2)
	for _, bed := range beds {
		assert.Equal(t, entity.RoomTypePrivate, bed.RoomType)
	}
}

func TestFindAvailableOrdering(t *testing.T) {
	env := newTestEnv(t)

	beds, err := env.svc.Availability.FindAvailable(context.Background(), date(10), date(12), nil)
	require.NoError(t, err)
	require.Len(t, beds, totalBeds)

	for i := 1; i < len(beds); i++ {
		prev, cur := beds[i-1], beds[i]
		inOrder := prev.RoomNumber < cur.RoomNumber ||
			(prev.RoomNumber == cur.RoomNumber && prev.BedNumber < cur.BedNumber)
		assert.True(t, inOrder, "beds out of (room, bed) order at index %d", i)
	}
}

func TestAvailabilitySummary(t *testing.T) {
	env := newTestEnv(t)

	env.reserve("pilgrim-1", 10, 12)
	env.reserve("pilgrim-2", 10, 12)

	summary, err := env.svc.Availability.Summary(context.Background(), date(10), date(12))
	require.NoError(t, err)

	assert.Equal(t, totalBeds, summary.TotalBeds)
	assert.Equal(t, totalBeds-2, summary.AvailableBeds)
	assert.Equal(t, 2, summary.OccupiedBeds)
}

func TestAvailabilityInvalidRange(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Availability.FindAvailable(context.Background(), date(12), date(10), nil)
	assert.ErrorIs(t, err, usecase.ErrInvalidDateRange)
}

func TestOccupancyStats(t *testing.T) {
	env := newTestEnv(t)

	held := env.reserve("pilgrim-1", 10, 12)
	confirmed := env.reserve("pilgrim-2", 10, 12)
	env.confirm(confirmed)
	_ = held

	stats, err := env.svc.Inventory.OccupancyStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, totalBeds-2, stats.Available)
	assert.Equal(t, 1, stats.Reserved)
	assert.Equal(t, 1, stats.Occupied)
	assert.Equal(t, 0, stats.Maintenance)
	assert.InDelta(t, 1.0/float64(totalBeds), stats.OccupancyRate, 1e-9)
}

func TestSeedIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	// newTestEnv already seeded once.
	inserted, err := env.svc.Inventory.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	beds, err := env.svc.Inventory.ListBeds(context.Background())
	require.NoError(t, err)
	assert.Len(t, beds, totalBeds)
}
