package wire_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"albergue-booking/internal/data/memstore"
	"albergue-booking/internal/dto/response"
	"albergue-booking/internal/wire"
	"albergue-booking/pkg/clock"
	"albergue-booking/pkg/metrics"
	"albergue-booking/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testApp struct {
	t   *testing.T
	app *wire.App
	clk *clock.FakeClock
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := memstore.New()
	clk := clock.Fake(time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC))

	config := &utils.Config{
		Engine: utils.EngineConfig{
			HoldDuration:  2 * time.Hour,
			SweepInterval: 5 * time.Minute,
		},
		Metrics: utils.MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}

	m := metrics.NewWith(prometheus.NewRegistry(), "test")
	app := wire.Wiring(store.Repositories(), store, clk, m, config, zap.NewNop())

	_, err := app.Service.Inventory.Seed(context.Background())
	require.NoError(t, err)

	return &testApp{t: t, app: app, clk: clk}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func (a *testApp) do(method, path string, body any) (int, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	a.app.Router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec.Code, env
}

func (a *testApp) createReservation(guest, checkIn, checkOut string) response.ReservationResponse {
	a.t.Helper()

	code, env := a.do(http.MethodPost, "/api/reservations", map[string]any{
		"guest_ref": guest,
		"check_in":  checkIn,
		"check_out": checkOut,
	})
	require.Equal(a.t, http.StatusCreated, code, "create reservation: %s", env.Message)

	var reservation response.ReservationResponse
	require.NoError(a.t, json.Unmarshal(env.Data, &reservation))

	return reservation
}

func TestCreateAndFetchReservation(t *testing.T) {
	a := newTestApp(t)

	created := a.createReservation("maria", "2026-06-10", "2026-06-12")
	assert.Equal(t, "reserved", string(created.Status))
	assert.Equal(t, 2, created.Nights)
	require.NotNil(t, created.BedID)

	// Lookup by UUID.
	code, env := a.do(http.MethodGet, "/api/reservations/"+created.ID, nil)
	require.Equal(t, http.StatusOK, code)

	var byID response.ReservationResponse
	require.NoError(t, json.Unmarshal(env.Data, &byID))
	assert.Equal(t, created.Reference, byID.Reference)
	require.NotNil(t, byID.Payment)
	assert.Equal(t, "pending", string(byID.Payment.Status))

	// Lookup by human reference.
	code, env = a.do(http.MethodGet, "/api/reservations/"+created.Reference, nil)
	require.Equal(t, http.StatusOK, code)

	var byRef response.ReservationResponse
	require.NoError(t, json.Unmarshal(env.Data, &byRef))
	assert.Equal(t, created.ID, byRef.ID)
}

func TestCreateReservationValidation(t *testing.T) {
	a := newTestApp(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing guest", map[string]any{"check_in": "2026-06-10", "check_out": "2026-06-12"}},
		{"bad date format", map[string]any{"guest_ref": "maria", "check_in": "10/06/2026", "check_out": "2026-06-12"}},
		{"bad room type", map[string]any{"guest_ref": "maria", "check_in": "2026-06-10", "check_out": "2026-06-12", "room_type": "suite"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := a.do(http.MethodPost, "/api/reservations", tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
		})
	}
}

func TestInvertedRangeRejected(t *testing.T) {
	a := newTestApp(t)

	code, _ := a.do(http.MethodPost, "/api/reservations", map[string]any{
		"guest_ref": "maria",
		"check_in":  "2026-06-12",
		"check_out": "2026-06-10",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPaymentEventConfirms(t *testing.T) {
	a := newTestApp(t)

	created := a.createReservation("maria", "2026-06-10", "2026-06-12")

	code, env := a.do(http.MethodPost, "/api/payments/events", map[string]any{
		"reservation_id": created.ID,
		"success":        true,
		"amount":         24,
		"method":         "card",
	})
	require.Equal(t, http.StatusOK, code)

	var confirmed response.ReservationResponse
	require.NoError(t, json.Unmarshal(env.Data, &confirmed))
	assert.Equal(t, "confirmed", string(confirmed.Status))

	// Replaying the event is a conflict, not a double apply.
	code, _ = a.do(http.MethodPost, "/api/payments/events", map[string]any{
		"reservation_id": created.ID,
		"success":        true,
		"amount":         24,
		"method":         "card",
	})
	assert.Equal(t, http.StatusConflict, code)
}

func TestStaffLifecycleEndpoints(t *testing.T) {
	a := newTestApp(t)

	created := a.createReservation("maria", "2026-06-10", "2026-06-12")

	// Check-in before payment is a conflict.
	code, _ := a.do(http.MethodPost, "/api/reservations/"+created.ID+"/checkin", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = a.do(http.MethodPost, "/api/payments/events", map[string]any{
		"reservation_id": created.ID,
		"success":        true,
		"amount":         24,
	})
	require.Equal(t, http.StatusOK, code)

	code, env := a.do(http.MethodPost, "/api/reservations/"+created.ID+"/checkin", nil)
	require.Equal(t, http.StatusOK, code)

	var checkedIn response.ReservationResponse
	require.NoError(t, json.Unmarshal(env.Data, &checkedIn))
	assert.Equal(t, "checked_in", string(checkedIn.Status))

	code, env = a.do(http.MethodPost, "/api/reservations/"+created.ID+"/checkout", nil)
	require.Equal(t, http.StatusOK, code)

	var checkedOut response.ReservationResponse
	require.NoError(t, json.Unmarshal(env.Data, &checkedOut))
	assert.Equal(t, "checked_out", string(checkedOut.Status))
}

func TestCancelEndpoint(t *testing.T) {
	a := newTestApp(t)

	created := a.createReservation("maria", "2026-06-10", "2026-06-12")

	code, env := a.do(http.MethodPost, "/api/reservations/"+created.Reference+"/cancel", nil)
	require.Equal(t, http.StatusOK, code)

	var cancelled response.ReservationResponse
	require.NoError(t, json.Unmarshal(env.Data, &cancelled))
	assert.Equal(t, "cancelled", string(cancelled.Status))

	// Cancelling again conflicts.
	code, _ = a.do(http.MethodPost, "/api/reservations/"+created.Reference+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	a := newTestApp(t)

	a.createReservation("maria", "2026-06-10", "2026-06-12")

	code, env := a.do(http.MethodGet, "/api/availability?check_in=2026-06-10&check_out=2026-06-12", nil)
	require.Equal(t, http.StatusOK, code)

	var availability response.AvailabilityResponse
	require.NoError(t, json.Unmarshal(env.Data, &availability))
	assert.Equal(t, 17, availability.Count)
	assert.Len(t, availability.Beds, 17)

	// The adjacent range is unaffected.
	code, env = a.do(http.MethodGet, "/api/availability?check_in=2026-06-12&check_out=2026-06-14", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &availability))
	assert.Equal(t, 18, availability.Count)

	// Missing dates are rejected.
	code, _ = a.do(http.MethodGet, "/api/availability", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAvailabilitySummaryEndpoint(t *testing.T) {
	a := newTestApp(t)

	a.createReservation("maria", "2026-06-10", "2026-06-12")

	code, env := a.do(http.MethodGet, "/api/availability/summary?check_in=2026-06-10&check_out=2026-06-12", nil)
	require.Equal(t, http.StatusOK, code)

	var summary response.AvailabilitySummaryResponse
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 18, summary.TotalBeds)
	assert.Equal(t, 17, summary.AvailableBeds)
	assert.Equal(t, 1, summary.OccupiedBeds)
}

func TestOccupancyAndBedsEndpoints(t *testing.T) {
	a := newTestApp(t)

	created := a.createReservation("maria", "2026-06-10", "2026-06-12")

	code, env := a.do(http.MethodGet, "/api/occupancy", nil)
	require.Equal(t, http.StatusOK, code)

	var occupancy response.OccupancyResponse
	require.NoError(t, json.Unmarshal(env.Data, &occupancy))
	assert.Equal(t, 18, occupancy.TotalBeds)
	assert.Equal(t, 1, occupancy.Reserved)

	code, env = a.do(http.MethodGet, "/api/beds", nil)
	require.Equal(t, http.StatusOK, code)

	var beds []response.BedResponse
	require.NoError(t, json.Unmarshal(env.Data, &beds))
	assert.Len(t, beds, 18)

	require.NotNil(t, created.BedID)
	code, env = a.do(http.MethodGet, "/api/beds/"+*created.BedID, nil)
	require.Equal(t, http.StatusOK, code)

	var bed response.BedResponse
	require.NoError(t, json.Unmarshal(env.Data, &bed))
	assert.Equal(t, "reserved", string(bed.Status))
}

func TestUnknownReservationIs404(t *testing.T) {
	a := newTestApp(t)

	code, _ := a.do(http.MethodGet, "/api/reservations/00000000-0000-4000-8000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(http.MethodGet, "/api/reservations/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestNoAvailabilityIs409(t *testing.T) {
	a := newTestApp(t)

	for i := 0; i < 18; i++ {
		a.createReservation(fmt.Sprintf("pilgrim-%d", i), "2026-06-10", "2026-06-12")
	}

	code, _ := a.do(http.MethodPost, "/api/reservations", map[string]any{
		"guest_ref": "late",
		"check_in":  "2026-06-10",
		"check_out": "2026-06-12",
	})
	assert.Equal(t, http.StatusConflict, code)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	a.app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
