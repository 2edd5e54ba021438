package wire

import (
	"albergue-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAvailability(r chi.Router, availabilityHandler *adaptor.AvailabilityHandler) {
	// GET /api/availability - Free beds for a date range
	r.Get("/api/availability", availabilityHandler.GetAvailability)

	// GET /api/availability/summary - Aggregate counts for a date range
	r.Get("/api/availability/summary", availabilityHandler.GetAvailabilitySummary)

	// GET /api/occupancy - Staff occupancy snapshot
	r.Get("/api/occupancy", availabilityHandler.GetOccupancy)

	// GET /api/beds - Full bed catalog
	r.Get("/api/beds", availabilityHandler.ListBeds)

	// GET /api/beds/{id} - Single bed
	r.Get("/api/beds/{id}", availabilityHandler.GetBed)
}
