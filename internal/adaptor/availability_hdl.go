package adaptor

import (
	"errors"
	"net/http"

	"albergue-booking/internal/data/entity"
	"albergue-booking/internal/data/repository"
	"albergue-booking/internal/dto/request"
	"albergue-booking/internal/dto/response"
	"albergue-booking/internal/usecase"
	"albergue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	availability usecase.AvailabilityService
	inventory    usecase.InventoryService
	log          *zap.Logger
}

func NewAvailabilityHandler(
	availability usecase.AvailabilityService,
	inventory usecase.InventoryService,
	log *zap.Logger,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		inventory:    inventory,
		log:          log.With(zap.String("handler", "availability")),
	}
}

// GetAvailability handles GET /api/availability?check_in=...&check_out=...&room_type=...
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := request.AvailabilityQuery{
		CheckIn:  query.Get("check_in"),
		CheckOut: query.Get("check_out"),
	}
	if v := query.Get("room_type"); v != "" {
		q.RoomType = &v
	}

	if validationErrors := utils.ValidateStruct(q); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	checkIn, err := utils.ParseDate(q.CheckIn)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid check_in date", nil)
		return
	}
	checkOut, err := utils.ParseDate(q.CheckOut)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid check_out date", nil)
		return
	}

	var preference *entity.RoomType
	if q.RoomType != nil {
		roomType := entity.RoomType(*q.RoomType)
		preference = &roomType
	}

	beds, err := h.availability.FindAvailable(r.Context(), checkIn, checkOut, preference)
	if err != nil {
		h.handleServiceError(w, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", response.AvailabilityResponse{
		CheckIn:  q.CheckIn,
		CheckOut: q.CheckOut,
		Count:    len(beds),
		Beds:     response.BedsToResponse(beds),
	})
}

// GetAvailabilitySummary handles GET /api/availability/summary
func (h *AvailabilityHandler) GetAvailabilitySummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := request.AvailabilityQuery{
		CheckIn:  query.Get("check_in"),
		CheckOut: query.Get("check_out"),
	}

	if validationErrors := utils.ValidateStruct(q); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	checkIn, err := utils.ParseDate(q.CheckIn)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid check_in date", nil)
		return
	}
	checkOut, err := utils.ParseDate(q.CheckOut)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid check_out date", nil)
		return
	}

	summary, err := h.availability.Summary(r.Context(), checkIn, checkOut)
	if err != nil {
		h.handleServiceError(w, err, "get availability summary")
		return
	}

	utils.ResponseSuccess(w, "success", response.AvailabilitySummaryResponse{
		CheckIn:       q.CheckIn,
		CheckOut:      q.CheckOut,
		TotalBeds:     summary.TotalBeds,
		AvailableBeds: summary.AvailableBeds,
		OccupiedBeds:  summary.OccupiedBeds,
	})
}

// GetOccupancy handles GET /api/occupancy
func (h *AvailabilityHandler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	stats, err := h.inventory.OccupancyStats(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get occupancy")
		return
	}

	utils.ResponseSuccess(w, "success", response.OccupancyResponse{
		TotalBeds:     stats.Available + stats.Reserved + stats.Occupied + stats.Maintenance,
		Available:     stats.Available,
		Reserved:      stats.Reserved,
		Occupied:      stats.Occupied,
		Maintenance:   stats.Maintenance,
		OccupancyRate: stats.OccupancyRate,
	})
}

// ListBeds handles GET /api/beds
func (h *AvailabilityHandler) ListBeds(w http.ResponseWriter, r *http.Request) {
	beds, err := h.inventory.ListBeds(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list beds")
		return
	}

	utils.ResponseSuccess(w, "success", response.BedsToResponse(beds))
}

// GetBed handles GET /api/beds/{id}
func (h *AvailabilityHandler) GetBed(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid bed ID", nil)
		return
	}

	bed, err := h.inventory.GetBed(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get bed")
		return
	}

	utils.ResponseSuccess(w, "success", response.BedToResponse(bed))
}

func (h *AvailabilityHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, repository.ErrBedNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidDateRange):
		h.log.Warn(operation+" failed - invalid date range", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)
	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
