package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"albergue-booking/internal/data/entity"
	"albergue-booking/internal/data/repository"
	"albergue-booking/internal/dto/request"
	"albergue-booking/internal/dto/response"
	"albergue-booking/internal/usecase"
	"albergue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// CreateReservation handles POST /api/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req request.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid check_in date", nil)
		return
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid check_out date", nil)
		return
	}

	input := usecase.CreateReservationInput{
		GuestRef: req.GuestRef,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}
	if req.RoomType != nil {
		roomType := entity.RoomType(*req.RoomType)
		input.RoomTypePreference = &roomType
	}

	reservation, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err, "create reservation")
		return
	}

	utils.ResponseCreated(w, "success", response.ReservationToResponse(reservation))
}

// GetReservation handles GET /api/reservations/{id}. The id segment
// accepts either a UUID or a human reference like RES-20260901-...
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.resolve(r)
	if err != nil {
		h.handleServiceError(w, err, "get reservation")
		return
	}

	resp := response.ReservationToResponse(reservation)
	if payment, err := h.service.GetPayment(r.Context(), reservation.ID); err == nil {
		p := response.PaymentToResponse(payment)
		resp.Payment = &p
	}

	utils.ResponseSuccess(w, "success", resp)
}

// CancelReservation handles POST /api/reservations/{id}/cancel
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, "cancel reservation", h.service.Cancel)
}

// CheckIn handles POST /api/reservations/{id}/checkin
func (h *ReservationHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, "check in", h.service.CheckIn)
}

// CheckOut handles POST /api/reservations/{id}/checkout
func (h *ReservationHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, "check out", h.service.CheckOut)
}

func (h *ReservationHandler) applyTransition(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	fn func(ctx context.Context, id uuid.UUID) (*entity.Reservation, error),
) {
	reservation, err := h.resolve(r)
	if err != nil {
		h.handleServiceError(w, err, operation)
		return
	}

	updated, err := fn(r.Context(), reservation.ID)
	if err != nil {
		h.handleServiceError(w, err, operation)
		return
	}

	utils.ResponseSuccess(w, "success", response.ReservationToResponse(updated))
}

func (h *ReservationHandler) resolve(r *http.Request) (*entity.Reservation, error) {
	key := chi.URLParam(r, "id")
	if strings.HasPrefix(key, "RES-") {
		return h.service.GetByReference(r.Context(), key)
	}

	id, err := utils.ParseUUID(key)
	if err != nil {
		return nil, repository.ErrReservationNotFound
	}

	return h.service.Get(r.Context(), id)
}

// handleServiceError maps engine errors to HTTP statuses
func (h *ReservationHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, repository.ErrReservationNotFound),
		errors.Is(err, repository.ErrBedNotFound),
		errors.Is(err, repository.ErrPaymentNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidDateRange):
		h.log.Warn(operation+" failed - invalid date range", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNoAvailability),
		errors.Is(err, usecase.ErrBedUnavailable),
		errors.Is(err, usecase.ErrInvalidTransition):
		h.log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
