package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"albergue-booking/internal/data/repository"
	"albergue-booking/internal/dto/request"
	"albergue-booking/internal/dto/response"
	"albergue-booking/internal/usecase"
	"albergue-booking/pkg/utils"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.SettlementService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.SettlementService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// PaymentEvent handles POST /api/payments/events. The payment channel
// posts here once per attempt; replays of an already settled
// reservation come back as 409 rather than double-applying.
func (h *PaymentHandler) PaymentEvent(w http.ResponseWriter, r *http.Request) {
	var req request.PaymentEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservationID, err := utils.ParseUUID(req.ReservationID)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid reservation_id", nil)
		return
	}

	outcome := usecase.PaymentOutcome{
		Success: req.Success,
		Amount:  req.Amount,
		Method:  req.Method,
	}

	reservation, err := h.service.Settle(r.Context(), reservationID, outcome)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReservationNotFound):
			h.log.Warn("Settle failed - not found", zap.Error(err))
			utils.ResponseNotFound(w, err.Error())
		case errors.Is(err, usecase.ErrSettlementConflict):
			h.log.Warn("Settle failed - conflict", zap.Error(err))
			utils.ResponseConflict(w, err.Error(), nil)
		default:
			h.log.Error("Failed to settle payment", zap.Error(err))
			utils.ResponseInternalError(w, "Internal server error")
		}
		return
	}

	utils.ResponseSuccess(w, "success", response.ReservationToResponse(reservation))
}
