package confirm_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-FieldService/internal/api/handlers"
	"github.com/m04kA/SMC-FieldService/internal/api/middleware"
	"github.com/m04kA/SMC-FieldService/internal/service/reservations"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
	msgAlreadyPaid          = "бронирование уже оплачено"
	msgNotPayable           = "бронирование нельзя оплатить"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/payment
// Подтверждение оплаты на стойке, только администратор
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/payment - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	if !middleware.IsAdmin(r.Context()) {
		h.logger.Warn("POST /reservations/{id}/payment - Access denied: reservation_id=%d", reservationID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.ConfirmPayment(r.Context(), reservationID)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/payment - Not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrAlreadyPaid):
			h.logger.Warn("POST /reservations/{id}/payment - Already paid: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgAlreadyPaid)

		case errors.Is(err, reservations.ErrNotPayable):
			h.logger.Warn("POST /reservations/{id}/payment - Not payable: reservation_id=%d", reservationID)
			handlers.RespondConflict(w, msgNotPayable)

		default:
			h.logger.Error("POST /reservations/{id}/payment - Failed to confirm payment: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/payment - Payment confirmed: reservation_id=%d", reservationID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
