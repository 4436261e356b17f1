package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-FieldService/internal/api/handlers"
	"github.com/m04kA/SMC-FieldService/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-FieldService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidInput          = "некорректные данные запроса"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime           = "некорректный временной интервал, ожидается HH:MM"
	msgResourceNotFound      = "ресурс не найден"
	msgTimeInPast            = "время начала уже прошло"
	msgTooLateToReserve      = "слишком поздно для бронирования этого слота"
	msgDateTooFar            = "дата бронирования слишком далеко в будущем"
	msgResourceClosed        = "ресурс закрыт в выбранную дату"
	msgOutsideOperatingHours = "слот выходит за часы работы ресурса"
	msgInvalidDuration       = "недопустимая длительность бронирования"
	msgSlotConflict          = "выбранный временной слот уже занят"
	msgStorageBusy           = "не удалось обработать запрос, повторите попытку"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
// Доступно и гостям: идентификатор пользователя берётся из контекста,
// если запрос аутентифицирован
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var userID *int64
	if id, ok := middleware.GetUserID(r.Context()); ok {
		userID = &id
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrInvalidDate):
			h.logger.Warn("POST /reservations - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createReservation.ErrInvalidTime):
			h.logger.Warn("POST /reservations - Invalid time: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTime)

		case errors.Is(err, createReservation.ErrResourceNotFound):
			h.logger.Warn("POST /reservations - Resource not found: resource_id=%d", req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createReservation.ErrTimeInPast):
			h.logger.Warn("POST /reservations - Start time in past: resource_id=%d, date=%s", req.ResourceID, req.Date)
			handlers.RespondBadRequest(w, msgTimeInPast)

		case errors.Is(err, createReservation.ErrTooLateToReserve):
			h.logger.Warn("POST /reservations - Too late to reserve: resource_id=%d, date=%s", req.ResourceID, req.Date)
			handlers.RespondBadRequest(w, msgTooLateToReserve)

		case errors.Is(err, createReservation.ErrDateTooFarInFuture):
			h.logger.Warn("POST /reservations - Date too far in future: resource_id=%d, date=%s", req.ResourceID, req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createReservation.ErrResourceClosed):
			h.logger.Warn("POST /reservations - Resource closed: resource_id=%d, date=%s", req.ResourceID, req.Date)
			handlers.RespondBadRequest(w, msgResourceClosed)

		case errors.Is(err, createReservation.ErrOutsideOperatingHours):
			h.logger.Warn("POST /reservations - Outside operating hours: resource_id=%d, slot=%s-%s",
				req.ResourceID, req.StartTime, req.EndTime)
			handlers.RespondBadRequest(w, msgOutsideOperatingHours)

		case errors.Is(err, createReservation.ErrInvalidDuration):
			h.logger.Warn("POST /reservations - Invalid duration: resource_id=%d, slot=%s-%s",
				req.ResourceID, req.StartTime, req.EndTime)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, createReservation.ErrSlotConflict):
			h.logger.Warn("POST /reservations - Slot conflict: resource_id=%d, date=%s, slot=%s-%s",
				req.ResourceID, req.Date, req.StartTime, req.EndTime)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createReservation.ErrStorageBusy):
			h.logger.Warn("POST /reservations - Storage busy: resource_id=%d, date=%s", req.ResourceID, req.Date)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgStorageBusy)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: resource_id=%d, error=%v",
				req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: id=%d, code=%s, resource_id=%d",
		result.ID, result.Code, req.ResourceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
