package get_resource_reservations

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
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidFilter     = "некорректные параметры фильтрации"
	msgForbidden         = "доступ запрещен"
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

// Handle GET /api/v1/resources/{resourceId}/reservations
// Административный просмотр расписания ресурса с фильтрацией
// по периоду и статусу
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/reservations - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	if !middleware.IsAdmin(r.Context()) {
		h.logger.Warn("GET /resources/{id}/reservations - Access denied: resource_id=%d", resourceID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	req, err := parseQuery(resourceID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /resources/{id}/reservations - Invalid filter: resource_id=%d, error=%v", resourceID, err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.GetResourceReservations(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/reservations - Invalid input: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /resources/{id}/reservations - Failed to get reservations: resource_id=%d, error=%v",
				resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /resources/{id}/reservations - Retrieved %d reservations for resource_id=%d",
		len(result.Reservations), resourceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
