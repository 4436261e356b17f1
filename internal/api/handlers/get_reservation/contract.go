package get_reservation

import (
	"context"

	"github.com/m04kA/SMC-FieldService/internal/service/reservations/models"
)

type ReservationService interface {
	GetByID(ctx context.Context, id int64, actorID *int64, isAdmin bool) (*models.ReservationResponse, error)
	GetByCode(ctx context.Context, code string) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
