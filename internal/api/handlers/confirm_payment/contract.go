package confirm_payment

import (
	"context"

	"github.com/m04kA/SMC-FieldService/internal/service/reservations/models"
)

type ReservationService interface {
	ConfirmPayment(ctx context.Context, id int64) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
