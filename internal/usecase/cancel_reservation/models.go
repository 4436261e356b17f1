package cancel_reservation

import (
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
)

// Request модель запроса на отмену бронирования
type Request struct {
	ReservationID int64
	// CancelledBy - ID пользователя, инициировавшего отмену; nil для
	// отмены от имени системы или администратора
	CancelledBy *int64
	// IsAdmin снимает проверку владельца брони
	IsAdmin bool
	Reason  string
}

// Response модель ответа с результатом отмены
type Response struct {
	ID            int64
	Code          string
	ResourceID    int64
	Status        string
	PaymentStatus string

	// Условия возврата, рассчитанные политикой отмены
	RefundPercent int
	RefundAmount  float64
	RefundMethod  string
	// Баллы, зачисленные на счёт лояльности (0, если бронь не была оплачена
	// или бронирование гостевое)
	PointsCredited int64

	CancelledAt time.Time
}

func toResponse(res *domain.Reservation, decision domain.RefundDecision, points int64, cancelledAt time.Time) *Response {
	return &Response{
		ID:             res.ID,
		Code:           res.Code,
		ResourceID:     res.ResourceID,
		Status:         string(domain.StatusCancelled),
		PaymentStatus:  string(res.PaymentStatus),
		RefundPercent:  decision.RefundPercent,
		RefundAmount:   decision.RefundAmount,
		RefundMethod:   string(decision.RefundMethod),
		PointsCredited: points,
		CancelledAt:    cancelledAt,
	}
}
