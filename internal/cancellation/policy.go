package cancellation

import (
	"math"
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
)

// Причины отказа в отмене
const (
	ReasonPastReservation = "cannot cancel past reservation"
)

// DefaultCancellationReason причина отмены по умолчанию,
// если инициатор её не указал
const DefaultCancellationReason = "cancelled by customer"

// Policy вычисляет условия возврата при отмене бронирования
// Чистая функция от (бронирование, текущее время); сама ничего не мутирует.
// Зачисление баллов на счёт лояльности выполняет вызывающая сторона.
type Policy struct {
	fullRefundNoticeHours int
	lateRefundPercent     int
	pointsPerCurrencyUnit int64
}

// New создает политику отмены
// fullRefundNoticeHours - за сколько часов до начала отмена даёт полный возврат
// lateRefundPercent - процент возврата при поздней отмене
// pointsPerCurrencyUnit - сколько денежных единиц конвертируется в 1 балл
func New(fullRefundNoticeHours, lateRefundPercent int, pointsPerCurrencyUnit int64) *Policy {
	if fullRefundNoticeHours <= 0 {
		fullRefundNoticeHours = domain.DefaultFullRefundNoticeHours
	}
	if lateRefundPercent <= 0 {
		lateRefundPercent = domain.DefaultLateRefundPercent
	}
	if pointsPerCurrencyUnit <= 0 {
		pointsPerCurrencyUnit = domain.DefaultPointsPerCurrencyUnit
	}
	return &Policy{
		fullRefundNoticeHours: fullRefundNoticeHours,
		lateRefundPercent:     lateRefundPercent,
		pointsPerCurrencyUnit: pointsPerCurrencyUnit,
	}
}

// Evaluate вычисляет исход отмены бронирования на момент now.
// Возврат выплачивается только если бронь была фактически оплачена:
// неоплаченная бронь отменяется, но сумма возврата принудительно равна нулю.
func (p *Policy) Evaluate(r *domain.Reservation, now time.Time) (domain.RefundDecision, error) {
	start, err := r.StartDateTime()
	if err != nil {
		return domain.RefundDecision{}, err
	}

	// Бронь уже началась или прошла - отмена невозможна
	if now.After(start) {
		return domain.RefundDecision{
			CanCancel: false,
			Reason:    ReasonPastReservation,
		}, nil
	}

	percent := p.lateRefundPercent
	if start.Sub(now).Hours() >= float64(p.fullRefundNoticeHours) {
		percent = 100
	}

	// Если деньги не были получены, возврата нет независимо от процента
	if !r.IsPaid() {
		return domain.RefundDecision{
			CanCancel:     true,
			RefundPercent: percent,
			RefundAmount:  0,
			RefundMethod:  domain.RefundMethodNone,
			Points:        0,
		}, nil
	}

	amount := math.Floor(r.TotalPrice * float64(percent) / 100)

	return domain.RefundDecision{
		CanCancel:     true,
		RefundPercent: percent,
		RefundAmount:  amount,
		RefundMethod:  domain.RefundMethodPoints,
		Points:        int64(amount) / p.pointsPerCurrencyUnit,
	}, nil
}
