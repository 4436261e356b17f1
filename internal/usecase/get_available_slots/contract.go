package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListActive(ctx context.Context, resourceID int64, date time.Time) ([]*domain.Reservation, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// PricingEngine интерфейс расчёта стоимости слота
type PricingEngine interface {
	Quote(res *domain.Resource, date time.Time, start, end types.TimeString) (domain.PriceQuote, error)
}

// OperationalCalendar интерфейс расчёта режима работы ресурса на дату
type OperationalCalendar interface {
	DaySchedule(res *domain.Resource, date time.Time) domain.DaySchedule
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
