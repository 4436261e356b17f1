package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/internal/integrations/notify"
	"github.com/m04kA/SMC-FieldService/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetByResourceWithFilter(ctx context.Context, filter domain.ResourceReservationsFilter) ([]*domain.Reservation, error)
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

// EventPublisher интерфейс публикации событий бронирования
// Публикация fire-and-forget: ошибки не влияют на результат операции
type EventPublisher interface {
	ReservationCreated(ctx context.Context, event notify.ReservationCreatedEvent)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
