package cancel_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-FieldService/internal/integrations/notify"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, upd reservation.CancelUpdate) error
}

// CancellationPolicy интерфейс политики отмены
type CancellationPolicy interface {
	Evaluate(r *domain.Reservation, now time.Time) (domain.RefundDecision, error)
}

// LoyaltyLedger интерфейс начисления баллов лояльности
type LoyaltyLedger interface {
	CreditWithGracefulDegradation(ctx context.Context, userID int64, points int64, reason string) error
}

// EventPublisher интерфейс публикации событий бронирования
type EventPublisher interface {
	ReservationCancelled(ctx context.Context, event notify.ReservationCancelledEvent)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
