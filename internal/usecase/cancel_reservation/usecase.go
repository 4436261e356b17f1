package cancel_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-FieldService/internal/cancellation"
	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-FieldService/internal/integrations/notify"
	"github.com/m04kA/SMC-FieldService/pkg/txmanager"
)

// UseCase use case отмены бронирования
// Условия возврата рассчитываются политикой отмены на момент запроса,
// сама отмена выполняется одним guarded UPDATE (переход только из активных
// статусов). Начисление баллов и публикация события идут после коммита
// и не откатывают отмену при сбое.
type UseCase struct {
	reservationRepo ReservationRepository
	policy          CancellationPolicy
	ledger          LoyaltyLedger
	txManager       TransactionManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// ledger и publisher могут быть nil - тогда баллы не начисляются
// и события не публикуются
func NewUseCase(
	reservationRepo ReservationRepository,
	policy CancellationPolicy,
	ledger LoyaltyLedger,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		policy:          policy,
		ledger:          ledger,
		txManager:       txManager,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет отмену бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelReservation: id=%d, cancelledBy=%v, admin=%t",
		req.ReservationID, req.CancelledBy, req.IsAdmin)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование
	res, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			uc.logger.Warn("CancelReservation: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("CancelReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	// 3. Проверяем права на отмену
	if err := checkAccess(res, req); err != nil {
		uc.logger.Warn("CancelReservation: access denied for reservation id=%d, cancelledBy=%v",
			req.ReservationID, req.CancelledBy)
		return nil, err
	}

	// 4. Отменять можно только активную бронь
	if !res.CanBeCancelled() {
		uc.logger.Warn("CancelReservation: reservation id=%d has terminal status %s",
			req.ReservationID, res.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrInvalidTransition, res.Status)
	}

	now := uc.timeProvider.Now()

	// 5. Политика отмены определяет допустимость и условия возврата
	decision, err := uc.policy.Evaluate(res, now)
	if err != nil {
		uc.logger.Error("CancelReservation: policy evaluation failed for id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: policy evaluation failed: %v", ErrInternal, err)
	}

	if !decision.CanCancel {
		uc.logger.Info("CancelReservation: cancellation refused for id=%d: %s",
			req.ReservationID, decision.Reason)
		return nil, fmt.Errorf("%w: %s", ErrCancellationRefused, decision.Reason)
	}

	// Оплаченная бронь с ненулевым возвратом переводится в refunded,
	// иначе статус оплаты не меняется
	paymentStatus := res.PaymentStatus
	if res.IsPaid() && decision.RefundAmount > 0 {
		paymentStatus = domain.PaymentRefunded
	}

	reason := req.Reason
	if reason == "" {
		reason = cancellation.DefaultCancellationReason
	}

	// 6. Фиксируем отмену; guard по статусу в UPDATE защищает от
	// конкурентной двойной отмены
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		return uc.reservationRepo.Cancel(txCtx, req.ReservationID, reservation.CancelUpdate{
			Reason:        reason,
			CancelledBy:   req.CancelledBy,
			RefundPercent: decision.RefundPercent,
			RefundAmount:  decision.RefundAmount,
			PaymentStatus: paymentStatus,
		})
	})

	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrReservationNotFound):
			return nil, ErrReservationNotFound
		case errors.Is(err, reservation.ErrCannotCancel):
			uc.logger.Warn("CancelReservation: reservation id=%d lost the race to another cancellation", req.ReservationID)
			return nil, ErrInvalidTransition
		case errors.Is(err, txmanager.ErrBusy):
			uc.logger.Warn("CancelReservation: storage busy for id=%d: %v", req.ReservationID, err)
			return nil, fmt.Errorf("%w: %v", ErrStorageBusy, err)
		default:
			uc.logger.Error("CancelReservation: failed to cancel reservation id=%d: %v", req.ReservationID, err)
			return nil, fmt.Errorf("%w: failed to cancel reservation: %v", ErrInternal, err)
		}
	}

	res.PaymentStatus = paymentStatus

	uc.logger.Info("CancelReservation: cancelled reservation id=%d code=%s, refund %d%% (%.2f)",
		res.ID, res.Code, decision.RefundPercent, decision.RefundAmount)

	// 7. Начисляем баллы после коммита; сбой сервиса лояльности
	// отмену не откатывает
	points := uc.creditPoints(ctx, res, decision)

	// 8. Публикуем событие отмены
	uc.publishCancelled(ctx, res, decision, reason, now)

	return toResponse(res, decision, points, now), nil
}

func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}
	if req.CancelledBy != nil && *req.CancelledBy <= 0 {
		return fmt.Errorf("%w: cancelledBy must be positive", ErrInvalidInput)
	}
	return nil
}

// checkAccess проверяет права на отмену: владелец брони или администратор.
// Гостевые брони (без user_id) отменяются только администратором.
func checkAccess(res *domain.Reservation, req *Request) error {
	if req.IsAdmin {
		return nil
	}
	if res.UserID == nil {
		return fmt.Errorf("%w: guest reservations can only be cancelled by an administrator", ErrForbidden)
	}
	if req.CancelledBy == nil || *req.CancelledBy != *res.UserID {
		return ErrForbidden
	}
	return nil
}

// creditPoints зачисляет баллы возврата на счёт лояльности
// Возвращает количество зачисленных баллов; 0 для гостевых броней,
// неоплаченных броней и при отключённой интеграции
func (uc *UseCase) creditPoints(ctx context.Context, res *domain.Reservation, decision domain.RefundDecision) int64 {
	if uc.ledger == nil || decision.Points <= 0 || res.UserID == nil {
		return 0
	}

	reason := fmt.Sprintf("refund for reservation %s", res.Code)
	if err := uc.ledger.CreditWithGracefulDegradation(ctx, *res.UserID, decision.Points, reason); err != nil {
		// Зачисление будет повторено отдельно, отмена уже зафиксирована
		uc.logger.Error("CancelReservation: failed to credit %d points to user_id=%d: %v",
			decision.Points, *res.UserID, err)
		return 0
	}

	return decision.Points
}

func (uc *UseCase) publishCancelled(ctx context.Context, res *domain.Reservation, decision domain.RefundDecision, reason string, cancelledAt time.Time) {
	if uc.publisher == nil {
		return
	}
	uc.publisher.ReservationCancelled(ctx, notify.ReservationCancelledEvent{
		EventID:         uuid.NewString(),
		ReservationID:   res.ID,
		Code:            res.Code,
		ResourceID:      res.ResourceID,
		UserID:          res.UserID,
		ReservationDate: res.ReservationDate.Format(domain.DateFormat),
		StartTime:       res.StartTime.String(),
		RefundPercent:   decision.RefundPercent,
		RefundAmount:    decision.RefundAmount,
		RefundMethod:    string(decision.RefundMethod),
		Reason:          reason,
		CancelledAt:     cancelledAt.Format(time.RFC3339),
	})
}
