package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-FieldService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-FieldService/internal/integrations/notify"
	"github.com/m04kA/SMC-FieldService/pkg/txmanager"
)

// UseCase use case создания бронирования
// Пайплайн: форматные проверки -> проверки календаря и политики ->
// расчёт цены -> атомарная проверка конфликтов и вставка в сериализуемой
// транзакции. Цена всегда считается здесь, на сервере - даже если клиенту
// ранее показывалась предварительная стоимость
type UseCase struct {
	reservationRepo ReservationRepository
	resourceRepo    ResourceRepository
	pricing         PricingEngine
	calendar        OperationalCalendar
	policy          domain.BookingPolicy
	txManager       TransactionManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// publisher может быть nil - тогда события не публикуются
func NewUseCase(
	reservationRepo ReservationRepository,
	resourceRepo ResourceRepository,
	pricing PricingEngine,
	calendar OperationalCalendar,
	policy domain.BookingPolicy,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		resourceRepo:    resourceRepo,
		pricing:         pricing,
		calendar:        calendar,
		policy:          policy,
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

// Execute выполняет создание бронирования
// Проверки идут по порядку и обрываются на первой неудачной; авторитетная
// проверка пересечений выполняется внутри сериализуемой транзакции с
// блокировкой FOR UPDATE, чтобы две конкурентные заявки на пересекающиеся
// слоты не увидели обе "конфликта нет"
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: resource=%d, date=%s, slot=%s-%s, customer=%s",
		req.ResourceID, req.Date, req.StartTime, req.EndTime, req.CustomerName)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Форматные проверки даты и времени
	s, err := parseSlot(req)
	if err != nil {
		uc.logger.Warn("CreateReservation: slot parsing failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 3-4. Начало в будущем и не внутри минимального буфера
	if err := validateStartInFuture(s, now, uc.policy.MinNoticeMinutes); err != nil {
		uc.logger.Warn("CreateReservation: start time validation failed: %v", err)
		return nil, err
	}

	// 5. Дата в пределах глубины бронирования
	if err := validateAdvanceWindow(s, now, uc.policy.MaxAdvanceDays); err != nil {
		uc.logger.Warn("CreateReservation: advance window validation failed: %v", err)
		return nil, err
	}

	// 6. Получаем ресурс с правилами ценообразования и режимом работы
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("CreateReservation: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateReservation: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	// 7. Ресурс открыт в эту дату (обслуживание, рабочие дни недели)
	schedule := uc.calendar.DaySchedule(resource, s.date)
	if !schedule.IsOpen {
		uc.logger.Warn("CreateReservation: resource id=%d closed on %s: %s",
			req.ResourceID, req.Date, schedule.ClosedReason)
		return nil, fmt.Errorf("%w: %s", ErrResourceClosed, schedule.ClosedReason)
	}

	// 8. Слот внутри рабочего окна
	if err := validateWithinOperatingHours(s, schedule); err != nil {
		uc.logger.Warn("CreateReservation: operating hours validation failed: %v", err)
		return nil, err
	}

	// 9. Длительность в допустимых границах и кратна шагу
	if err := validateDuration(s, uc.policy); err != nil {
		uc.logger.Warn("CreateReservation: duration validation failed: %v", err)
		return nil, err
	}

	// 10. Считаем стоимость; расчёт чистый, поэтому выполняется до транзакции
	quote, err := uc.pricing.Quote(resource, s.date, s.start, s.end)
	if err != nil {
		uc.logger.Error("CreateReservation: pricing failed: %v", err)
		return nil, fmt.Errorf("%w: pricing failed: %v", ErrInternal, err)
	}

	status := domain.StatusPending
	if req.Confirm {
		status = domain.StatusConfirmed
	}

	var result *domain.Reservation

	// 11. Атомарная проверка конфликтов и вставка
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Читаем активные брони на эту дату с блокировкой FOR UPDATE
		filter := domain.ResourceReservationsFilter{
			ResourceID:      req.ResourceID,
			StartDate:       &s.date,
			EndDate:         &s.date,
			IncludeInactive: false,
		}

		existing, err := uc.reservationRepo.GetByResourceWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get existing reservations: %v", err)
			return fmt.Errorf("%w: failed to get existing reservations: %v", ErrInternal, err)
		}

		if blocking := findConflict(s, existing, nil); blocking != nil {
			uc.logger.Info("CreateReservation: slot %s-%s blocked by reservation %s (%s-%s)",
				s.start, s.end, blocking.Code, blocking.StartTime, blocking.EndTime)
			return fmt.Errorf("%w: blocked by %s (%s-%s)",
				ErrSlotConflict, blocking.Code, blocking.StartTime, blocking.EndTime)
		}

		reservation := &domain.Reservation{
			ResourceID:      req.ResourceID,
			UserID:          req.UserID,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			ReservationDate: s.date,
			StartTime:       s.start,
			EndTime:         s.end,
			Status:          status,
			PaymentStatus:   domain.PaymentUnpaid,
			BasePrice:       quote.BasePrice,
			PeakMultiplier:  quote.PeakMultiplier,
			IsWeekend:       quote.IsWeekend,
			IsPeakHour:      quote.IsPeakHour,
			TotalPrice:      quote.TotalPrice,
			Notes:           req.Notes,
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrBusy) {
			uc.logger.Warn("CreateReservation: storage busy for resource=%d date=%s: %v",
				req.ResourceID, req.Date, err)
			return nil, fmt.Errorf("%w: %v", ErrStorageBusy, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateReservation: created reservation id=%d code=%s total=%.2f",
		result.ID, result.Code, result.TotalPrice)

	uc.publishCreated(ctx, result)

	return toResponse(result, quote), nil
}

// publishCreated публикует событие создания; ошибки публикации не влияют
// на результат операции
func (uc *UseCase) publishCreated(ctx context.Context, res *domain.Reservation) {
	if uc.publisher == nil {
		return
	}
	uc.publisher.ReservationCreated(ctx, notify.ReservationCreatedEvent{
		EventID:         uuid.NewString(),
		ReservationID:   res.ID,
		Code:            res.Code,
		ResourceID:      res.ResourceID,
		UserID:          res.UserID,
		CustomerName:    res.CustomerName,
		ReservationDate: res.ReservationDate.Format(domain.DateFormat),
		StartTime:       res.StartTime.String(),
		EndTime:         res.EndTime.String(),
		TotalPrice:      res.TotalPrice,
		Status:          string(res.Status),
		CreatedAt:       res.CreatedAt.Format(time.RFC3339),
	})
}
