package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-FieldService/internal/infra/storage/resource"
)

// UseCase use case получения доступных слотов ресурса на дату
// Выборка информационная: чтение броней идёт без блокировок, поэтому
// показанный свободным слот может быть занят к моменту создания брони.
// Авторитетная проверка выполняется при создании.
type UseCase struct {
	reservationRepo ReservationRepository
	resourceRepo    ResourceRepository
	pricing         PricingEngine
	calendar        OperationalCalendar
	policy          domain.BookingPolicy
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	resourceRepo ResourceRepository,
	pricing PricingEngine,
	calendar OperationalCalendar,
	policy domain.BookingPolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		resourceRepo:    resourceRepo,
		pricing:         pricing,
		calendar:        calendar,
		policy:          policy,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider заменяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает свободные слоты ресурса на дату с ценой каждого слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: resource=%d, date=%s", req.ResourceID, req.Date)

	// 1. Валидация входных данных
	if req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid date %q", req.Date)
		return nil, fmt.Errorf("%w: %q is not a valid date", ErrInvalidDate, req.Date)
	}

	now := uc.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())

	// 2. Дата в пределах окна бронирования
	if dateOnly.Before(today) {
		return nil, fmt.Errorf("%w: %s", ErrDateInPast, req.Date)
	}
	if dateOnly.After(today.AddDate(0, 0, uc.policy.MaxAdvanceDays)) {
		return nil, fmt.Errorf("%w: can only view %d days in advance", ErrDateTooFarInFuture, uc.policy.MaxAdvanceDays)
	}

	// 3. Получаем ресурс
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetAvailableSlots: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	// 4. Закрытый день - валидный ответ без слотов, а не ошибка
	schedule := uc.calendar.DaySchedule(resource, date)
	if !schedule.IsOpen {
		uc.logger.Info("GetAvailableSlots: resource id=%d closed on %s: %s",
			req.ResourceID, req.Date, schedule.ClosedReason)
		return &Response{
			ResourceID:   req.ResourceID,
			Date:         date,
			IsOpen:       false,
			ClosedReason: schedule.ClosedReason,
			Slots:        []Slot{},
		}, nil
	}

	// 5. Строим сетку кандидатов и отбрасываем слоты внутри буфера
	grid, err := buildGrid(schedule.OpenTime, schedule.CloseTime,
		uc.policy.MinDurationMinutes, uc.policy.DurationStepMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build slot grid: %v", err)
		return nil, fmt.Errorf("%w: failed to build slot grid: %v", ErrInternal, err)
	}

	grid, err = filterPast(grid, date, now, uc.policy.MinNoticeMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to filter past slots: %v", ErrInternal, err)
	}

	// 6. Убираем слоты, занятые активными бронями
	reservations, err := uc.reservationRepo.ListActive(ctx, req.ResourceID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list reservations: %v", ErrInternal, err)
	}

	grid = filterOccupied(grid, reservations)

	// 7. Считаем цену каждого свободного слота
	slots := make([]Slot, 0, len(grid))
	for _, c := range grid {
		quote, err := uc.pricing.Quote(resource, date, c.start, c.end)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: pricing failed for slot %s-%s: %v", c.start, c.end, err)
			return nil, fmt.Errorf("%w: pricing failed: %v", ErrInternal, err)
		}
		slots = append(slots, Slot{
			StartTime:  c.start.String(),
			EndTime:    c.end.String(),
			Price:      quote.TotalPrice,
			IsPeakHour: quote.IsPeakHour,
		})
	}

	uc.logger.Info("GetAvailableSlots: resource=%d date=%s, %d slots available",
		req.ResourceID, req.Date, len(slots))

	return &Response{
		ResourceID: req.ResourceID,
		Date:       date,
		IsOpen:     true,
		OpenTime:   schedule.OpenTime.String(),
		CloseTime:  schedule.CloseTime.String(),
		Slots:      slots,
	}, nil
}
