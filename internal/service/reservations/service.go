package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-FieldService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-FieldService/internal/service/reservations/models"
)

// LoyaltyLedger интерфейс начисления баллов лояльности
type LoyaltyLedger interface {
	CreditWithGracefulDegradation(ctx context.Context, userID int64, points int64, reason string) error
}

// Service сервис для работы с бронированиями
// Операции чтения и управления оплатой; создание и отмена живут
// в отдельных use case со своими транзакционными требованиями
type Service struct {
	reservationRepo       ReservationRepository
	ledger                LoyaltyLedger
	pointsPerCurrencyUnit int64
	logger                Logger
}

// NewService создает новый экземпляр сервиса бронирований
// ledger может быть nil - тогда баллы за оплату не начисляются
func NewService(
	reservationRepo ReservationRepository,
	ledger LoyaltyLedger,
	pointsPerCurrencyUnit int64,
	logger Logger,
) *Service {
	if pointsPerCurrencyUnit <= 0 {
		pointsPerCurrencyUnit = domain.DefaultPointsPerCurrencyUnit
	}
	return &Service{
		reservationRepo:       reservationRepo,
		ledger:                ledger,
		pointsPerCurrencyUnit: pointsPerCurrencyUnit,
		logger:                logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - пользователь может видеть только своё
// бронирование; администратор видит все, включая гостевые
func (s *Service) GetByID(ctx context.Context, id int64, actorID *int64, isAdmin bool) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for actor=%v", id, actorID)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := checkReadAccess(res, actorID, isAdmin); err != nil {
		s.logger.Warn("GetByID: access denied for actor=%v to reservation id=%d", actorID, id)
		return nil, err
	}

	return models.FromDomainReservation(res), nil
}

// GetByCode получает бронирование по коду (FLD-YYYYMMDD-NNNNN)
// Код выдаётся заказчику при создании и служит пропуском на стойке:
// доступ по коду не требует владения бронью
func (s *Service) GetByCode(ctx context.Context, code string) (*models.ReservationResponse, error) {
	s.logger.Info("GetByCode: fetching reservation code=%s", code)

	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}

	res, err := s.reservationRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByCode: reservation code=%s not found", code)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByCode: repository error for code=%s: %v", code, err)
		return nil, fmt.Errorf("%w: GetByCode - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservation(res), nil
}

// GetUserReservations получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	reservations, err := s.reservationRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: fetched %d reservations for user=%d", len(reservations), req.UserID)
	return models.FromDomainReservationList(reservations), nil
}

// GetResourceReservations получает бронирования ресурса с гибкой фильтрацией
// по периоду, статусу и включению отменённых броней. Доступно администратору.
//
// Примеры использования:
// - Все активные бронирования: указать только ResourceID
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Бронирования за период: StartDate и EndDate указывают на разные даты
// - Включая отменённые: IncludeInactive = true
func (s *Service) GetResourceReservations(ctx context.Context, req *models.GetResourceReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetResourceReservations: fetching reservations for resource=%d", req.ResourceID)

	if req.ResourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetResourceReservations: invalid filter for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.GetByResourceWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetResourceReservations: repository error for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: GetResourceReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetResourceReservations: fetched %d reservations for resource=%d", len(reservations), req.ResourceID)
	return models.FromDomainReservationList(reservations), nil
}

// ConfirmPayment отмечает бронирование как оплаченное и начисляет
// баллы лояльности за покупку. Повторное подтверждение оплаты - ошибка.
func (s *Service) ConfirmPayment(ctx context.Context, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("ConfirmPayment: confirming payment for reservation id=%d", id)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("ConfirmPayment: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("ConfirmPayment: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
	}

	if res.IsPaid() {
		s.logger.Warn("ConfirmPayment: reservation id=%d is already paid", id)
		return nil, ErrAlreadyPaid
	}

	// Оплачивать можно только активную бронь
	if !res.IsActive() {
		s.logger.Warn("ConfirmPayment: reservation id=%d has status %s", id, res.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrNotPayable, res.Status)
	}

	if err := s.reservationRepo.UpdatePaymentStatus(ctx, id, domain.PaymentPaid); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("ConfirmPayment: failed to update payment status for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
	}

	res.PaymentStatus = domain.PaymentPaid

	// Начисляем баллы за оплату; сбой сервиса лояльности оплату не откатывает
	if s.ledger != nil && res.UserID != nil {
		points := int64(res.TotalPrice) / s.pointsPerCurrencyUnit
		if points > 0 {
			reason := fmt.Sprintf("payment for reservation %s", res.Code)
			if err := s.ledger.CreditWithGracefulDegradation(ctx, *res.UserID, points, reason); err != nil {
				s.logger.Error("ConfirmPayment: failed to credit %d points to user_id=%d: %v",
					points, *res.UserID, err)
			}
		}
	}

	s.logger.Info("ConfirmPayment: reservation id=%d marked as paid", id)
	return models.FromDomainReservation(res), nil
}

// CompletePastReservations переводит в completed все активные брони,
// чьё время окончания прошло. Вызывается фоновой зачисткой по расписанию.
func (s *Service) CompletePastReservations(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.reservationRepo.MarkCompleted(ctx, now)
	if err != nil {
		s.logger.Error("CompletePastReservations: repository error: %v", err)
		return 0, fmt.Errorf("%w: CompletePastReservations - repository error: %v", ErrInternal, err)
	}

	if count > 0 {
		s.logger.Info("CompletePastReservations: marked %d reservations as completed", count)
	}
	return count, nil
}

// checkReadAccess проверяет право на чтение брони: владелец или администратор
// Гостевые брони (без user_id) доступны только администратору
func checkReadAccess(res *domain.Reservation, actorID *int64, isAdmin bool) error {
	if isAdmin {
		return nil
	}
	if res.UserID == nil || actorID == nil || *res.UserID != *actorID {
		return ErrAccessDenied
	}
	return nil
}
