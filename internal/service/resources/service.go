package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-FieldService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-FieldService/internal/service/resources/models"
)

// Service сервис для работы с ресурсами (полями/кортами)
// Административный контур: справочник правил ценообразования и режима работы
type Service struct {
	resourceRepo ResourceRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса ресурсов
func NewService(resourceRepo ResourceRepository, logger Logger) *Service {
	return &Service{
		resourceRepo: resourceRepo,
		logger:       logger,
	}
}

// GetByID получает ресурс по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ResourceResponse, error) {
	s.logger.Info("GetByID: fetching resource id=%d", id)

	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("GetByID: resource id=%d not found", id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("GetByID: repository error for resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainResource(res), nil
}

// List получает все ресурсы
func (s *Service) List(ctx context.Context) (*models.ResourceListResponse, error) {
	s.logger.Info("List: fetching all resources")

	resources, err := s.resourceRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d resources", len(resources))
	return models.FromDomainResourceList(resources), nil
}

// Update обновляет правила ценообразования и режим работы ресурса
// Только для администратора; проверка роли выполняется на уровне API
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateResourceRequest) (*models.ResourceResponse, error) {
	s.logger.Info("Update: updating resource id=%d", id)

	if id <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	res, err := req.ToDomainResource()
	if err != nil {
		s.logger.Warn("Update: invalid request for resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := validateResource(res); err != nil {
		s.logger.Warn("Update: validation failed for resource id=%d: %v", id, err)
		return nil, err
	}

	updated, err := s.resourceRepo.Update(ctx, id, res)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("Update: resource id=%d not found", id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("Update: repository error for resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated resource id=%d", id)
	return models.FromDomainResource(updated), nil
}

// validateResource проверяет бизнес-инварианты правил ресурса
func validateResource(res *domain.Resource) error {
	if res.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if res.BasePricePerHour <= 0 {
		return fmt.Errorf("%w: basePricePerHour must be positive", ErrInvalidInput)
	}
	if res.WeekdayPricePerHour != nil && *res.WeekdayPricePerHour <= 0 {
		return fmt.Errorf("%w: weekdayPricePerHour must be positive", ErrInvalidInput)
	}
	if res.WeekendPricePerHour != nil && *res.WeekendPricePerHour <= 0 {
		return fmt.Errorf("%w: weekendPricePerHour must be positive", ErrInvalidInput)
	}

	// Пиковое окно задаётся либо целиком, либо не задаётся вовсе
	if (res.PeakStartTime == nil) != (res.PeakEndTime == nil) {
		return fmt.Errorf("%w: peak window requires both peakStartTime and peakEndTime", ErrInvalidInput)
	}
	if res.HasPeakWindow() && !res.PeakStartTime.IsBefore(*res.PeakEndTime) {
		return fmt.Errorf("%w: peakEndTime must be after peakStartTime", ErrInvalidInput)
	}
	if res.PeakMultiplier != nil && *res.PeakMultiplier < 1.0 {
		return fmt.Errorf("%w: peakMultiplier must be >= 1.0", ErrInvalidInput)
	}

	if (res.OpenTime == nil) != (res.CloseTime == nil) {
		return fmt.Errorf("%w: operating hours require both openTime and closeTime", ErrInvalidInput)
	}
	if res.HasExplicitHours() && !res.OpenTime.IsBefore(*res.CloseTime) {
		return fmt.Errorf("%w: closeTime must be after openTime", ErrInvalidInput)
	}

	seen := make(map[int64]bool)
	for _, d := range res.OperatingWeekdays {
		if d < 1 || d > 7 {
			return fmt.Errorf("%w: operatingWeekdays must be ISO weekdays 1..7", ErrInvalidInput)
		}
		if seen[d] {
			return fmt.Errorf("%w: operatingWeekdays contains duplicate %d", ErrInvalidInput, d)
		}
		seen[d] = true
	}

	if res.MaintenanceStartDate != nil && res.MaintenanceEndDate != nil &&
		res.MaintenanceEndDate.Before(*res.MaintenanceStartDate) {
		return fmt.Errorf("%w: maintenanceEndDate must not be before maintenanceStartDate", ErrInvalidInput)
	}

	return nil
}
