package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/pkg/types"
)

// Request модели

// UpdateResourceRequest запрос на обновление правил ресурса
// Все времена приходят строками "HH:MM" и валидируются при конвертации
type UpdateResourceRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`

	BasePricePerHour    float64  `json:"basePricePerHour"`
	WeekdayPricePerHour *float64 `json:"weekdayPricePerHour,omitempty"`
	WeekendPricePerHour *float64 `json:"weekendPricePerHour,omitempty"`

	PeakStartTime  *string  `json:"peakStartTime,omitempty"`
	PeakEndTime    *string  `json:"peakEndTime,omitempty"`
	PeakMultiplier *float64 `json:"peakMultiplier,omitempty"`

	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`

	OperatingWeekdays []int64 `json:"operatingWeekdays,omitempty"`

	UnderMaintenance     bool    `json:"underMaintenance"`
	MaintenanceStartDate *string `json:"maintenanceStartDate,omitempty"` // "2025-10-15"
	MaintenanceEndDate   *string `json:"maintenanceEndDate,omitempty"`
	MaintenanceReason    *string `json:"maintenanceReason,omitempty"`
}

// ToDomainResource конвертирует request в domain модель с валидацией форматов
func (r *UpdateResourceRequest) ToDomainResource() (*domain.Resource, error) {
	res := &domain.Resource{
		Name:                r.Name,
		Description:         r.Description,
		BasePricePerHour:    r.BasePricePerHour,
		WeekdayPricePerHour: r.WeekdayPricePerHour,
		WeekendPricePerHour: r.WeekendPricePerHour,
		PeakMultiplier:      r.PeakMultiplier,
		OperatingWeekdays:   r.OperatingWeekdays,
		UnderMaintenance:    r.UnderMaintenance,
		MaintenanceReason:   r.MaintenanceReason,
	}

	var err error
	if res.PeakStartTime, err = parseTime(r.PeakStartTime, "peakStartTime"); err != nil {
		return nil, err
	}
	if res.PeakEndTime, err = parseTime(r.PeakEndTime, "peakEndTime"); err != nil {
		return nil, err
	}
	if res.OpenTime, err = parseTime(r.OpenTime, "openTime"); err != nil {
		return nil, err
	}
	if res.CloseTime, err = parseTime(r.CloseTime, "closeTime"); err != nil {
		return nil, err
	}
	if res.MaintenanceStartDate, err = parseDate(r.MaintenanceStartDate, "maintenanceStartDate"); err != nil {
		return nil, err
	}
	if res.MaintenanceEndDate, err = parseDate(r.MaintenanceEndDate, "maintenanceEndDate"); err != nil {
		return nil, err
	}

	return res, nil
}

func parseTime(s *string, field string) (*types.TimeString, error) {
	if s == nil {
		return nil, nil
	}
	t, err := types.NewTimeStringFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &t, nil
}

func parseDate(s *string, field string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	d, err := time.Parse(domain.DateFormat, *s)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a valid date", field, *s)
	}
	return &d, nil
}

// Response модели

// ResourceResponse ответ с данными ресурса
type ResourceResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`

	BasePricePerHour    float64  `json:"basePricePerHour"`
	WeekdayPricePerHour *float64 `json:"weekdayPricePerHour,omitempty"`
	WeekendPricePerHour *float64 `json:"weekendPricePerHour,omitempty"`

	PeakStartTime  *string  `json:"peakStartTime,omitempty"`
	PeakEndTime    *string  `json:"peakEndTime,omitempty"`
	PeakMultiplier *float64 `json:"peakMultiplier,omitempty"`

	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`

	OperatingWeekdays []int64 `json:"operatingWeekdays,omitempty"`

	UnderMaintenance     bool    `json:"underMaintenance"`
	MaintenanceStartDate *string `json:"maintenanceStartDate,omitempty"`
	MaintenanceEndDate   *string `json:"maintenanceEndDate,omitempty"`
	MaintenanceReason    *string `json:"maintenanceReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ResourceListResponse ответ со списком ресурсов
type ResourceListResponse struct {
	Resources []ResourceResponse `json:"resources"`
}

// FromDomainResource конвертирует domain модель в DTO
func FromDomainResource(r *domain.Resource) *ResourceResponse {
	if r == nil {
		return nil
	}

	resp := &ResourceResponse{
		ID:                  r.ID,
		Name:                r.Name,
		Description:         r.Description,
		BasePricePerHour:    r.BasePricePerHour,
		WeekdayPricePerHour: r.WeekdayPricePerHour,
		WeekendPricePerHour: r.WeekendPricePerHour,
		PeakMultiplier:      r.PeakMultiplier,
		OperatingWeekdays:   r.OperatingWeekdays,
		UnderMaintenance:    r.UnderMaintenance,
		MaintenanceReason:   r.MaintenanceReason,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}

	resp.PeakStartTime = timeToString(r.PeakStartTime)
	resp.PeakEndTime = timeToString(r.PeakEndTime)
	resp.OpenTime = timeToString(r.OpenTime)
	resp.CloseTime = timeToString(r.CloseTime)
	resp.MaintenanceStartDate = dateToString(r.MaintenanceStartDate)
	resp.MaintenanceEndDate = dateToString(r.MaintenanceEndDate)

	return resp
}

// FromDomainResourceList конвертирует список domain моделей в DTO
func FromDomainResourceList(resources []*domain.Resource) *ResourceListResponse {
	if resources == nil {
		return &ResourceListResponse{Resources: []ResourceResponse{}}
	}

	resp := &ResourceListResponse{
		Resources: make([]ResourceResponse, len(resources)),
	}
	for i, r := range resources {
		if dto := FromDomainResource(r); dto != nil {
			resp.Resources[i] = *dto
		}
	}
	return resp
}

func timeToString(t *types.TimeString) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

func dateToString(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(domain.DateFormat)
	return &s
}
