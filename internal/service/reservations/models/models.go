package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// GetUserReservationsRequest запрос на получение бронирований пользователя
type GetUserReservationsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetResourceReservationsRequest запрос на получение бронирований ресурса
type GetResourceReservationsRequest struct {
	ResourceID      int64      `json:"resourceId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetResourceReservationsRequest) ToDomainFilter() (domain.ResourceReservationsFilter, error) {
	filter := domain.ResourceReservationsFilter{
		ResourceID:      r.ResourceID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainReservationStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID              int64   `json:"id"`
	Code            string  `json:"code"`
	ResourceID      int64   `json:"resourceId"`
	UserID          *int64  `json:"userId,omitempty"`
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	ReservationDate string  `json:"reservationDate"` // "2025-10-15"
	StartTime       string  `json:"startTime"`       // "18:00"
	EndTime         string  `json:"endTime"`         // "19:00"
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`

	// Снимок расчёта стоимости на момент создания
	BasePrice      float64 `json:"basePrice"`
	PeakMultiplier float64 `json:"peakMultiplier"`
	IsWeekend      bool    `json:"isWeekend"`
	IsPeakHour     bool    `json:"isPeakHour"`
	TotalPrice     float64 `json:"totalPrice"`

	Notes *string `json:"notes,omitempty"`

	CancellationReason *string  `json:"cancellationReason,omitempty"`
	CancelledAt        *string  `json:"cancelledAt,omitempty"` // ISO 8601 format
	RefundPercent      *int     `json:"refundPercent,omitempty"`
	RefundAmount       *float64 `json:"refundAmount,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                 r.ID,
		Code:               r.Code,
		ResourceID:         r.ResourceID,
		UserID:             r.UserID,
		CustomerName:       r.CustomerName,
		CustomerPhone:      r.CustomerPhone,
		ReservationDate:    r.ReservationDate.Format(domain.DateFormat),
		StartTime:          r.StartTime.String(),
		EndTime:            r.EndTime.String(),
		Status:             string(r.Status),
		PaymentStatus:      string(r.PaymentStatus),
		BasePrice:          r.BasePrice,
		PeakMultiplier:     r.PeakMultiplier,
		IsWeekend:          r.IsWeekend,
		IsPeakHour:         r.IsPeakHour,
		TotalPrice:         r.TotalPrice,
		Notes:              r.Notes,
		CancellationReason: r.CancellationReason,
		RefundPercent:      r.RefundPercent,
		RefundAmount:       r.RefundAmount,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	if r.CancelledAt != nil {
		cancelledStr := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	if reservations == nil {
		return &ReservationListResponse{
			Reservations: []ReservationResponse{},
		}
	}

	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, len(reservations)),
	}

	for i, r := range reservations {
		if dto := FromDomainReservation(r); dto != nil {
			resp.Reservations[i] = *dto
		}
	}

	return resp
}

// ToDomainReservationStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)

	validStatuses := []domain.ReservationStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusCompleted,
		domain.StatusCancelled,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
