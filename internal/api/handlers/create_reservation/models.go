package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	createReservation "github.com/m04kA/SMC-FieldService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	ResourceID    int64   `json:"resourceId"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	Date          string  `json:"date"`      // "2025-10-15"
	StartTime     string  `json:"startTime"` // "18:00"
	EndTime       string  `json:"endTime"`   // "19:00"
	Confirm       bool    `json:"confirm"`
	Notes         *string `json:"notes,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID            int64   `json:"id"`
	Code          string  `json:"code"`
	ResourceID    int64   `json:"resourceId"`
	UserID        *int64  `json:"userId,omitempty"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`

	Pricing PricingResponse `json:"pricing"`

	Notes *string `json:"notes,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// PricingResponse расчёт стоимости, выполненный на сервере
type PricingResponse struct {
	BasePrice      float64 `json:"basePrice"`
	DurationHours  float64 `json:"durationHours"`
	IsWeekend      bool    `json:"isWeekend"`
	IsPeakHour     bool    `json:"isPeakHour"`
	PeakMultiplier float64 `json:"peakMultiplier"`
	BaseAmount     float64 `json:"baseAmount"`
	PeakAdditional float64 `json:"peakAdditional"`
	TotalPrice     float64 `json:"totalPrice"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// userID nil означает гостевое бронирование
func (r *CreateReservationRequest) ToUseCaseRequest(userID *int64) *createReservation.Request {
	return &createReservation.Request{
		ResourceID:    r.ResourceID,
		UserID:        userID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Confirm:       r.Confirm,
		Notes:         r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:            resp.ID,
		Code:          resp.Code,
		ResourceID:    resp.ResourceID,
		UserID:        resp.UserID,
		CustomerName:  resp.CustomerName,
		CustomerPhone: resp.CustomerPhone,
		Date:          resp.Date.Format(domain.DateFormat),
		StartTime:     resp.StartTime,
		EndTime:       resp.EndTime,
		Status:        resp.Status,
		PaymentStatus: resp.PaymentStatus,
		Pricing: PricingResponse{
			BasePrice:      resp.BasePrice,
			DurationHours:  resp.DurationHours,
			IsWeekend:      resp.IsWeekend,
			IsPeakHour:     resp.IsPeakHour,
			PeakMultiplier: resp.PeakMultiplier,
			BaseAmount:     resp.BaseAmount,
			PeakAdditional: resp.PeakAdditional,
			TotalPrice:     resp.TotalPrice,
		},
		Notes:     resp.Notes,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
