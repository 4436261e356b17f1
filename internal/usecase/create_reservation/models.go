package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
)

// Request модель запроса на создание бронирования
// Дата и время приходят строками и проходят через пайплайн валидации:
// формат проверяется до обращения к хранилищу
type Request struct {
	ResourceID    int64   // ID ресурса (поля/корта)
	UserID        *int64  // ID пользователя, nil для гостевого бронирования
	CustomerName  string  // Имя заказчика
	CustomerPhone string  // Контактный телефон
	Date          string  // Дата бронирования "2025-10-15"
	StartTime     string  // Время начала "18:00"
	EndTime       string  // Время окончания "19:00"
	Confirm       bool    // true = создать сразу подтверждённой, false = pending
	Notes         *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64
	Code          string // FLD-YYYYMMDD-NNNNN
	ResourceID    int64
	UserID        *int64
	CustomerName  string
	CustomerPhone string
	Date          time.Time
	StartTime     string
	EndTime       string
	Status        string
	PaymentStatus string

	// Расчёт стоимости, выполненный на сервере
	BasePrice      float64
	DurationHours  float64
	IsWeekend      bool
	IsPeakHour     bool
	PeakMultiplier float64
	TotalPrice     float64
	BaseAmount     float64
	PeakAdditional float64

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Conflict детали конфликта слота: какая бронь заблокировала попытку
type Conflict struct {
	ReservationCode string
	StartTime       string
	EndTime         string
}

func toResponse(res *domain.Reservation, quote domain.PriceQuote) *Response {
	return &Response{
		ID:             res.ID,
		Code:           res.Code,
		ResourceID:     res.ResourceID,
		UserID:         res.UserID,
		CustomerName:   res.CustomerName,
		CustomerPhone:  res.CustomerPhone,
		Date:           res.ReservationDate,
		StartTime:      res.StartTime.String(),
		EndTime:        res.EndTime.String(),
		Status:         string(res.Status),
		PaymentStatus:  string(res.PaymentStatus),
		BasePrice:      quote.BasePrice,
		DurationHours:  quote.DurationHours,
		IsWeekend:      quote.IsWeekend,
		IsPeakHour:     quote.IsPeakHour,
		PeakMultiplier: quote.PeakMultiplier,
		TotalPrice:     quote.TotalPrice,
		BaseAmount:     quote.Breakdown.BaseAmount,
		PeakAdditional: quote.Breakdown.PeakAdditional,
		Notes:          res.Notes,
		CreatedAt:      res.CreatedAt,
		UpdatedAt:      res.UpdatedAt,
	}
}
