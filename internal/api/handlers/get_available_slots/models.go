package get_available_slots

import (
	"github.com/m04kA/SMC-FieldService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-FieldService/internal/usecase/get_available_slots"
)

// SlotResponse свободный слот с рассчитанной стоимостью
type SlotResponse struct {
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Price      float64 `json:"price"`
	IsPeakHour bool    `json:"isPeakHour"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ResourceID   int64          `json:"resourceId"`
	Date         string         `json:"date"`
	IsOpen       bool           `json:"isOpen"`
	ClosedReason string         `json:"closedReason,omitempty"`
	OpenTime     string         `json:"openTime,omitempty"`
	CloseTime    string         `json:"closeTime,omitempty"`
	Slots        []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			Price:      s.Price,
			IsPeakHour: s.IsPeakHour,
		}
	}

	return &AvailableSlotsResponse{
		ResourceID:   resp.ResourceID,
		Date:         resp.Date.Format(domain.DateFormat),
		IsOpen:       resp.IsOpen,
		ClosedReason: resp.ClosedReason,
		OpenTime:     resp.OpenTime,
		CloseTime:    resp.CloseTime,
		Slots:        slots,
	}
}
