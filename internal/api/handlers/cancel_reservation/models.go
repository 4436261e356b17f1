package cancel_reservation

import (
	"time"

	cancelReservation "github.com/m04kA/SMC-FieldService/internal/usecase/cancel_reservation"
)

// CancelReservationRequest HTTP request model
type CancelReservationRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CancelReservationResponse HTTP response model
type CancelReservationResponse struct {
	ID            int64  `json:"id"`
	Code          string `json:"code"`
	ResourceID    int64  `json:"resourceId"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`

	RefundPercent  int     `json:"refundPercent"`
	RefundAmount   float64 `json:"refundAmount"`
	RefundMethod   string  `json:"refundMethod"`
	PointsCredited int64   `json:"pointsCredited"`

	CancelledAt string `json:"cancelledAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelReservation.Response) *CancelReservationResponse {
	return &CancelReservationResponse{
		ID:             resp.ID,
		Code:           resp.Code,
		ResourceID:     resp.ResourceID,
		Status:         resp.Status,
		PaymentStatus:  resp.PaymentStatus,
		RefundPercent:  resp.RefundPercent,
		RefundAmount:   resp.RefundAmount,
		RefundMethod:   resp.RefundMethod,
		PointsCredited: resp.PointsCredited,
		CancelledAt:    resp.CancelledAt.Format(time.RFC3339),
	}
}
