package notify

// Имена очередей событий бронирования
const (
	QueueReservationCreated   = "reservation.created"
	QueueReservationCancelled = "reservation.cancelled"
)

// ReservationCreatedEvent публикуется после успешного создания бронирования
// Содержит достаточно данных, чтобы потребители (уведомления, аналитика)
// не ходили в основную БД
type ReservationCreatedEvent struct {
	EventID         string  `json:"event_id"`
	ReservationID   int64   `json:"reservation_id"`
	Code            string  `json:"code"`
	ResourceID      int64   `json:"resource_id"`
	UserID          *int64  `json:"user_id,omitempty"`
	CustomerName    string  `json:"customer_name"`
	ReservationDate string  `json:"reservation_date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	TotalPrice      float64 `json:"total_price"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
}

// ReservationCancelledEvent публикуется после отмены бронирования
type ReservationCancelledEvent struct {
	EventID         string  `json:"event_id"`
	ReservationID   int64   `json:"reservation_id"`
	Code            string  `json:"code"`
	ResourceID      int64   `json:"resource_id"`
	UserID          *int64  `json:"user_id,omitempty"`
	ReservationDate string  `json:"reservation_date"`
	StartTime       string  `json:"start_time"`
	RefundPercent   int     `json:"refund_percent"`
	RefundAmount    float64 `json:"refund_amount"`
	RefundMethod    string  `json:"refund_method"`
	Reason          string  `json:"reason"`
	CancelledAt     string  `json:"cancelled_at"`
}
