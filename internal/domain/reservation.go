package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-FieldService/pkg/types"
)

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// PaymentStatus tracks money collection, independent from the slot lifecycle
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Reservation represents one booked time interval on one resource
type Reservation struct {
	ID         int64
	Code       string // FLD-YYYYMMDD-NNNNN, уникален глобально
	ResourceID int64
	UserID     *int64 // nil = гостевое бронирование

	CustomerName  string
	CustomerPhone string

	ReservationDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString

	Status        ReservationStatus
	PaymentStatus PaymentStatus

	// Price snapshot computed server-side at booking time
	BasePrice      float64
	PeakMultiplier float64
	IsWeekend      bool
	IsPeakHour     bool
	TotalPrice     float64

	Notes *string

	CancellationReason *string
	CancelledBy        *int64
	CancelledAt        *time.Time
	RefundPercent      *int
	RefundAmount       *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation occupies its slot
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// CanBeCancelled returns true if the reservation is in a cancellable state
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsCancelled returns true if the reservation has been cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// IsPaid returns true if money was actually collected for the reservation
func (r *Reservation) IsPaid() bool {
	return r.PaymentStatus == PaymentPaid
}

// DurationMinutes returns the booked duration in minutes
func (r *Reservation) DurationMinutes() (int, error) {
	return r.EndTime.SubMinutes(r.StartTime)
}

// StartDateTime returns the full start timestamp of the reservation
func (r *Reservation) StartDateTime() (time.Time, error) {
	return r.StartTime.At(r.ReservationDate)
}

// EndDateTime returns the full end timestamp of the reservation
func (r *Reservation) EndDateTime() (time.Time, error) {
	return r.EndTime.At(r.ReservationDate)
}

// Overlaps reports whether the half-open interval [start,end) intersects
// this reservation's [StartTime,EndTime)
func (r *Reservation) Overlaps(start, end types.TimeString) bool {
	return r.StartTime.IsBefore(end) && start.IsBefore(r.EndTime)
}

// ReservationCode формирует код бронирования из даты создания и номера в дне
func ReservationCode(createdAt time.Time, sequence int) string {
	return fmt.Sprintf("%s-%s-%05d", CodePrefix, createdAt.Format(CodeDateFormat), sequence)
}

// ResourceReservationsFilter фильтр для выборки бронирований ресурса
type ResourceReservationsFilter struct {
	ResourceID      int64              // Обязательный параметр
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *ReservationStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые бронирования
}
