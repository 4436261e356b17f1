package domain

// Default booking policy values, used when the [booking] config section is empty
const (
	DefaultMinNoticeMinutes      = 30
	DefaultMaxAdvanceDays        = 30
	DefaultMinDurationMinutes    = 60
	DefaultMaxDurationMinutes    = 360
	DefaultDurationStepMinutes   = 60
	DefaultOpenTime              = "06:00"
	DefaultCloseTime             = "21:00"
	DefaultPeakMultiplier        = 1.5
	DefaultFullRefundNoticeHours = 24
	DefaultLateRefundPercent     = 50
	DefaultPointsPerCurrencyUnit = 1000
)

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Reservation code format: FLD-YYYYMMDD-NNNNN
// Последовательность сбрасывается каждый календарный день
const (
	CodePrefix     = "FLD"
	CodeDateFormat = "20060102"
)

// DefaultMaintenanceReason причина закрытия по умолчанию, если при включении
// режима обслуживания причина не указана
const DefaultMaintenanceReason = "under maintenance"

// InactiveStatuses список статусов, не участвующих в проверке пересечения слотов
// Отменённое бронирование освобождает слот сразу
var InactiveStatuses = []ReservationStatus{
	StatusCancelled,
}

// ActiveStatuses список статусов, занимающих слот
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}
