package domain

// BookingPolicy operational booking constraints, injected from configuration.
// Константы политики (буфер, глубина бронирования, шаг длительности) - это
// настройки, а не зашитые в код значения
type BookingPolicy struct {
	MinNoticeMinutes    int // минимальное время от "сейчас" до начала брони
	MaxAdvanceDays      int // максимум дней вперёд для бронирования
	MinDurationMinutes  int
	MaxDurationMinutes  int
	DurationStepMinutes int // длительность должна быть кратна шагу
}

// DefaultBookingPolicy returns the policy with system defaults
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		MinNoticeMinutes:    DefaultMinNoticeMinutes,
		MaxAdvanceDays:      DefaultMaxAdvanceDays,
		MinDurationMinutes:  DefaultMinDurationMinutes,
		MaxDurationMinutes:  DefaultMaxDurationMinutes,
		DurationStepMinutes: DefaultDurationStepMinutes,
	}
}
