package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/pkg/types"
)

// slot распарсенный и проверенный по формату запрошенный интервал
type slot struct {
	date  time.Time
	start types.TimeString
	end   types.TimeString
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.UserID != nil && *req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.CustomerName == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}

	if len(req.CustomerName) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName exceeds %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// parseSlot выполняет форматные проверки: дата - валидный календарный день,
// времена - валидные "HH:MM", окончание строго позже начала
func parseSlot(req *Request) (slot, error) {
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return slot{}, fmt.Errorf("%w: %q is not a valid date", ErrInvalidDate, req.Date)
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return slot{}, fmt.Errorf("%w: startTime %q is not a valid time", ErrInvalidTime, req.StartTime)
	}

	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return slot{}, fmt.Errorf("%w: endTime %q is not a valid time", ErrInvalidTime, req.EndTime)
	}

	if !start.IsBefore(end) {
		return slot{}, fmt.Errorf("%w: endTime %s must be after startTime %s", ErrInvalidTime, end, start)
	}

	return slot{date: date, start: start, end: end}, nil
}

// validateStartInFuture проверяет, что начало брони строго в будущем
// и не раньше, чем через minNoticeMinutes от текущего момента.
// Буфер - отдельная и более строгая проверка, чем "не в прошлом":
// начало ровно через minNoticeMinutes допустимо, раньше - нет
func validateStartInFuture(s slot, now time.Time, minNoticeMinutes int) error {
	start, err := s.start.At(s.date)
	if err != nil {
		return fmt.Errorf("%w: failed to combine date and time: %v", ErrInternal, err)
	}

	if !start.After(now) {
		return fmt.Errorf("%w: start %s is not in the future", ErrTimeInPast, start.Format(time.RFC3339))
	}

	threshold := now.Add(time.Duration(minNoticeMinutes) * time.Minute)
	if start.Before(threshold) {
		return fmt.Errorf("%w: must reserve at least %d minutes in advance", ErrTooLateToReserve, minNoticeMinutes)
	}

	return nil
}

// validateAdvanceWindow проверяет, что дата не дальше maxAdvanceDays от сегодня
func validateAdvanceWindow(s slot, now time.Time, maxAdvanceDays int) error {
	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, maxAdvanceDays)

	dateOnly := time.Date(s.date.Year(), s.date.Month(), s.date.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only reserve %d days in advance", ErrDateTooFarInFuture, maxAdvanceDays)
	}

	return nil
}

// validateWithinOperatingHours проверяет, что слот целиком лежит
// в рабочем окне [open, close) на эту дату
func validateWithinOperatingHours(s slot, schedule domain.DaySchedule) error {
	if s.start.IsBefore(schedule.OpenTime) || s.end.IsAfter(schedule.CloseTime) {
		return fmt.Errorf("%w: slot %s-%s is outside operating hours %s-%s",
			ErrOutsideOperatingHours, s.start, s.end, schedule.OpenTime, schedule.CloseTime)
	}
	return nil
}

// validateDuration проверяет длительность брони: не меньше минимума,
// не больше максимума и кратна шагу
func validateDuration(s slot, policy domain.BookingPolicy) error {
	minutes, err := s.end.SubMinutes(s.start)
	if err != nil {
		return fmt.Errorf("%w: failed to compute duration: %v", ErrInternal, err)
	}

	if minutes < policy.MinDurationMinutes {
		return fmt.Errorf("%w: duration %d min is below minimum %d min",
			ErrInvalidDuration, minutes, policy.MinDurationMinutes)
	}
	if minutes > policy.MaxDurationMinutes {
		return fmt.Errorf("%w: duration %d min exceeds maximum %d min",
			ErrInvalidDuration, minutes, policy.MaxDurationMinutes)
	}
	if policy.DurationStepMinutes > 0 && minutes%policy.DurationStepMinutes != 0 {
		return fmt.Errorf("%w: duration %d min must be a multiple of %d min",
			ErrInvalidDuration, minutes, policy.DurationStepMinutes)
	}

	return nil
}

// findConflict ищет активную бронь, пересекающуюся со слотом [start,end)
// Пересечение полуоткрытых интервалов: s1 < e2 && s2 < e1.
// excludeID исключает бронь из проверки (повторная валидация при замене слота)
func findConflict(s slot, reservations []*domain.Reservation, excludeID *int64) *domain.Reservation {
	for _, r := range reservations {
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		// Отменённые брони слот не занимают
		if !r.IsActive() {
			continue
		}
		if r.Overlaps(s.start, s.end) {
			return r
		}
	}
	return nil
}
