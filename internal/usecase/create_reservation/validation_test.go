package create_reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/pkg/ptr"
	"github.com/m04kA/SMC-FieldService/pkg/types"
)

func validRequest() *Request {
	return &Request{
		ResourceID:    1,
		CustomerName:  "Иван Петров",
		CustomerPhone: "+79990001122",
		Date:          "2025-10-15",
		StartTime:     "18:00",
		EndTime:       "19:00",
	}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{name: "valid", mutate: func(r *Request) {}},
		{name: "zero resource", mutate: func(r *Request) { r.ResourceID = 0 }, wantErr: ErrInvalidInput},
		{name: "negative user", mutate: func(r *Request) { r.UserID = ptr.Ptr(int64(-1)) }, wantErr: ErrInvalidInput},
		{name: "empty name", mutate: func(r *Request) { r.CustomerName = "" }, wantErr: ErrInvalidInput},
		{name: "guest allowed", mutate: func(r *Request) { r.UserID = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := validateRequest(req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseSlot(t *testing.T) {
	req := validRequest()
	s, err := parseSlot(req)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), s.date)
	assert.Equal(t, types.TimeString("18:00"), s.start)
	assert.Equal(t, types.TimeString("19:00"), s.end)

	req = validRequest()
	req.Date = "15.10.2025"
	_, err = parseSlot(req)
	assert.ErrorIs(t, err, ErrInvalidDate)

	req = validRequest()
	req.StartTime = "18:99"
	_, err = parseSlot(req)
	assert.ErrorIs(t, err, ErrInvalidTime)

	// Окончание должно быть строго позже начала
	req = validRequest()
	req.EndTime = "18:00"
	_, err = parseSlot(req)
	assert.ErrorIs(t, err, ErrInvalidTime)

	req = validRequest()
	req.EndTime = "17:00"
	_, err = parseSlot(req)
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestValidateStartInFuture(t *testing.T) {
	now := time.Date(2025, 10, 15, 17, 0, 0, 0, time.UTC)
	s := slot{
		date:  time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		start: "18:00",
		end:   "19:00",
	}

	// За час до начала при буфере 30 минут - можно
	assert.NoError(t, validateStartInFuture(s, now, 30))

	// Начало ровно на границе буфера - можно
	assert.NoError(t, validateStartInFuture(s, now.Add(30*time.Minute), 30))

	// На минуту внутри буфера - нельзя
	err := validateStartInFuture(s, now.Add(31*time.Minute), 30)
	assert.ErrorIs(t, err, ErrTooLateToReserve)

	// Начало уже прошло
	err = validateStartInFuture(s, now.Add(2*time.Hour), 30)
	assert.ErrorIs(t, err, ErrTimeInPast)

	// Начало ровно "сейчас" - не в будущем
	err = validateStartInFuture(s, time.Date(2025, 10, 15, 18, 0, 0, 0, time.UTC), 30)
	assert.ErrorIs(t, err, ErrTimeInPast)
}

func TestValidateAdvanceWindow(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	mkSlot := func(date string) slot {
		d, err := time.Parse(domain.DateFormat, date)
		require.NoError(t, err)
		return slot{date: d, start: "10:00", end: "11:00"}
	}

	assert.NoError(t, validateAdvanceWindow(mkSlot("2025-10-20"), now, 30))

	// Ровно 30 дней вперёд - граница включена
	assert.NoError(t, validateAdvanceWindow(mkSlot("2025-11-14"), now, 30))

	err := validateAdvanceWindow(mkSlot("2025-11-15"), now, 30)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestValidateWithinOperatingHours(t *testing.T) {
	schedule := domain.DaySchedule{IsOpen: true, OpenTime: "06:00", CloseTime: "21:00"}

	ok := slot{start: "06:00", end: "21:00"}
	assert.NoError(t, validateWithinOperatingHours(ok, schedule))

	early := slot{start: "05:00", end: "07:00"}
	assert.ErrorIs(t, validateWithinOperatingHours(early, schedule), ErrOutsideOperatingHours)

	late := slot{start: "20:00", end: "22:00"}
	assert.ErrorIs(t, validateWithinOperatingHours(late, schedule), ErrOutsideOperatingHours)
}

func TestValidateDuration(t *testing.T) {
	policy := domain.BookingPolicy{
		MinDurationMinutes:  60,
		MaxDurationMinutes:  360,
		DurationStepMinutes: 60,
	}

	assert.NoError(t, validateDuration(slot{start: "10:00", end: "11:00"}, policy))
	assert.NoError(t, validateDuration(slot{start: "10:00", end: "16:00"}, policy))

	tooShort := slot{start: "10:00", end: "10:30"}
	assert.ErrorIs(t, validateDuration(tooShort, policy), ErrInvalidDuration)

	tooLong := slot{start: "10:00", end: "17:00"}
	assert.ErrorIs(t, validateDuration(tooLong, policy), ErrInvalidDuration)

	offStep := slot{start: "10:00", end: "11:30"}
	assert.ErrorIs(t, validateDuration(offStep, policy), ErrInvalidDuration)
}

func TestFindConflict(t *testing.T) {
	existing := []*domain.Reservation{
		{ID: 1, Code: "FLD-20251015-00001", StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
		{ID: 2, Code: "FLD-20251015-00002", StartTime: "12:00", EndTime: "13:00", Status: domain.StatusCancelled},
	}

	// Пересечение с активной бронью
	got := findConflict(slot{start: "10:30", end: "11:30"}, existing, nil)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)

	// Смежный слот не конфликтует (полуоткрытые интервалы)
	assert.Nil(t, findConflict(slot{start: "11:00", end: "12:00"}, existing, nil))

	// Отменённая бронь слот не занимает
	assert.Nil(t, findConflict(slot{start: "12:00", end: "13:00"}, existing, nil))

	// Исключённая бронь пропускается
	assert.Nil(t, findConflict(slot{start: "10:00", end: "11:00"}, existing, ptr.Ptr(int64(1))))
}
