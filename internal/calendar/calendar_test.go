package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/pkg/ptr"
	"github.com/m04kA/SMC-FieldService/pkg/types"
)

var (
	monday = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC)
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaySchedule_DefaultHours(t *testing.T) {
	cal := New("06:00", "21:00")

	schedule := cal.DaySchedule(&domain.Resource{}, monday)

	assert.True(t, schedule.IsOpen)
	assert.Equal(t, types.TimeString("06:00"), schedule.OpenTime)
	assert.Equal(t, types.TimeString("21:00"), schedule.CloseTime)
}

func TestDaySchedule_ExplicitHoursOverrideDefaults(t *testing.T) {
	cal := New("06:00", "21:00")

	open := types.TimeString("08:00")
	close := types.TimeString("23:00")
	res := &domain.Resource{OpenTime: &open, CloseTime: &close}

	schedule := cal.DaySchedule(res, monday)

	assert.True(t, schedule.IsOpen)
	assert.Equal(t, open, schedule.OpenTime)
	assert.Equal(t, close, schedule.CloseTime)
}

func TestDaySchedule_Maintenance(t *testing.T) {
	cal := New("06:00", "21:00")

	res := &domain.Resource{
		UnderMaintenance:     true,
		MaintenanceStartDate: ptr.Ptr(date(2025, 10, 10)),
		MaintenanceEndDate:   ptr.Ptr(date(2025, 10, 15)),
		MaintenanceReason:    ptr.Ptr("полив газона"),
	}

	schedule := cal.DaySchedule(res, monday)
	assert.False(t, schedule.IsOpen)
	assert.Equal(t, "полив газона", schedule.ClosedReason)

	// Дата за пределами окна обслуживания - ресурс работает
	schedule = cal.DaySchedule(res, date(2025, 10, 16))
	assert.True(t, schedule.IsOpen)
}

func TestDaySchedule_MaintenanceDefaultReason(t *testing.T) {
	cal := New("06:00", "21:00")

	res := &domain.Resource{UnderMaintenance: true}

	schedule := cal.DaySchedule(res, monday)
	assert.False(t, schedule.IsOpen)
	assert.Equal(t, domain.DefaultMaintenanceReason, schedule.ClosedReason)
}

// Обслуживание с открытыми границами: nil-дата означает "без ограничения"
func TestDaySchedule_MaintenanceOpenEnded(t *testing.T) {
	cal := New("06:00", "21:00")

	res := &domain.Resource{
		UnderMaintenance:     true,
		MaintenanceStartDate: ptr.Ptr(date(2025, 10, 14)),
	}

	assert.True(t, cal.DaySchedule(res, monday).IsOpen)
	assert.False(t, cal.DaySchedule(res, date(2025, 12, 31)).IsOpen)
}

func TestDaySchedule_OperatingWeekdays(t *testing.T) {
	cal := New("06:00", "21:00")

	// Работает только по будням
	res := &domain.Resource{OperatingWeekdays: []int64{1, 2, 3, 4, 5}}

	assert.True(t, cal.DaySchedule(res, monday).IsOpen)

	schedule := cal.DaySchedule(res, sunday)
	assert.False(t, schedule.IsOpen)
	assert.Equal(t, ReasonNotOperational, schedule.ClosedReason)
}

func TestDaySchedule_EmptyWeekdaysMeansEveryDay(t *testing.T) {
	cal := New("06:00", "21:00")

	res := &domain.Resource{}

	assert.True(t, cal.DaySchedule(res, monday).IsOpen)
	assert.True(t, cal.DaySchedule(res, sunday).IsOpen)
}

// Обслуживание имеет приоритет над правилами дней недели
func TestDaySchedule_MaintenanceBeatsWeekdayRule(t *testing.T) {
	cal := New("06:00", "21:00")

	res := &domain.Resource{
		OperatingWeekdays: []int64{6, 7},
		UnderMaintenance:  true,
		MaintenanceReason: ptr.Ptr("ремонт покрытия"),
	}

	schedule := cal.DaySchedule(res, sunday)
	assert.False(t, schedule.IsOpen)
	assert.Equal(t, "ремонт покрытия", schedule.ClosedReason)
}
