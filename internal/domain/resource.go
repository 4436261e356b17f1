package domain

import (
	"time"

	"github.com/m04kA/SMC-FieldService/pkg/types"
)

// Resource represents a bookable physical asset (a field or court)
// with its own pricing and operating rules
type Resource struct {
	ID          int64
	Name        string
	Description *string

	// Pricing rules. Weekday/weekend prices fall back to BasePricePerHour
	BasePricePerHour    float64
	WeekdayPricePerHour *float64
	WeekendPricePerHour *float64

	// Optional peak-hour window with a price multiplier >= 1.0
	PeakStartTime  *types.TimeString
	PeakEndTime    *types.TimeString
	PeakMultiplier *float64 // nil = DefaultPeakMultiplier when a window is set

	// Optional explicit operating hours, falling back to the system default
	OpenTime  *types.TimeString
	CloseTime *types.TimeString

	// ISO weekdays (1=Monday..7=Sunday) the resource operates on
	// Пустой список = работает каждый день
	OperatingWeekdays []int64

	UnderMaintenance     bool
	MaintenanceStartDate *time.Time
	MaintenanceEndDate   *time.Time
	MaintenanceReason    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPeakWindow returns true if a peak-hour window is configured
func (r *Resource) HasPeakWindow() bool {
	return r.PeakStartTime != nil && r.PeakEndTime != nil
}

// HasExplicitHours returns true if the resource overrides the default operating hours
func (r *Resource) HasExplicitHours() bool {
	return r.OpenTime != nil && r.CloseTime != nil
}

// OperatesOn reports whether the resource operates on the given ISO weekday (1..7)
func (r *Resource) OperatesOn(isoWeekday int) bool {
	if len(r.OperatingWeekdays) == 0 {
		return true
	}
	for _, d := range r.OperatingWeekdays {
		if int(d) == isoWeekday {
			return true
		}
	}
	return false
}

// InMaintenance reports whether the maintenance window covers the given date.
// Открытая граница (nil) означает "без ограничения" с соответствующей стороны.
func (r *Resource) InMaintenance(date time.Time) bool {
	if !r.UnderMaintenance {
		return false
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	if r.MaintenanceStartDate != nil {
		start := *r.MaintenanceStartDate
		startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, date.Location())
		if day.Before(startDay) {
			return false
		}
	}
	if r.MaintenanceEndDate != nil {
		end := *r.MaintenanceEndDate
		endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, date.Location())
		if day.After(endDay) {
			return false
		}
	}
	return true
}

// ISOWeekday returns the ISO weekday number for a date (1=Monday..7=Sunday)
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// IsWeekendDate reports whether the date falls on Saturday or Sunday
func IsWeekendDate(date time.Time) bool {
	wd := ISOWeekday(date)
	return wd == 6 || wd == 7
}
