package domain

import "github.com/m04kA/SMC-FieldService/pkg/types"

// AvailableSlot represents a bookable time interval with its quoted price.
// Availability listings are advisory: the authoritative conflict check runs
// inside the reservation transaction at commit time.
type AvailableSlot struct {
	StartTime  types.TimeString
	EndTime    types.TimeString
	Price      float64
	IsPeakHour bool
}

// DaySchedule is the operational calendar verdict for one resource and date
type DaySchedule struct {
	IsOpen       bool
	OpenTime     types.TimeString // заполнено только при IsOpen=true
	CloseTime    types.TimeString
	ClosedReason string // причина закрытия, пустая при IsOpen=true
}
