package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-FieldService/pkg/types"
)

func TestReservation_Overlaps(t *testing.T) {
	r := &Reservation{StartTime: "10:00", EndTime: "12:00"}

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{name: "inside", start: "10:30", end: "11:30", want: true},
		{name: "covers", start: "09:00", end: "13:00", want: true},
		{name: "overlaps start", start: "09:00", end: "10:30", want: true},
		{name: "overlaps end", start: "11:30", end: "13:00", want: true},
		{name: "adjacent before", start: "08:00", end: "10:00", want: false},
		{name: "adjacent after", start: "12:00", end: "14:00", want: false},
		{name: "disjoint", start: "14:00", end: "15:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Overlaps(types.TimeString(tt.start), types.TimeString(tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReservation_StatusHelpers(t *testing.T) {
	for _, status := range []ReservationStatus{StatusPending, StatusConfirmed} {
		r := &Reservation{Status: status}
		assert.True(t, r.IsActive(), status)
		assert.True(t, r.CanBeCancelled(), status)
	}

	for _, status := range []ReservationStatus{StatusCompleted, StatusCancelled} {
		r := &Reservation{Status: status}
		assert.False(t, r.IsActive(), status)
		assert.False(t, r.CanBeCancelled(), status)
	}
}

func TestReservationCode(t *testing.T) {
	createdAt := time.Date(2025, 10, 15, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, "FLD-20251015-00001", ReservationCode(createdAt, 1))
	assert.Equal(t, "FLD-20251015-12345", ReservationCode(createdAt, 12345))
}

func TestReservation_StartEndDateTime(t *testing.T) {
	r := &Reservation{
		ReservationDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       "18:00",
		EndTime:         "19:30",
	}

	start, err := r.StartDateTime()
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 15, 18, 0, 0, 0, time.UTC), start)

	minutes, err := r.DurationMinutes()
	assert.NoError(t, err)
	assert.Equal(t, 90, minutes)
}
