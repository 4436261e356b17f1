package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/pkg/types"
)

func TestBuildGrid(t *testing.T) {
	grid, err := buildGrid("06:00", "09:00", 60, 60)
	require.NoError(t, err)

	require.Len(t, grid, 3)
	assert.Equal(t, candidate{start: "06:00", end: "07:00"}, grid[0])
	assert.Equal(t, candidate{start: "07:00", end: "08:00"}, grid[1])
	assert.Equal(t, candidate{start: "08:00", end: "09:00"}, grid[2])
}

// Слот, не помещающийся целиком до закрытия, в сетку не попадает
func TestBuildGrid_PartialSlotDropped(t *testing.T) {
	grid, err := buildGrid("06:00", "08:30", 60, 60)
	require.NoError(t, err)

	require.Len(t, grid, 2)
	assert.Equal(t, types.TimeString("08:00"), grid[1].end)
}

func TestBuildGrid_StepSmallerThanSlot(t *testing.T) {
	grid, err := buildGrid("06:00", "08:00", 60, 30)
	require.NoError(t, err)

	require.Len(t, grid, 3)
	assert.Equal(t, candidate{start: "06:30", end: "07:30"}, grid[1])
}

// Окно до конца суток не зацикливается на переносе через полночь
func TestBuildGrid_UntilEndOfDay(t *testing.T) {
	grid, err := buildGrid("22:00", "23:59", 60, 60)
	require.NoError(t, err)

	require.Len(t, grid, 1)
	assert.Equal(t, candidate{start: "22:00", end: "23:00"}, grid[0])
}

func TestBuildGrid_InvalidParams(t *testing.T) {
	_, err := buildGrid("06:00", "21:00", 0, 60)
	assert.Error(t, err)

	_, err = buildGrid("06:00", "21:00", 60, 0)
	assert.Error(t, err)
}

func TestFilterPast(t *testing.T) {
	grid := []candidate{
		{start: "10:00", end: "11:00"},
		{start: "11:00", end: "12:00"},
		{start: "12:00", end: "13:00"},
	}

	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 10, 15, 10, 30, 0, 0, time.UTC)

	filtered, err := filterPast(grid, date, now, 30)
	require.NoError(t, err)

	// 10:00 в прошлом, 11:00 ровно на границе буфера - остаётся
	require.Len(t, filtered, 2)
	assert.Equal(t, types.TimeString("11:00"), filtered[0].start)
}

func TestFilterPast_FutureDateUntouched(t *testing.T) {
	grid := []candidate{{start: "06:00", end: "07:00"}}

	date := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 10, 15, 23, 0, 0, 0, time.UTC)

	filtered, err := filterPast(grid, date, now, 30)
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestFilterOccupied(t *testing.T) {
	grid := []candidate{
		{start: "10:00", end: "11:00"},
		{start: "11:00", end: "12:00"},
		{start: "12:00", end: "13:00"},
	}

	reservations := []*domain.Reservation{
		{StartTime: "10:30", EndTime: "11:30", Status: domain.StatusConfirmed},
		{StartTime: "12:00", EndTime: "13:00", Status: domain.StatusCancelled},
	}

	filtered := filterOccupied(grid, reservations)

	// Активная бронь задевает первые два слота; отменённая не считается
	require.Len(t, filtered, 1)
	assert.Equal(t, types.TimeString("12:00"), filtered[0].start)
}
