package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/pkg/ptr"
	"github.com/m04kA/SMC-FieldService/pkg/types"
)

var (
	monday   = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC) // понедельник
	saturday = time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC) // суббота
)

func peakTime(s string) *types.TimeString {
	ts := types.TimeString(s)
	return &ts
}

func TestQuote_PeakHourWeekday(t *testing.T) {
	engine := New(domain.DefaultPeakMultiplier)

	res := &domain.Resource{
		BasePricePerHour: 100000,
		PeakStartTime:    peakTime("17:00"),
		PeakEndTime:      peakTime("21:00"),
		PeakMultiplier:   ptr.Ptr(1.5),
	}

	quote, err := engine.Quote(res, monday, "18:00", "19:00")
	require.NoError(t, err)

	assert.Equal(t, 100000.0, quote.BasePrice)
	assert.Equal(t, 1.0, quote.DurationHours)
	assert.False(t, quote.IsWeekend)
	assert.True(t, quote.IsPeakHour)
	assert.Equal(t, 1.5, quote.PeakMultiplier)
	assert.Equal(t, 150000.0, quote.TotalPrice)
	assert.Equal(t, 100000.0, quote.Breakdown.BaseAmount)
	assert.Equal(t, 50000.0, quote.Breakdown.PeakAdditional)
}

func TestQuote_OffPeakWeekday(t *testing.T) {
	engine := New(1.5)

	res := &domain.Resource{
		BasePricePerHour: 100000,
		PeakStartTime:    peakTime("17:00"),
		PeakEndTime:      peakTime("21:00"),
	}

	quote, err := engine.Quote(res, monday, "10:00", "12:00")
	require.NoError(t, err)

	assert.False(t, quote.IsPeakHour)
	assert.Equal(t, 1.0, quote.PeakMultiplier)
	assert.Equal(t, 200000.0, quote.TotalPrice)
	assert.Equal(t, 0.0, quote.Breakdown.PeakAdditional)
}

func TestQuote_WeekendPrice(t *testing.T) {
	engine := New(1.5)

	res := &domain.Resource{
		BasePricePerHour:    100000,
		WeekdayPricePerHour: ptr.Ptr(90000.0),
		WeekendPricePerHour: ptr.Ptr(130000.0),
	}

	quote, err := engine.Quote(res, saturday, "10:00", "11:00")
	require.NoError(t, err)
	assert.True(t, quote.IsWeekend)
	assert.Equal(t, 130000.0, quote.BasePrice)
	assert.Equal(t, 130000.0, quote.TotalPrice)

	quote, err = engine.Quote(res, monday, "10:00", "11:00")
	require.NoError(t, err)
	assert.False(t, quote.IsWeekend)
	assert.Equal(t, 90000.0, quote.BasePrice)
}

func TestQuote_WeekendFallsBackToBasePrice(t *testing.T) {
	engine := New(1.5)

	res := &domain.Resource{BasePricePerHour: 100000}

	quote, err := engine.Quote(res, saturday, "10:00", "11:00")
	require.NoError(t, err)
	assert.Equal(t, 100000.0, quote.BasePrice)
}

// Слот, задевающий пиковое окно хотя бы частично, тарифицируется
// по пиковому множителю целиком
func TestQuote_PartialPeakOverlap(t *testing.T) {
	engine := New(1.5)

	res := &domain.Resource{
		BasePricePerHour: 100000,
		PeakStartTime:    peakTime("17:00"),
		PeakEndTime:      peakTime("21:00"),
		PeakMultiplier:   ptr.Ptr(2.0),
	}

	// 16:00-18:00 пересекает окно [17:00, 21:00)
	quote, err := engine.Quote(res, monday, "16:00", "18:00")
	require.NoError(t, err)
	assert.True(t, quote.IsPeakHour)
	assert.Equal(t, 400000.0, quote.TotalPrice)
}

// Границы полуоткрытых интервалов: слот, заканчивающийся ровно в начале
// пикового окна, и слот, начинающийся ровно в его конце, пиковыми не считаются
func TestQuote_PeakBoundaries(t *testing.T) {
	engine := New(1.5)

	res := &domain.Resource{
		BasePricePerHour: 100000,
		PeakStartTime:    peakTime("17:00"),
		PeakEndTime:      peakTime("21:00"),
	}

	quote, err := engine.Quote(res, monday, "16:00", "17:00")
	require.NoError(t, err)
	assert.False(t, quote.IsPeakHour)

	quote, err = engine.Quote(res, monday, "21:00", "22:00")
	require.NoError(t, err)
	assert.False(t, quote.IsPeakHour)
}

func TestQuote_DefaultPeakMultiplier(t *testing.T) {
	engine := New(1.5)

	// Пиковое окно без собственного множителя получает множитель по умолчанию
	res := &domain.Resource{
		BasePricePerHour: 100000,
		PeakStartTime:    peakTime("17:00"),
		PeakEndTime:      peakTime("21:00"),
	}

	quote, err := engine.Quote(res, monday, "18:00", "19:00")
	require.NoError(t, err)
	assert.Equal(t, 1.5, quote.PeakMultiplier)
	assert.Equal(t, 150000.0, quote.TotalPrice)
}

func TestQuote_FractionalDuration(t *testing.T) {
	engine := New(1.5)

	res := &domain.Resource{BasePricePerHour: 100000}

	quote, err := engine.Quote(res, monday, "10:00", "11:30")
	require.NoError(t, err)
	assert.Equal(t, 1.5, quote.DurationHours)
	assert.Equal(t, 150000.0, quote.TotalPrice)
}

func TestNew_ClampsInvalidMultiplier(t *testing.T) {
	engine := New(0)
	assert.Equal(t, domain.DefaultPeakMultiplier, engine.defaultPeakMultiplier)

	engine = New(0.5)
	assert.Equal(t, domain.DefaultPeakMultiplier, engine.defaultPeakMultiplier)
}
