package pricing

import (
	"math"
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/pkg/types"
)

// Engine вычисляет стоимость слота по правилам ценообразования ресурса
// Чистые вычисления без состояния: один и тот же вход всегда даёт один
// и тот же результат. Цена всегда пересчитывается на сервере в момент
// бронирования - цене из запроса клиента доверять нельзя.
type Engine struct {
	defaultPeakMultiplier float64
}

// New создает pricing engine с множителем пиковых часов по умолчанию
// Множитель применяется, когда у ресурса задано пиковое окно без множителя
func New(defaultPeakMultiplier float64) *Engine {
	if defaultPeakMultiplier < 1.0 {
		defaultPeakMultiplier = domain.DefaultPeakMultiplier
	}
	return &Engine{defaultPeakMultiplier: defaultPeakMultiplier}
}

// Quote вычисляет стоимость слота [start, end) на указанную дату
// Корректность интервала (end > start) гарантируется вызывающей стороной
func (e *Engine) Quote(res *domain.Resource, date time.Time, start, end types.TimeString) (domain.PriceQuote, error) {
	durationMinutes, err := end.SubMinutes(start)
	if err != nil {
		return domain.PriceQuote{}, err
	}
	durationHours := float64(durationMinutes) / 60.0

	isWeekend := domain.IsWeekendDate(date)
	basePrice := e.basePriceFor(res, isWeekend)

	isPeak := e.overlapsPeakWindow(res, start, end)
	multiplier := 1.0
	if isPeak {
		multiplier = e.defaultPeakMultiplier
		if res.PeakMultiplier != nil {
			multiplier = *res.PeakMultiplier
		}
	}

	baseAmount := basePrice * durationHours
	peakAdditional := 0.0
	if isPeak {
		peakAdditional = baseAmount * (multiplier - 1)
	}

	return domain.PriceQuote{
		BasePrice:      basePrice,
		DurationHours:  durationHours,
		IsWeekend:      isWeekend,
		IsPeakHour:     isPeak,
		PeakMultiplier: multiplier,
		TotalPrice:     round2(basePrice * durationHours * multiplier),
		Breakdown: domain.PriceBreakdown{
			BaseAmount:     baseAmount,
			PeakAdditional: peakAdditional,
		},
	}, nil
}

// basePriceFor выбирает цену за час: цена выходного/буднего дня,
// если задана, иначе базовая цена ресурса
func (e *Engine) basePriceFor(res *domain.Resource, isWeekend bool) float64 {
	if isWeekend && res.WeekendPricePerHour != nil {
		return *res.WeekendPricePerHour
	}
	if !isWeekend && res.WeekdayPricePerHour != nil {
		return *res.WeekdayPricePerHour
	}
	return res.BasePricePerHour
}

// overlapsPeakWindow проверяет пересечение [start,end) с пиковым окном
// Тот же предикат пересечения, что и у проверки конфликтов броней
func (e *Engine) overlapsPeakWindow(res *domain.Resource, start, end types.TimeString) bool {
	if !res.HasPeakWindow() {
		return false
	}
	return res.PeakStartTime.IsBefore(end) && start.IsBefore(*res.PeakEndTime)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
