package domain

// PriceQuote is the result of a pricing computation for one slot
type PriceQuote struct {
	BasePrice      float64 // цена за час, выбранная по дню недели
	DurationHours  float64
	IsWeekend      bool
	IsPeakHour     bool
	PeakMultiplier float64
	TotalPrice     float64
	Breakdown      PriceBreakdown
}

// PriceBreakdown detalizes the quote for display purposes
type PriceBreakdown struct {
	BaseAmount     float64 // BasePrice * DurationHours
	PeakAdditional float64 // доплата за пиковые часы, 0 если слот вне пика
}
