package get_available_slots

import "time"

// Request модель запроса доступных слотов
type Request struct {
	ResourceID int64
	Date       string // "2025-10-15"
}

// Slot свободный слот с рассчитанной стоимостью
type Slot struct {
	StartTime  string
	EndTime    string
	Price      float64
	IsPeakHour bool
}

// Response модель ответа с доступными слотами на дату
// Для закрытого дня IsOpen=false, ClosedReason объясняет причину,
// слоты отсутствуют
type Response struct {
	ResourceID   int64
	Date         time.Time
	IsOpen       bool
	ClosedReason string
	OpenTime     string
	CloseTime    string
	Slots        []Slot
}
