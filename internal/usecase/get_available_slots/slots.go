package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/pkg/types"
)

// candidate кандидатный слот сетки до проверки занятости
type candidate struct {
	start types.TimeString
	end   types.TimeString
}

// buildGrid строит сетку кандидатных слотов длиной slotMinutes с шагом
// stepMinutes внутри рабочего окна [open, close). Последний слот, который
// не помещается целиком до закрытия, в сетку не попадает.
func buildGrid(open, close types.TimeString, slotMinutes, stepMinutes int) ([]candidate, error) {
	if slotMinutes <= 0 || stepMinutes <= 0 {
		return nil, fmt.Errorf("slot and step must be positive, got slot=%d step=%d", slotMinutes, stepMinutes)
	}

	grid := make([]candidate, 0)

	cursor := open
	for {
		end, err := cursor.AddMinutes(slotMinutes)
		if err != nil {
			return nil, err
		}
		// AddMinutes обрезает по модулю суток: перенос через полночь
		// означает выход за пределы дня
		if !end.IsAfter(cursor) {
			break
		}
		if end.IsAfter(close) {
			break
		}

		grid = append(grid, candidate{start: cursor, end: end})

		next, err := cursor.AddMinutes(stepMinutes)
		if err != nil {
			return nil, err
		}
		if !next.IsAfter(cursor) {
			break
		}
		cursor = next
	}

	return grid, nil
}

// filterPast отбрасывает слоты, до начала которых осталось меньше
// minNoticeMinutes. Начало ровно на границе буфера остаётся доступным.
// Для дат в будущем сетка проходит без изменений.
func filterPast(grid []candidate, date time.Time, now time.Time, minNoticeMinutes int) ([]candidate, error) {
	threshold := now.Add(time.Duration(minNoticeMinutes) * time.Minute)

	filtered := make([]candidate, 0, len(grid))
	for _, c := range grid {
		start, err := c.start.At(date)
		if err != nil {
			return nil, err
		}
		if start.Before(threshold) {
			continue
		}
		filtered = append(filtered, c)
	}

	return filtered, nil
}

// filterOccupied отбрасывает слоты, пересекающиеся хотя бы с одной
// активной бронью. Пересечение полуоткрытых интервалов: s1 < e2 && s2 < e1.
func filterOccupied(grid []candidate, reservations []*domain.Reservation) []candidate {
	filtered := make([]candidate, 0, len(grid))
	for _, c := range grid {
		occupied := false
		for _, r := range reservations {
			if !r.IsActive() {
				continue
			}
			if r.Overlaps(c.start, c.end) {
				occupied = true
				break
			}
		}
		if !occupied {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
