package calendar

import (
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/pkg/types"
)

// Причины закрытия ресурса на дату
const (
	ReasonNotOperational = "not operational on this date"
)

// Calendar вычисляет режим работы ресурса на дату
// Часы работы по умолчанию задаются при конструировании из конфигурации,
// а не берутся из глобального состояния
type Calendar struct {
	defaultOpen  types.TimeString
	defaultClose types.TimeString
}

// New создает календарь с часами работы по умолчанию
func New(defaultOpen, defaultClose types.TimeString) *Calendar {
	return &Calendar{
		defaultOpen:  defaultOpen,
		defaultClose: defaultClose,
	}
}

// DaySchedule возвращает режим работы ресурса на указанную дату.
// Приоритет правил: обслуживание -> рабочие дни недели -> часы работы.
// Чистая функция без побочных эффектов.
func (c *Calendar) DaySchedule(res *domain.Resource, date time.Time) domain.DaySchedule {
	if res.InMaintenance(date) {
		reason := domain.DefaultMaintenanceReason
		if res.MaintenanceReason != nil && *res.MaintenanceReason != "" {
			reason = *res.MaintenanceReason
		}
		return domain.DaySchedule{IsOpen: false, ClosedReason: reason}
	}

	if !res.OperatesOn(domain.ISOWeekday(date)) {
		return domain.DaySchedule{IsOpen: false, ClosedReason: ReasonNotOperational}
	}

	open, close := c.defaultOpen, c.defaultClose
	if res.HasExplicitHours() {
		open, close = *res.OpenTime, *res.CloseTime
	}

	return domain.DaySchedule{
		IsOpen:    true,
		OpenTime:  open,
		CloseTime: close,
	}
}
