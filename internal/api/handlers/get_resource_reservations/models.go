package get_resource_reservations

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/internal/service/reservations/models"
)

// parseQuery разбирает query-параметры фильтрации списка броней ресурса
//
// Поддерживаются:
//   - date=2025-10-15              брони на конкретную дату
//   - startDate / endDate          брони за период
//   - status=confirmed             фильтр по статусу
//   - includeInactive=true         включить отменённые брони
func parseQuery(resourceID int64, query url.Values) (*models.GetResourceReservationsRequest, error) {
	req := &models.GetResourceReservationsRequest{ResourceID: resourceID}

	// date - сокращение для startDate=endDate
	if date := query.Get("date"); date != "" {
		d, err := time.Parse(domain.DateFormat, date)
		if err != nil {
			return nil, err
		}
		req.StartDate = &d
		req.EndDate = &d
	} else {
		if startDate := query.Get("startDate"); startDate != "" {
			d, err := time.Parse(domain.DateFormat, startDate)
			if err != nil {
				return nil, err
			}
			req.StartDate = &d
		}
		if endDate := query.Get("endDate"); endDate != "" {
			d, err := time.Parse(domain.DateFormat, endDate)
			if err != nil {
				return nil, err
			}
			req.EndDate = &d
		}
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if includeInactive := query.Get("includeInactive"); includeInactive != "" {
		v, err := strconv.ParseBool(includeInactive)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = v
	}

	return req, nil
}
