package resource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/pkg/dbmetrics"
	"github.com/m04kA/SMC-FieldService/pkg/psqlbuilder"
)

var resourceColumns = []string{
	"id",
	"name",
	"description",
	"base_price_per_hour",
	"weekday_price_per_hour",
	"weekend_price_per_hour",
	"peak_start_time",
	"peak_end_time",
	"peak_multiplier",
	"open_time",
	"close_time",
	"operating_weekdays",
	"under_maintenance",
	"maintenance_start_date",
	"maintenance_end_date",
	"maintenance_reason",
	"created_at",
	"updated_at",
}

// Repository репозиторий ресурсов (полей/кортов)
// Для ядра бронирования это read-only справочник правил ценообразования
// и режима работы; запись используется только административным контуром
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает ресурс по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	res, err := scanResource(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %v", ErrScanRow, err)
	}

	return res, nil
}

// List получает все ресурсы, отсортированные по имени
func (r *Repository) List(ctx context.Context) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From("resources").
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		resources = append(resources, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return resources, nil
}

// Update обновляет правила ценообразования и режим работы ресурса
func (r *Repository) Update(ctx context.Context, id int64, res *domain.Resource) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("resources").
		Set("name", res.Name).
		Set("description", res.Description).
		Set("base_price_per_hour", res.BasePricePerHour).
		Set("weekday_price_per_hour", res.WeekdayPricePerHour).
		Set("weekend_price_per_hour", res.WeekendPricePerHour).
		Set("peak_start_time", res.PeakStartTime).
		Set("peak_end_time", res.PeakEndTime).
		Set("peak_multiplier", res.PeakMultiplier).
		Set("open_time", res.OpenTime).
		Set("close_time", res.CloseTime).
		Set("operating_weekdays", pq.Array(res.OperatingWeekdays)).
		Set("under_maintenance", res.UnderMaintenance).
		Set("maintenance_start_date", res.MaintenanceStartDate).
		Set("maintenance_end_date", res.MaintenanceEndDate).
		Set("maintenance_reason", res.MaintenanceReason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	res.ID = id
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// scanResource сканирует одну строку в модель ресурса
func scanResource(scan func(dest ...interface{}) error) (*domain.Resource, error) {
	var res domain.Resource
	var weekdays pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&res.ID,
		&res.Name,
		&res.Description,
		&res.BasePricePerHour,
		&res.WeekdayPricePerHour,
		&res.WeekendPricePerHour,
		&res.PeakStartTime,
		&res.PeakEndTime,
		&res.PeakMultiplier,
		&res.OpenTime,
		&res.CloseTime,
		&weekdays,
		&res.UnderMaintenance,
		&res.MaintenanceStartDate,
		&res.MaintenanceEndDate,
		&res.MaintenanceReason,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	res.OperatingWeekdays = []int64(weekdays)
	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}
