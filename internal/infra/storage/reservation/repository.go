package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-FieldService/internal/domain"
	"github.com/m04kA/SMC-FieldService/pkg/dbmetrics"
	"github.com/m04kA/SMC-FieldService/pkg/psqlbuilder"
)

// reservationColumns полный набор колонок таблицы reservations
var reservationColumns = []string{
	"id",
	"code",
	"resource_id",
	"user_id",
	"customer_name",
	"customer_phone",
	"reservation_date",
	"start_time",
	"end_time",
	"status",
	"payment_status",
	"base_price",
	"peak_multiplier",
	"is_weekend",
	"is_peak_hour",
	"total_price",
	"notes",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"refund_percent",
	"refund_amount",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
// Единственная точка мутации состояния броней. Инвариант отсутствия
// пересечений обеспечивается вызовом Create внутри сериализуемой
// транзакции после чтения кандидатов с блокировкой FOR UPDATE.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CancelUpdate данные, фиксируемые при отмене бронирования
type CancelUpdate struct {
	Reason        string
	CancelledBy   *int64
	RefundPercent int
	RefundAmount  float64
	PaymentStatus domain.PaymentStatus
}

// Create создает новое бронирование и присваивает ему код.
// Код формируется как FLD-YYYYMMDD-NNNNN: последовательность ищется по
// максимальному существующему коду за день создания и сбрасывается каждые
// сутки. Вызывать строго внутри транзакции, открытой менеджером транзакций:
// вне её генерация кода и проверка конфликтов подвержены гонке.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	code, err := r.nextCode(ctx, executor, time.Now())
	if err != nil {
		return nil, err
	}
	res.Code = code

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"code",
			"resource_id",
			"user_id",
			"customer_name",
			"customer_phone",
			"reservation_date",
			"start_time",
			"end_time",
			"status",
			"payment_status",
			"base_price",
			"peak_multiplier",
			"is_weekend",
			"is_peak_hour",
			"total_price",
			"notes",
		).
		Values(
			res.Code,
			res.ResourceID,
			res.UserID,
			res.CustomerName,
			res.CustomerPhone,
			res.ReservationDate,
			res.StartTime,
			res.EndTime,
			res.Status,
			res.PaymentStatus,
			res.BasePrice,
			res.PeakMultiplier,
			res.IsWeekend,
			res.IsPeakHour,
			res.TotalPrice,
			res.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// nextCode вычисляет следующий код бронирования для дня day
// Ищет максимальный существующий код с префиксом этого дня и увеличивает
// последовательность на единицу. Под сериализуемой транзакцией гонка
// двух одинаковых кодов исключена (плюс уникальный индекс на code).
func (r *Repository) nextCode(ctx context.Context, executor DBExecutor, day time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%s-", domain.CodePrefix, day.Format(domain.CodeDateFormat))

	query, args, err := psqlbuilder.Select("code").
		From("reservations").
		Where(squirrel.Like{"code": prefix + "%"}).
		OrderBy("code DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return "", fmt.Errorf("%w: nextCode - build select query: %v", ErrBuildQuery, err)
	}

	var lastCode string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&lastCode)
	if err == sql.ErrNoRows {
		return domain.ReservationCode(day, 1), nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: nextCode - scan last code: %v", ErrScanRow, err)
	}

	seq, err := strconv.Atoi(strings.TrimPrefix(lastCode, prefix))
	if err != nil {
		return "", fmt.Errorf("%w: nextCode - malformed code %q: %v", ErrScanRow, lastCode, err)
	}

	return domain.ReservationCode(day, seq+1), nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return r.getByField(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByCode получает бронирование по коду
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	return r.getByField(ctx, squirrel.Eq{"code": code}, "GetByCode")
}

func (r *Repository) getByField(ctx context.Context, where squirrel.Eq, method string) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	res, err := scanReservation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan reservation: %v", ErrScanRow, method, err)
	}

	return res, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("reservation_date DESC, start_time DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetByResourceWithFilter получает бронирования ресурса с гибкой фильтрацией
// по периоду, статусу и включению отменённых броней.
//
// Внутри транзакции при выборке на конкретную дату добавляет FOR UPDATE:
// это авторитетная блокировка кандидатов на пересечение при создании брони.
// Вне транзакции чтение идёт без блокировок (advisory-выборки для отображения
// доступности).
func (r *Repository) GetByResourceWithFilter(ctx context.Context, filter domain.ResourceReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"resource_id": filter.ResourceID})

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"reservation_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"reservation_date": *filter.EndDate})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		// Если не указан конкретный статус и не нужны отменённые - исключаем их
		inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings})
	}

	singleDate := filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate)

	if singleDate {
		// Для конкретной даты сортируем по времени начала
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("reservation_date DESC, start_time DESC")
	}

	// Блокируем строки при проверке конфликтов внутри транзакции создания
	if dbmetrics.IsInTransaction(ctx) && singleDate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByResourceWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByResourceWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// ListActive получает активные (pending, confirmed) бронирования ресурса на дату
// Используется для отображения доступности и предварительной проверки слота
func (r *Repository) ListActive(ctx context.Context, resourceID int64, date time.Time) ([]*domain.Reservation, error) {
	return r.GetByResourceWithFilter(ctx, domain.ResourceReservationsFilter{
		ResourceID:      resourceID,
		StartDate:       &date,
		EndDate:         &date,
		IncludeInactive: false,
	})
}

// Cancel переводит бронирование в статус cancelled с метаданными отмены.
// Переход разрешён только из активных статусов: guard в WHERE гарантирует,
// что уже отменённая или завершённая бронь не будет отменена повторно.
func (r *Repository) Cancel(ctx context.Context, id int64, upd CancelUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatusStrings := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatusStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("payment_status", upd.PaymentStatus).
		Set("cancellation_reason", upd.Reason).
		Set("cancelled_by", upd.CancelledBy).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("refund_percent", upd.RefundPercent).
		Set("refund_amount", upd.RefundAmount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": activeStatusStrings}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Различаем "не найдено" и "нельзя отменить"
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrCannotCancel
	}

	return nil
}

// UpdatePaymentStatus обновляет статус оплаты бронирования
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// MarkCompleted переводит в completed все активные брони, чьё время окончания
// уже прошло. Информационный статус, выставляется фоновой зачисткой.
// Возвращает количество обновлённых броней.
func (r *Repository) MarkCompleted(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatusStrings := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatusStrings[i] = string(s)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nowTime := now.Format(domain.TimeFormat)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": activeStatusStrings}).
		Where(squirrel.Or{
			squirrel.Lt{"reservation_date": today},
			squirrel.And{
				squirrel.Eq{"reservation_date": today},
				squirrel.LtOrEq{"end_time": nowTime},
			},
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: MarkCompleted - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: MarkCompleted - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkCompleted - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// scanReservation сканирует одну строку в модель бронирования
func scanReservation(scan func(dest ...interface{}) error) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&res.ID,
		&res.Code,
		&res.ResourceID,
		&res.UserID,
		&res.CustomerName,
		&res.CustomerPhone,
		&res.ReservationDate,
		&res.StartTime,
		&res.EndTime,
		&res.Status,
		&res.PaymentStatus,
		&res.BasePrice,
		&res.PeakMultiplier,
		&res.IsWeekend,
		&res.IsPeakHour,
		&res.TotalPrice,
		&res.Notes,
		&res.CancellationReason,
		&res.CancelledBy,
		&res.CancelledAt,
		&res.RefundPercent,
		&res.RefundAmount,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		res, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
