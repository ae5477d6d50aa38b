package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SLN-BookingService/pkg/psqlbuilder"
)

var openingHoursColumns = []string{
	"id",
	"salon_id",
	"weekday",
	"opens_at",
	"closes_at",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий календарных правил салона
// (расписание по дням недели + даты полного закрытия)
// Для ядра бронирования хранилище read-only, пишет в него settings-сервис
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория календарных правил
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetOpeningHours получает расписание салона на день недели
// Если строк несколько - данные противоречивы, возвращаем ErrDuplicateOpeningHours
func (r *Repository) GetOpeningHours(ctx context.Context, salonID int64, weekday time.Weekday) (*domain.OpeningHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(openingHoursColumns...).
		From("opening_hours").
		Where(squirrel.Eq{"salon_id": salonID, "weekday": int(weekday)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOpeningHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpeningHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours, err := scanOpeningHoursList(rows)
	if err != nil {
		return nil, err
	}

	switch len(hours) {
	case 0:
		return nil, ErrOpeningHoursNotFound
	case 1:
		return hours[0], nil
	default:
		return nil, fmt.Errorf("%w: salon=%d weekday=%d has %d rows",
			ErrDuplicateOpeningHours, salonID, int(weekday), len(hours))
	}
}

// GetWeek получает расписание салона на все дни недели
func (r *Repository) GetWeek(ctx context.Context, salonID int64) ([]*domain.OpeningHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(openingHoursColumns...).
		From("opening_hours").
		Where(squirrel.Eq{"salon_id": salonID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeek - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeek - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanOpeningHoursList(rows)
}

// UpsertOpeningHours создает или обновляет расписание на день недели
// Уникальность по (salon_id, weekday) обеспечивается constraint'ом в БД
func (r *Repository) UpsertOpeningHours(ctx context.Context, hours *domain.OpeningHours) (*domain.OpeningHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("opening_hours").
		Columns("salon_id", "weekday", "opens_at", "closes_at", "is_active").
		Values(hours.SalonID, int(hours.Weekday), hours.OpensAt, hours.ClosesAt, hours.IsActive).
		Suffix(`ON CONFLICT (salon_id, weekday) DO UPDATE
			SET opens_at = EXCLUDED.opens_at,
			    closes_at = EXCLUDED.closes_at,
			    is_active = EXCLUDED.is_active,
			    updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOpeningHours - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&hours.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOpeningHours - execute upsert: %v", ErrExecQuery, err)
	}

	hours.CreatedAt = createdAt.Time
	hours.UpdatedAt = updatedAt.Time

	return hours, nil
}

// IsClosedDay проверяет, закрыт ли салон в указанную дату
func (r *Repository) IsClosedDay(ctx context.Context, salonID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("closed_days").
		Where(squirrel.Eq{"salon_id": salonID, "date": date}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: IsClosedDay - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: IsClosedDay - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}

// ListClosedDays получает даты закрытия салона начиная с указанной даты
func (r *Repository) ListClosedDays(ctx context.Context, salonID int64, from time.Time) ([]*domain.ClosedDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "salon_id", "date", "reason", "created_at").
		From("closed_days").
		Where(squirrel.Eq{"salon_id": salonID}).
		Where(squirrel.GtOrEq{"date": from}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListClosedDays - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListClosedDays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]*domain.ClosedDay, 0)
	for rows.Next() {
		var day domain.ClosedDay
		var createdAt sql.NullTime
		if err := rows.Scan(&day.ID, &day.SalonID, &day.Date, &day.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListClosedDays - scan row: %v", ErrScanRow, err)
		}
		day.CreatedAt = createdAt.Time
		days = append(days, &day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListClosedDays - rows error: %v", ErrScanRow, err)
	}

	return days, nil
}

// AddClosedDay помечает дату как полностью закрытую
// Дубликат даты возвращает ErrClosedDayExists (unique constraint)
func (r *Repository) AddClosedDay(ctx context.Context, day *domain.ClosedDay) (*domain.ClosedDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("closed_days").
		Columns("salon_id", "date", "reason").
		Values(day.SalonID, day.Date, day.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddClosedDay - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&day.ID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return nil, ErrClosedDayExists
		}
		return nil, fmt.Errorf("%w: AddClosedDay - execute insert: %v", ErrExecQuery, err)
	}

	day.CreatedAt = createdAt.Time

	return day, nil
}

// RemoveClosedDay снимает пометку закрытия с даты
func (r *Repository) RemoveClosedDay(ctx context.Context, salonID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("closed_days").
		Where(squirrel.Eq{"salon_id": salonID, "date": date}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RemoveClosedDay - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RemoveClosedDay - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RemoveClosedDay - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrClosedDayNotFound
	}

	return nil
}

// scanOpeningHoursList сканирует строки расписания
func scanOpeningHoursList(rows *sql.Rows) ([]*domain.OpeningHours, error) {
	result := make([]*domain.OpeningHours, 0)

	for rows.Next() {
		var hours domain.OpeningHours
		var weekday int
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&hours.ID,
			&hours.SalonID,
			&weekday,
			&hours.OpensAt,
			&hours.ClosesAt,
			&hours.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanOpeningHoursList - scan row: %v", ErrScanRow, err)
		}

		hours.Weekday = time.Weekday(weekday)
		hours.CreatedAt = createdAt.Time
		hours.UpdatedAt = updatedAt.Time

		result = append(result, &hours)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanOpeningHoursList - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
