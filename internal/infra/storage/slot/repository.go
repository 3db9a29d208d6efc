package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Sauna-BookingService/pkg/psqlbuilder"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

const (
	table             = "time_slots"
	conflictClause    = "ON CONFLICT (date, start_time, kind) DO NOTHING"
	pqUniqueViolation = "23505"
)

var columns = []string{
	"id",
	"date",
	"start_time",
	"end_time",
	"kind",
	"max_capacity",
	"current_bookings",
	"is_available",
	"created_at",
	"updated_at",
}

// Repository репозиторий временных слотов
// Единственное место, где меняется счётчик current_bookings
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertIgnore вставляет слоты пачкой, пропуская уже существующие (date, start_time, kind)
// Счётчики существующих строк не трогаются. Возвращает количество реально созданных строк.
func (r *Repository) InsertIgnore(ctx context.Context, slots []*domain.TimeSlot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert(table).
		Columns("date", "start_time", "end_time", "kind", "max_capacity", "current_bookings", "is_available")
	for _, s := range slots {
		builder = builder.Values(
			s.Date.Format(domain.DateFormat),
			s.StartTime,
			s.EndTime,
			s.Kind,
			s.MaxCapacity,
			0,
			true,
		)
	}

	query, args, err := builder.Suffix(conflictClause).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertIgnore - build insert query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: InsertIgnore - execute insert: %w", ErrExecQuery, err)
	}

	created, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertIgnore - rows affected: %w", ErrExecQuery, err)
	}
	return created, nil
}

// Create создает один слот, дубликат окна возвращает ErrSlotExists
func (r *Repository) Create(ctx context.Context, s *domain.TimeSlot) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("date", "start_time", "end_time", "kind", "max_capacity", "current_bookings", "is_available").
		Values(s.Date.Format(domain.DateFormat), s.StartTime, s.EndTime, s.Kind, s.MaxCapacity, 0, s.IsAvailable).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrSlotExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	s.CurrentBookings = 0
	return s, nil
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	return r.getOne(ctx, "GetByID", builder)
}

// GetByWindow получает слот по (date, start_time, kind)
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByWindow(ctx context.Context, date time.Time, start types.TimeString, kind domain.SessionKind) (*domain.TimeSlot, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"date":       date.Format(domain.DateFormat),
			"start_time": start,
			"kind":       kind,
		})

	return r.getOne(ctx, "GetByWindow", builder)
}

// GetOrCreate возвращает слот окна, создавая его при отсутствии
// Используется для приватных сессий, которые не материализуются заранее
func (r *Repository) GetOrCreate(ctx context.Context, s *domain.TimeSlot) (*domain.TimeSlot, error) {
	if _, err := r.InsertIgnore(ctx, []*domain.TimeSlot{s}); err != nil {
		return nil, err
	}
	return r.GetByWindow(ctx, s.Date, s.StartTime, s.Kind)
}

func (r *Repository) getOne(ctx context.Context, method string, builder squirrel.SelectBuilder) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan slot: %w", ErrScanRow, method, err)
	}
	return s, nil
}

// ListByDate слоты на дату указанного типа, по возрастанию времени начала
func (r *Repository) ListByDate(ctx context.Context, date time.Time, kind domain.SessionKind) ([]*domain.TimeSlot, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"date": date.Format(domain.DateFormat), "kind": kind}).
		OrderBy("start_time ASC")

	return r.list(ctx, "ListByDate", builder)
}

// List слоты в диапазоне дат для админки
func (r *Repository) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.TimeSlot, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.GtOrEq{"date": filter.From.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": filter.To.Format(domain.DateFormat)}).
		OrderBy("date ASC", "start_time ASC", "kind ASC")

	if filter.Kind != nil {
		builder = builder.Where(squirrel.Eq{"kind": *filter.Kind})
	}

	return r.list(ctx, "List", builder)
}

func (r *Repository) list(ctx context.Context, method string, builder squirrel.SelectBuilder) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, method, err)
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan slot: %w", ErrScanRow, method, err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %w", ErrScanRow, method, err)
	}
	return slots, nil
}

// IncrementBookings атомарно увеличивает счётчик, только если партия помещается
// UPDATE ... SET current = current + n WHERE current + n <= max AND is_available
func (r *Repository) IncrementBookings(ctx context.Context, id int64, n int) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("current_bookings", squirrel.Expr("current_bookings + ?", n)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_available": true}).
		Where(squirrel.Expr("current_bookings + ? <= max_capacity", n)).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: IncrementBookings - build update query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCapacityExceeded
	}
	if err != nil {
		return nil, fmt.Errorf("%w: IncrementBookings - execute update: %w", ErrExecQuery, err)
	}
	return s, nil
}

// DecrementBookings уменьшает счётчик, не опуская его ниже нуля
func (r *Repository) DecrementBookings(ctx context.Context, id int64, n int) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("current_bookings", squirrel.Expr("GREATEST(current_bookings - ?, 0)", n)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: DecrementBookings - build update query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: DecrementBookings - execute update: %w", ErrExecQuery, err)
	}
	return s, nil
}

// SetAvailability переключает флаг доступности слота
func (r *Repository) SetAvailability(ctx context.Context, id int64, available bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("is_available", available).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - execute update: %w", ErrExecQuery, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// SetAvailabilityAt переключает флаг у слота окна, отсутствие строки не ошибка
func (r *Repository) SetAvailabilityAt(ctx context.Context, date time.Time, start types.TimeString, kind domain.SessionKind, available bool) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("is_available", available).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"date":       date.Format(domain.DateFormat),
			"start_time": start,
			"kind":       kind,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: SetAvailabilityAt - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: SetAvailabilityAt - execute update: %w", ErrExecQuery, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: SetAvailabilityAt - rows affected: %w", ErrExecQuery, err)
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.TimeSlot, error) {
	var s domain.TimeSlot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.Kind,
		&s.MaxCapacity,
		&s.CurrentBookings,
		&s.IsAvailable,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time
	return &s, nil
}

func joinColumns() string {
	return strings.Join(columns, ", ")
}
