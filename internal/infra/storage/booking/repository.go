package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Sauna-BookingService/pkg/psqlbuilder"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

const (
	fromJoined        = "bookings b JOIN time_slots s ON s.id = b.time_slot_id"
	pqUniqueViolation = "23505"
	defaultListLimit  = 200
)

var selectColumns = []string{
	"b.id",
	"b.time_slot_id",
	"b.account_id",
	"b.customer_name",
	"b.customer_email",
	"b.customer_phone",
	"b.kind",
	"b.party_size",
	"b.status",
	"b.payment_status",
	"b.total_amount",
	"b.currency",
	"b.is_member",
	"b.notes",
	"b.waiver_id",
	"b.checkout_session_id",
	"b.checkout_expires_at",
	"b.payment_intent_id",
	"b.cancelled_at",
	"b.created_at",
	"b.updated_at",
	"s.date",
	"s.start_time",
	"s.end_time",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"time_slot_id",
			"account_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"kind",
			"party_size",
			"status",
			"payment_status",
			"total_amount",
			"currency",
			"is_member",
			"notes",
			"waiver_id",
		).
		Values(
			b.TimeSlotID,
			b.Customer.AccountID,
			b.Customer.Name,
			b.Customer.Email,
			b.Customer.Phone,
			b.Kind,
			b.PartySize,
			b.Status,
			b.PaymentStatus,
			b.TotalAmount,
			b.Currency,
			b.IsMember,
			b.Notes,
			b.WaiverID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return b, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка бронирования блокируется (FOR UPDATE OF b)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"b.id": id})
}

// GetByCheckoutSessionID получает бронирование по ID checkout-сессии платежного провайдера
func (r *Repository) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByCheckoutSessionID", squirrel.Eq{"b.checkout_session_id": sessionID})
}

func (r *Repository) getOne(ctx context.Context, method string, where squirrel.Sqlizer) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(selectColumns...).
		From(fromJoined).
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %w", ErrScanRow, method, err)
	}
	return b, nil
}

// ListByAccount бронирования аккаунта, сначала новые
func (r *Repository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(selectColumns...).
		From(fromJoined).
		Where(squirrel.Eq{"b.account_id": accountID}).
		OrderBy("s.date DESC", "s.start_time DESC")

	return r.list(ctx, "ListByAccount", builder)
}

// List бронирования с фильтрацией для админки, сначала новые по created_at
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(selectColumns...).
		From(fromJoined).
		OrderBy("b.created_at DESC")

	if filter.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"s.date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		builder = builder.Where(squirrel.LtOrEq{"s.date": filter.EndDate.Format(domain.DateFormat)})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"b.status": *filter.Status})
	}
	if filter.Kind != nil {
		builder = builder.Where(squirrel.Eq{"b.kind": *filter.Kind})
	}
	if filter.Email != nil {
		builder = builder.Where(squirrel.Eq{"b.customer_email": *filter.Email})
	}

	limit := filter.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	builder = builder.Limit(limit).Offset(filter.Offset)

	return r.list(ctx, "List", builder)
}

// ListExpiredPending pending-бронирования, чья checkout-сессия истекла до before
// Давно не трогавшиеся строки идут первыми
func (r *Repository) ListExpiredPending(ctx context.Context, before time.Time, limit uint64) ([]*domain.Booking, error) {
	builder := psqlbuilder.Select(selectColumns...).
		From(fromJoined).
		Where(squirrel.Eq{"b.status": domain.StatusPending}).
		Where(squirrel.Lt{"b.checkout_expires_at": before}).
		OrderBy("b.updated_at ASC", "b.id ASC").
		Limit(limit)

	return r.list(ctx, "ListExpiredPending", builder)
}

func (r *Repository) list(ctx context.Context, method string, builder squirrel.SelectBuilder) ([]*domain.Booking, error) {
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

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan booking: %w", ErrScanRow, method, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %w", ErrScanRow, method, err)
	}
	return bookings, nil
}

// CountConfirmedAt количество подтверждённых бронирований любого типа на (date, start_time)
func (r *Repository) CountConfirmedAt(ctx context.Context, date time.Time, start types.TimeString) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(fromJoined).
		Where(squirrel.Eq{
			"s.date":       date.Format(domain.DateFormat),
			"s.start_time": start,
			"b.status":     domain.StatusConfirmed,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountConfirmedAt - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountConfirmedAt - scan count: %w", ErrScanRow, err)
	}
	return count, nil
}

// ConfirmedStartTimes времена начала на дату, занятые подтверждёнными бронированиями любого типа
func (r *Repository) ConfirmedStartTimes(ctx context.Context, date time.Time) (map[types.TimeString]struct{}, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT s.start_time").
		From(fromJoined).
		Where(squirrel.Eq{
			"s.date":   date.Format(domain.DateFormat),
			"b.status": domain.StatusConfirmed,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ConfirmedStartTimes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ConfirmedStartTimes - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	taken := make(map[types.TimeString]struct{})
	for rows.Next() {
		var start types.TimeString
		if err := rows.Scan(&start); err != nil {
			return nil, fmt.Errorf("%w: ConfirmedStartTimes - scan: %w", ErrScanRow, err)
		}
		taken[start] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ConfirmedStartTimes - rows iteration: %w", ErrScanRow, err)
	}
	return taken, nil
}

// Transition условный переход статуса: применяется, только если текущий статус равен t.From
func (r *Repository) Transition(ctx context.Context, id int64, t domain.StatusTransition) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("bookings").
		Set("status", t.To).
		Set("payment_status", t.PaymentStatus).
		Set("updated_at", squirrel.Expr("NOW()"))
	if t.To == domain.StatusCancelled {
		builder = builder.Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := builder.
		Where(squirrel.Eq{"id": id, "status": t.From}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Transition - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "Transition", query, args, ErrStatusConflict)
}

// SetPaymentStatus обновляет только статус оплаты
func (r *Repository) SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "SetPaymentStatus", query, args, ErrBookingNotFound)
}

// Touch сдвигает pending-бронирование в конец очереди сверки
func (r *Repository) Touch(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Touch - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "Touch", query, args, ErrStatusConflict)
}

// AttachCheckout привязывает checkout-сессию к pending-бронированию
func (r *Repository) AttachCheckout(ctx context.Context, id int64, sessionID string, expiresAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("checkout_session_id", sessionID).
		Set("checkout_expires_at", expiresAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AttachCheckout - build update query: %v", ErrBuildQuery, err)
	}

	err = r.execOne(ctx, executor, "AttachCheckout", query, args, ErrStatusConflict)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrDuplicateCheckout
	}
	return err
}

// SetPaymentIntent сохраняет ID платежа провайдера
func (r *Repository) SetPaymentIntent(ctx context.Context, id int64, paymentIntentID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_intent_id", paymentIntentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentIntent - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "SetPaymentIntent", query, args, ErrBookingNotFound)
}

func (r *Repository) execOne(ctx context.Context, executor DBExecutor, method, query string, args []interface{}, noRows error) error {
	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, method, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %w", ErrExecQuery, method, err)
	}
	if affected == 0 {
		return noRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.TimeSlotID,
		&b.Customer.AccountID,
		&b.Customer.Name,
		&b.Customer.Email,
		&b.Customer.Phone,
		&b.Kind,
		&b.PartySize,
		&b.Status,
		&b.PaymentStatus,
		&b.TotalAmount,
		&b.Currency,
		&b.IsMember,
		&b.Notes,
		&b.WaiverID,
		&b.CheckoutSessionID,
		&b.CheckoutExpiresAt,
		&b.PaymentIntentID,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
		&b.SlotDate,
		&b.SlotStartTime,
		&b.SlotEndTime,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}
