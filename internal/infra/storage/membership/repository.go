package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Sauna-BookingService/pkg/psqlbuilder"
)

const upsertSuffix = `ON CONFLICT (account_id) DO UPDATE SET
	email = EXCLUDED.email,
	kind = EXCLUDED.kind,
	status = EXCLUDED.status,
	starts_at = EXCLUDED.starts_at,
	ends_at = EXCLUDED.ends_at,
	stripe_customer_id = COALESCE(EXCLUDED.stripe_customer_id, memberships.stripe_customer_id),
	stripe_subscription_id = COALESCE(EXCLUDED.stripe_subscription_id, memberships.stripe_subscription_id),
	updated_at = NOW()
RETURNING id, created_at, updated_at`

var columns = []string{
	"id",
	"account_id",
	"email",
	"kind",
	"status",
	"starts_at",
	"ends_at",
	"stripe_customer_id",
	"stripe_subscription_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий членств
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория членств
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByAccountID членство аккаунта
func (r *Repository) GetByAccountID(ctx context.Context, accountID string) (*domain.Membership, error) {
	return r.getOne(ctx, "GetByAccountID", squirrel.Eq{"account_id": accountID})
}

// GetByCustomerID членство по ID покупателя в Stripe
func (r *Repository) GetByCustomerID(ctx context.Context, customerID string) (*domain.Membership, error) {
	return r.getOne(ctx, "GetByCustomerID", squirrel.Eq{"stripe_customer_id": customerID})
}

// GetBySubscriptionID членство по ID подписки в Stripe
func (r *Repository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*domain.Membership, error) {
	return r.getOne(ctx, "GetBySubscriptionID", squirrel.Eq{"stripe_subscription_id": subscriptionID})
}

func (r *Repository) getOne(ctx context.Context, method string, where squirrel.Sqlizer) (*domain.Membership, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("memberships").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	m, err := scanMembership(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan membership: %w", ErrScanRow, method, err)
	}
	return m, nil
}

// List все членства, сначала обновлённые недавно
func (r *Repository) List(ctx context.Context) ([]*domain.Membership, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("memberships").
		OrderBy("updated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan membership: %w", ErrScanRow, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %w", ErrScanRow, err)
	}
	return result, nil
}

// Upsert создает или обновляет членство аккаунта
// Пустые ссылки на Stripe не затирают уже сохранённые
func (r *Repository) Upsert(ctx context.Context, m *domain.Membership) (*domain.Membership, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("memberships").
		Columns("account_id", "email", "kind", "status", "starts_at", "ends_at", "stripe_customer_id", "stripe_subscription_id").
		Values(m.AccountID, m.Email, m.Kind, m.Status, m.StartsAt, m.EndsAt, m.StripeCustomerID, m.StripeSubscriptionID).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&m.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}
	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time
	return m, nil
}

// SetStatus меняет только статус, окно действия не трогается
func (r *Repository) SetStatus(ctx context.Context, accountID string, status domain.MembershipStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("memberships").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetStatus - build update query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetStatus - execute update: %w", ErrExecQuery, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetStatus - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

// RecordPurchase фиксирует оплату членства
// Возвращает false, если эта checkout-сессия уже была записана
func (r *Repository) RecordPurchase(ctx context.Context, p *domain.MembershipPurchase) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("membership_purchases").
		Columns("account_id", "kind", "amount", "currency", "checkout_session_id", "subscription_id").
		Values(p.AccountID, p.Kind, p.Amount, p.Currency, p.CheckoutSessionID, p.SubscriptionID).
		Suffix("ON CONFLICT (checkout_session_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: RecordPurchase - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: RecordPurchase - execute insert: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: RecordPurchase - rows affected: %w", ErrExecQuery, err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMembership(row rowScanner) (*domain.Membership, error) {
	var m domain.Membership
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&m.ID,
		&m.AccountID,
		&m.Email,
		&m.Kind,
		&m.Status,
		&m.StartsAt,
		&m.EndsAt,
		&m.StripeCustomerID,
		&m.StripeSubscriptionID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time
	return &m, nil
}
