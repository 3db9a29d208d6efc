package waiver

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

// Repository репозиторий подписанных отказов от ответственности
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет подписанный отказ
func (r *Repository) Create(ctx context.Context, w *domain.Waiver) (*domain.Waiver, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("waivers").
		Columns("account_id", "name", "email", "phone", "emergency_contact_name",
			"emergency_contact_phone", "version", "text", "user_agent").
		Values(w.AccountID, w.Name, w.Email, w.Phone, w.EmergencyContactName,
			w.EmergencyContactPhone, w.Version, w.Text, w.UserAgent).
		Suffix("RETURNING id, signed_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&w.ID, &w.SignedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	return w, nil
}

// GetByID получает отказ по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Waiver, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "account_id", "name", "email", "phone",
		"emergency_contact_name", "emergency_contact_phone", "version", "text", "user_agent", "signed_at").
		From("waivers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var w domain.Waiver
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&w.ID,
		&w.AccountID,
		&w.Name,
		&w.Email,
		&w.Phone,
		&w.EmergencyContactName,
		&w.EmergencyContactPhone,
		&w.Version,
		&w.Text,
		&w.UserAgent,
		&w.SignedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWaiverNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan waiver: %w", ErrExecQuery, err)
	}
	return &w, nil
}
