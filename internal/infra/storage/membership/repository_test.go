package membership

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/pkg/ptr"
)

func TestGetByAccountID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .* FROM memberships WHERE account_id = \$1`).
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err = repo.GetByAccountID(context.Background(), "acc-1")
	assert.ErrorIs(t, err, ErrMembershipNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByAccountID_Lifetime(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	started := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM memberships WHERE account_id`).
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			int64(1), "acc-1", "ada@example.com", "lifetime", "active", started, nil, "cus_1", nil, started, started,
		))

	m, err := repo.GetByAccountID(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.MembershipLifetime, m.Kind)
	assert.Nil(t, m.EndsAt)
	assert.Equal(t, "cus_1", *m.StripeCustomerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_KeepsExistingStripeRefs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	now := time.Now()
	ends := now.AddDate(0, 1, 0)
	mock.ExpectQuery(`(?s)INSERT INTO memberships .* ON CONFLICT \(account_id\) DO UPDATE SET.*COALESCE\(EXCLUDED.stripe_customer_id`).
		WithArgs("acc-1", "ada@example.com", domain.MembershipMonthly, domain.MembershipStatusActive, now, ends, nil, ptr.Ptr("sub_1")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(3), now, now))

	m, err := repo.Upsert(context.Background(), &domain.Membership{
		AccountID:            "acc-1",
		Email:                "ada@example.com",
		Kind:                 domain.MembershipMonthly,
		Status:               domain.MembershipStatusActive,
		StartsAt:             &now,
		EndsAt:               &ends,
		StripeSubscriptionID: ptr.Ptr("sub_1"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE memberships SET status = \$1, updated_at = NOW\(\) WHERE account_id = \$2`).
		WithArgs(domain.MembershipStatusCancelled, "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetStatus(context.Background(), "acc-1", domain.MembershipStatusCancelled))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPurchase_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	purchase := &domain.MembershipPurchase{
		AccountID: "acc-1", Kind: domain.MembershipMonthly, Amount: 4900, Currency: "usd", CheckoutSessionID: "cs_1",
	}

	mock.ExpectExec(`INSERT INTO membership_purchases .* ON CONFLICT \(checkout_session_id\) DO NOTHING`).
		WithArgs("acc-1", "monthly", int64(4900), "usd", "cs_1", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO membership_purchases`).
		WithArgs("acc-1", "monthly", int64(4900), "usd", "cs_1", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repo.RecordPurchase(context.Background(), purchase)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.RecordPurchase(context.Background(), purchase)
	require.NoError(t, err)
	assert.False(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}
