package booking

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Sauna-BookingService/pkg/ptr"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

var slotDate = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db), mock, func() { db.Close() }
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "time_slot_id", "account_id", "customer_name", "customer_email", "customer_phone",
		"kind", "party_size", "status", "payment_status", "total_amount", "currency", "is_member",
		"notes", "waiver_id", "checkout_session_id", "checkout_expires_at", "payment_intent_id",
		"cancelled_at", "created_at", "updated_at", "date", "start_time", "end_time",
	})
}

func TestCreate(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO bookings \(time_slot_id,account_id,customer_name`).
		WithArgs(int64(10), nil, "Ada", "ada@example.com", nil, domain.SessionCommunity, 3,
			domain.StatusPending, domain.PaymentPending, int64(7500), "usd", false, nil, int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	b, err := repo.Create(context.Background(), &domain.Booking{
		TimeSlotID:    10,
		Customer:      domain.Customer{Name: "Ada", Email: "ada@example.com"},
		Kind:          domain.SessionCommunity,
		PartySize:     3,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		TotalAmount:   7500,
		Currency:      "usd",
		WaiverID:      ptr.Ptr(int64(5)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_ScansJoinedSlot(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	now := time.Now()
	mock.ExpectQuery(`SELECT b.id, .* FROM bookings b JOIN time_slots s ON s.id = b.time_slot_id WHERE b.id = \$1$`).
		WithArgs(int64(1)).
		WillReturnRows(bookingRows().AddRow(
			int64(1), int64(10), "acc-1", "Ada", "ada@example.com", nil,
			"community", 3, "confirmed", "paid", int64(7500), "usd", false,
			nil, int64(5), "cs_test_1", now, "pi_1",
			nil, now, now, slotDate, "19:00:00", "20:00:00",
		))

	b, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, "acc-1", *b.Customer.AccountID)
	assert.Equal(t, types.TimeString("19:00"), b.SlotStartTime)
	assert.Equal(t, "cs_test_1", *b.CheckoutSessionID)
	assert.Nil(t, b.Notes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_LocksBookingRowInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE b.id = \$1 FOR UPDATE OF b`).
		WithArgs(int64(1)).
		WillReturnRows(bookingRows())
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	_, err = repo.GetByID(dbmetrics.WithTx(context.Background(), tx), 1)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_ConditionalOnCurrentStatus(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE bookings SET status = $1, payment_status = $2, updated_at = NOW() WHERE id = $3 AND status = $4",
	)).
		WithArgs(domain.StatusConfirmed, domain.PaymentPaid, int64(1), domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Transition(context.Background(), 1, domain.StatusTransition{
		From: domain.StatusPending, To: domain.StatusConfirmed, PaymentStatus: domain.PaymentPaid,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_LostRace(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta("cancelled_at = NOW()")).
		WithArgs(domain.StatusCancelled, domain.PaymentFailed, int64(1), domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Transition(context.Background(), 1, domain.StatusTransition{
		From: domain.StatusPending, To: domain.StatusCancelled, PaymentStatus: domain.PaymentFailed,
	})
	assert.ErrorIs(t, err, ErrStatusConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountConfirmedAt(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM bookings b JOIN time_slots s ON s.id = b.time_slot_id WHERE b.status = $1 AND s.date = $2 AND s.start_time = $3",
	)).
		WithArgs(domain.StatusConfirmed, "2024-07-01", types.TimeString("10:00")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	n, err := repo.CountConfirmedAt(context.Background(), slotDate, "10:00")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmedStartTimes(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT DISTINCT s.start_time FROM`).
		WithArgs(domain.StatusConfirmed, "2024-07-01").
		WillReturnRows(sqlmock.NewRows([]string{"start_time"}).AddRow("10:00:00").AddRow("19:00:00"))

	taken, err := repo.ConfirmedStartTimes(context.Background(), slotDate)
	require.NoError(t, err)
	assert.Contains(t, taken, types.TimeString("10:00"))
	assert.Contains(t, taken, types.TimeString("19:00"))
	assert.Len(t, taken, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListExpiredPending(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	cutoff := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE b.status = \$1 AND b.checkout_expires_at < \$2 ORDER BY b.updated_at ASC, b.id ASC LIMIT 50`).
		WithArgs(domain.StatusPending, cutoff).
		WillReturnRows(bookingRows())

	list, err := repo.ListExpiredPending(context.Background(), cutoff, 50)
	require.NoError(t, err)
	assert.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTouch(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectExec(`UPDATE bookings SET updated_at = NOW\(\) WHERE id = \$1 AND status = \$2`).
		WithArgs(int64(1), domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE bookings SET updated_at`).
		WithArgs(int64(2), domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Touch(context.Background(), 1))
	assert.ErrorIs(t, repo.Touch(context.Background(), 2), ErrStatusConflict)
}

func TestAttachCheckout_NotPending(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	expires := time.Now().Add(30 * time.Minute)
	mock.ExpectExec("UPDATE bookings SET checkout_session_id").
		WithArgs("cs_1", expires, int64(1), domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AttachCheckout(context.Background(), 1, "cs_1", expires)
	assert.ErrorIs(t, err, ErrStatusConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}
