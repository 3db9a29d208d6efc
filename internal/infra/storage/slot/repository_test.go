package slot

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

var slotDate = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db), mock, func() { db.Close() }
}

func slotRow(current int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(columns).
		AddRow(int64(10), slotDate, "19:00:00", "20:00:00", "community", 8, current, true, now, now)
}

func TestInsertIgnore_SkipsExisting(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	slots := []*domain.TimeSlot{
		{Date: slotDate, StartTime: "19:00", EndTime: "20:00", Kind: domain.SessionCommunity, MaxCapacity: 8},
		{Date: slotDate, StartTime: "20:00", EndTime: "21:00", Kind: domain.SessionCommunity, MaxCapacity: 8},
	}

	mock.ExpectExec(`INSERT INTO time_slots .* ON CONFLICT \(date, start_time, kind\) DO NOTHING`).
		WithArgs(
			"2024-07-01", types.TimeString("19:00"), types.TimeString("20:00"), domain.SessionCommunity, 8, 0, true,
			"2024-07-01", types.TimeString("20:00"), types.TimeString("21:00"), domain.SessionCommunity, 8, 0, true,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.InsertIgnore(context.Background(), slots)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertIgnore_Empty(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	created, err := repo.InsertIgnore(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementBookings_Conditional(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE time_slots SET current_bookings = current_bookings + $1, updated_at = NOW() WHERE id = $2 AND is_available = $3 AND current_bookings + $4 <= max_capacity",
	)).
		WithArgs(3, int64(10), true, 3).
		WillReturnRows(slotRow(3))

	s, err := repo.IncrementBookings(context.Background(), 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, s.CurrentBookings)
	assert.Equal(t, 5, s.SpotsRemaining())
	assert.Equal(t, types.TimeString("19:00"), s.StartTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementBookings_Overflow(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectQuery("UPDATE time_slots SET current_bookings").
		WithArgs(3, int64(10), true, 3).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.IncrementBookings(context.Background(), 10, 3)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementBookings_NeverBelowZero(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SET current_bookings = GREATEST(current_bookings - $1, 0)")).
		WithArgs(3, int64(10)).
		WillReturnRows(slotRow(0))

	s, err := repo.DecrementBookings(context.Background(), 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, s.CurrentBookings)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_LocksInsideTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM time_slots WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(10)).
		WillReturnRows(slotRow(2))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	s, err := repo.GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, s.CurrentBookings)
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByWindow_NotFound(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectQuery(`SELECT .* FROM time_slots WHERE date = \$1 AND kind = \$2 AND start_time = \$3$`).
		WithArgs("2024-07-01", domain.SessionPrivate, types.TimeString("10:00")).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByWindow(context.Background(), slotDate, "10:00", domain.SessionPrivate)
	assert.ErrorIs(t, err, ErrSlotNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectQuery("INSERT INTO time_slots").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.TimeSlot{
		Date: slotDate, StartTime: "19:00", EndTime: "20:00", Kind: domain.SessionCommunity, MaxCapacity: 8, IsAvailable: true,
	})
	assert.ErrorIs(t, err, ErrSlotExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAvailability_NotFound(t *testing.T) {
	repo, mock, done := newRepo(t)
	defer done()

	mock.ExpectExec("UPDATE time_slots SET is_available").
		WithArgs(false, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetAvailability(context.Background(), 99, false)
	assert.ErrorIs(t, err, ErrSlotNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
