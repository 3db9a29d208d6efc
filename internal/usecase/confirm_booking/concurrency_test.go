package confirm_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/slot"
	"github.com/m04kA/Sauna-BookingService/internal/integrations/payments"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

// memoryLedger хранилище в памяти; каждая операция атомарна, как одиночный UPDATE в Postgres
type memoryLedger struct {
	mu       sync.Mutex
	slots    map[int64]*domain.TimeSlot
	bookings map[int64]*domain.Booking
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		slots:    make(map[int64]*domain.TimeSlot),
		bookings: make(map[int64]*domain.Booking),
	}
}

func (l *memoryLedger) addSlot(s domain.TimeSlot) {
	l.slots[s.ID] = &s
}

func (l *memoryLedger) addBooking(b domain.Booking) {
	slot := l.slots[b.TimeSlotID]
	b.SlotDate, b.SlotStartTime, b.SlotEndTime = slot.Date, slot.StartTime, slot.EndTime
	b.Kind = slot.Kind
	b.Status = domain.StatusPending
	l.bookings[b.ID] = &b
}

func (l *memoryLedger) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (l *memoryLedger) GetByCheckoutSessionID(_ context.Context, _ string) (*domain.Booking, error) {
	return nil, bookingRepo.ErrBookingNotFound
}

func (l *memoryLedger) CountConfirmedAt(_ context.Context, date time.Time, start types.TimeString) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, b := range l.bookings {
		if b.Status == domain.StatusConfirmed && b.SlotDate.Equal(date) && b.SlotStartTime == start {
			n++
		}
	}
	return n, nil
}

func (l *memoryLedger) Transition(_ context.Context, id int64, t domain.StatusTransition) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	b := l.bookings[id]
	if b.Status != t.From {
		return bookingRepo.ErrStatusConflict
	}
	b.Status, b.PaymentStatus = t.To, t.PaymentStatus
	return nil
}

func (l *memoryLedger) SetPaymentStatus(_ context.Context, id int64, status domain.PaymentStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bookings[id].PaymentStatus = status
	return nil
}

func (l *memoryLedger) SetPaymentIntent(_ context.Context, id int64, pi string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bookings[id].PaymentIntentID = &pi
	return nil
}

func (l *memoryLedger) IncrementBookings(_ context.Context, id int64, n int) (*domain.TimeSlot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.slots[id]
	if !s.IsAvailable || s.CurrentBookings+n > s.MaxCapacity {
		return nil, slotRepo.ErrCapacityExceeded
	}
	s.CurrentBookings += n
	cp := *s
	return &cp, nil
}

func (l *memoryLedger) SetAvailabilityAt(_ context.Context, date time.Time, start types.TimeString, kind domain.SessionKind, available bool) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int64
	for _, s := range l.slots {
		if s.Date.Equal(date) && s.StartTime == start && s.Kind == kind {
			s.IsAvailable = available
			n++
		}
	}
	return n, nil
}

func (l *memoryLedger) confirmed() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, b := range l.bookings {
		if b.Status == domain.StatusConfirmed {
			n++
		}
	}
	return n
}

// passThroughTx транзакция без изоляции: корректность держится только на условном UPDATE
type passThroughTx struct{}

func (passThroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// serialTx модель SERIALIZABLE: транзакции выполняются так, как будто по очереди
type serialTx struct{ mu sync.Mutex }

func (s *serialTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx)
}

type refundRecorder struct {
	mu    sync.Mutex
	count int
}

func (r *refundRecorder) Refund(_ context.Context, _ string, _ int64, _ int64) (*payments.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	return &payments.Refund{ID: "re"}, nil
}

type nopNotifier struct{}

func (nopNotifier) BookingConfirmed(context.Context, *domain.Booking) error { return nil }

func confirmAll(t *testing.T, uc *UseCase, ids []int64) (ok, rejected int) {
	t.Helper()
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	start := make(chan struct{})
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			<-start
			_, err := uc.Execute(context.Background(), &Request{BookingID: id, PaymentIntentID: "pi", Paid: true})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrSlotNotAvailable):
				rejected++
			default:
				t.Errorf("unexpected error for booking %d: %v", id, err)
			}
		}(id)
	}
	close(start)
	wg.Wait()
	return ok, rejected
}

func TestConcurrentCommunityConfirmsNeverOverflow(t *testing.T) {
	ledger := newMemoryLedger()
	ledger.addSlot(domain.TimeSlot{
		ID: 1, Date: slotDay, StartTime: "19:00", EndTime: "20:00",
		Kind: domain.SessionCommunity, MaxCapacity: 8, IsAvailable: true,
	})

	ids := make([]int64, 0, 10)
	for i := int64(1); i <= 10; i++ {
		ledger.addBooking(domain.Booking{ID: i, TimeSlotID: 1, PartySize: 3, TotalAmount: 7500})
		ids = append(ids, i)
	}

	refunds := &refundRecorder{}
	uc := NewUseCase(ledger, ledger, refunds, nopNotifier{}, nopMetrics{}, passThroughTx{}, MockLogger{})

	ok, rejected := confirmAll(t, uc, ids)

	// 3+3 помещаются в 8, третья партия уже нет
	assert.Equal(t, 2, ok)
	assert.Equal(t, 8, rejected)
	assert.Equal(t, 6, ledger.slots[1].CurrentBookings)
	assert.Equal(t, 8, refunds.count)
	assert.Equal(t, 2, ledger.confirmed())
}

func TestTwoBookingsThatJointlyOverflow(t *testing.T) {
	ledger := newMemoryLedger()
	ledger.addSlot(domain.TimeSlot{
		ID: 1, Date: slotDay, StartTime: "19:00", EndTime: "20:00",
		Kind: domain.SessionCommunity, MaxCapacity: 8, IsAvailable: true,
	})
	ledger.addBooking(domain.Booking{ID: 1, TimeSlotID: 1, PartySize: 5, TotalAmount: 12500})
	ledger.addBooking(domain.Booking{ID: 2, TimeSlotID: 1, PartySize: 4, TotalAmount: 10000})

	uc := NewUseCase(ledger, ledger, &refundRecorder{}, nopNotifier{}, nopMetrics{}, passThroughTx{}, MockLogger{})

	for i := 0; i < 50; i++ {
		ledger.slots[1].CurrentBookings = 0
		for _, b := range ledger.bookings {
			b.Status = domain.StatusPending
		}

		ok, rejected := confirmAll(t, uc, []int64{1, 2})
		require.Equal(t, 1, ok)
		require.Equal(t, 1, rejected)
		require.LessOrEqual(t, ledger.slots[1].CurrentBookings, 8)
	}
}

func TestConcurrentPrivateConfirmsExactlyOne(t *testing.T) {
	ledger := newMemoryLedger()
	ledger.addSlot(domain.TimeSlot{
		ID: 1, Date: slotDay, StartTime: "10:00", EndTime: "11:00",
		Kind: domain.SessionPrivate, MaxCapacity: 8, IsAvailable: true,
	})
	ledger.addSlot(domain.TimeSlot{
		ID: 2, Date: slotDay, StartTime: "10:00", EndTime: "11:00",
		Kind: domain.SessionCommunity, MaxCapacity: 8, IsAvailable: true,
	})
	ledger.addBooking(domain.Booking{ID: 1, TimeSlotID: 1, PartySize: 2, TotalAmount: 20000})
	ledger.addBooking(domain.Booking{ID: 2, TimeSlotID: 1, PartySize: 6, TotalAmount: 20000})
	ledger.addBooking(domain.Booking{ID: 3, TimeSlotID: 2, PartySize: 1, TotalAmount: 2500})

	uc := NewUseCase(ledger, ledger, &refundRecorder{}, nopNotifier{}, nopMetrics{}, &serialTx{}, MockLogger{})

	// Две приватные сессии подряд: вторая отклоняется
	ok, rejected := confirmAll(t, uc, []int64{1, 2})
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)

	// Community в то же время закрыт приватной сессией
	assert.False(t, ledger.slots[2].IsAvailable)
	_, err := uc.Execute(context.Background(), &Request{BookingID: 3, Paid: true, PaymentIntentID: "pi"})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, 0, ledger.slots[2].CurrentBookings)
}
