package expire_pending

import "time"

// DefaultBatchSize сколько бронирований обрабатывается за один проход
const DefaultBatchSize = 100

// Request параметры прохода
type Request struct {
	Now       time.Time
	Grace     time.Duration // запас после checkout_expires_at на доставку webhook
	BatchSize uint64
}

// Response итоги прохода
type Response struct {
	Scanned    int
	Expired    int // переведены в cancelled/failed
	Reconciled int // оплата найдена у провайдера, бронирование подтверждено
	Errors     int // пропущены до следующего прохода
}
