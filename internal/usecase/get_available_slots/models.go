package get_available_slots

import (
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

// Request модель запроса на получение доступных окон
type Request struct {
	Date      time.Time          // Дата (без времени)
	Kind      domain.SessionKind // community | private
	PartySize int                // 0 - без фильтра по размеру группы
}

// Response модель ответа со списком доступных окон
type Response struct {
	Date  time.Time
	Kind  domain.SessionKind
	Slots []Slot
}

// Slot модель доступного окна
type Slot struct {
	SlotID          *int64 // nil для приватного окна без строки в БД
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	AvailableSpots  int
	TotalSpots      int
}
