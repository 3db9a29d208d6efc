package generate_slots

import "time"

// Request генерация community слотов на [From, From+DaysAhead]
type Request struct {
	DaysAhead int       // 0 - горизонт из конфигурации
	From      time.Time // нулевое значение - сегодня в часовом поясе расписания
}

// Response итоги генерации
type Response struct {
	From     time.Time
	To       time.Time
	Created  int64 // новые строки
	Existing int64 // окна, которые уже были в каталоге
}
