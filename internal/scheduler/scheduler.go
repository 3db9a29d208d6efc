package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/Sauna-BookingService/internal/usecase/expire_pending"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/generate_slots"
)

// ErrInvalidSpec возвращается при некорректном cron-выражении
var ErrInvalidSpec = errors.New("scheduler: invalid cron spec")

// ExpirePending сверка зависших pending-бронирований
type ExpirePending interface {
	Execute(ctx context.Context, req *expire_pending.Request) (*expire_pending.Response, error)
}

// GenerateSlots материализация расписания
type GenerateSlots interface {
	Execute(ctx context.Context, req *generate_slots.Request) (*generate_slots.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Config расписание фоновых задач
type Config struct {
	ExpirePendingSpec string
	GenerateSlotsSpec string
	PendingGrace      time.Duration
	JobTimeout        time.Duration
	Location          *time.Location
}

// Scheduler фоновые задачи поверх robfig/cron
type Scheduler struct {
	cfg    Config
	cron   *cron.Cron
	expire ExpirePending
	slots  GenerateSlots
	now    func() time.Time
	logger Logger

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New регистрирует задачи, пустое выражение отключает задачу
func New(cfg Config, expire ExpirePending, slots GenerateSlots, logger Logger) (*Scheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 5 * time.Minute
	}

	s := &Scheduler{
		cfg: cfg,
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
		),
		expire: expire,
		slots:  slots,
		now:    time.Now,
		logger: logger,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if cfg.ExpirePendingSpec != "" {
		if _, err := s.cron.AddFunc(cfg.ExpirePendingSpec, s.RunExpirePending); err != nil {
			return nil, fmt.Errorf("%w: expire_pending %q: %v", ErrInvalidSpec, cfg.ExpirePendingSpec, err)
		}
	}
	if cfg.GenerateSlotsSpec != "" {
		if _, err := s.cron.AddFunc(cfg.GenerateSlotsSpec, s.RunGenerateSlots); err != nil {
			return nil, fmt.Errorf("%w: generate_slots %q: %v", ErrInvalidSpec, cfg.GenerateSlotsSpec, err)
		}
	}
	return s, nil
}

// Start запускает планировщик, повторный вызов ничего не делает
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	s.logger.Info("Scheduler: started with %d jobs", len(s.cron.Entries()))
}

// Stop останавливает планировщик и ждёт завершения текущих задач
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	wasRunning := s.running
	s.running = false
	s.mu.Unlock()

	// Прерываем задачи, которые ещё работают
	defer s.cancel()
	if !wasRunning {
		return nil
	}

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler: stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler: stop timed out, cancelling running jobs")
		return ctx.Err()
	}
}

// RunExpirePending один проход сверки pending-бронирований
func (s *Scheduler) RunExpirePending() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.JobTimeout)
	defer cancel()

	resp, err := s.expire.Execute(ctx, &expire_pending.Request{
		Now:   s.now(),
		Grace: s.cfg.PendingGrace,
	})
	if err != nil {
		s.logger.Error("Scheduler: expire_pending failed: %v", err)
		return
	}
	if resp.Scanned > 0 {
		s.logger.Info("Scheduler: expire_pending scanned=%d, expired=%d, reconciled=%d, errors=%d",
			resp.Scanned, resp.Expired, resp.Reconciled, resp.Errors)
	}
}

// RunGenerateSlots докладывает слоты до горизонта
func (s *Scheduler) RunGenerateSlots() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.JobTimeout)
	defer cancel()

	resp, err := s.slots.Execute(ctx, &generate_slots.Request{})
	if err != nil {
		s.logger.Error("Scheduler: generate_slots failed: %v", err)
		return
	}
	s.logger.Info("Scheduler: generate_slots created=%d, existing=%d", resp.Created, resp.Existing)
}

// cronLogger адаптер логгера для robfig/cron
type cronLogger struct {
	logger Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info("Scheduler: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("Scheduler: %s: %v %v", msg, err, keysAndValues)
}
