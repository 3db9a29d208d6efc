package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config корневая конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Pricing   PricingConfig   `toml:"pricing"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	Stripe    StripeConfig    `toml:"stripe"`
	Email     EmailConfig     `toml:"email"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int    `toml:"http_port"`
	ReadTimeout     int    `toml:"read_timeout"`
	WriteTimeout    int    `toml:"write_timeout"`
	IdleTimeout     int    `toml:"idle_timeout"`
	ShutdownTimeout int    `toml:"shutdown_timeout"`
	AppURL          string `toml:"app_url"`  // публичный адрес сайта для return URL
	Timezone        string `toml:"timezone"` // часовой пояс расписания, например America/Los_Angeles
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	MigrationsPath  string `toml:"migrations_path"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения для golang-migrate
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type PricingConfig struct {
	Currency      string `toml:"currency"`
	PerPersonRate int64  `toml:"per_person_rate"` // центы за человека, community
	PrivateRate   int64  `toml:"private_rate"`    // центы за приватную сессию
	MemberPolicy  string `toml:"member_policy"`   // waiver | discount
	// Скидки в процентах для политики discount
	CommunityMemberDiscount int `toml:"community_member_discount"`
	PrivateMemberDiscount   int `toml:"private_member_discount"`
}

type ScheduleConfig struct {
	HorizonDays      int      `toml:"horizon_days"`
	MaxCapacity      int      `toml:"max_capacity"`
	CommunityWindows []string `toml:"community_windows"` // "06:00-07:00"
	PrivateWindows   []string `toml:"private_windows"`
}

type StripeConfig struct {
	SecretKey          string `toml:"secret_key"`
	WebhookSecret      string `toml:"webhook_secret"`
	CheckoutTTLMinutes int    `toml:"checkout_ttl_minutes"`
	MonthlyPriceID     string `toml:"monthly_price_id"`
	AnnualPriceID      string `toml:"annual_price_id"`
	Timeout            int    `toml:"timeout"`
}

type EmailConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	From    string `toml:"from"`
	Inbox   string `toml:"inbox"` // адрес для заявок с контактной формы
	Timeout int    `toml:"timeout"`
}

type SchedulerConfig struct {
	Enabled            bool   `toml:"enabled"`
	ExpirePendingSpec  string `toml:"expire_pending_spec"`
	GenerateSlotsSpec  string `toml:"generate_slots_spec"`
	PendingGraceMinute int    `toml:"pending_grace_minutes"`
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Load читает TOML файл, применяет значения по умолчанию и переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация с расписанием и ценами по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
			AppURL:          "http://localhost:3000",
			Timezone:        "UTC",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			MigrationsPath:  "migrations",
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "sauna_booking"},
		Pricing: PricingConfig{
			Currency:                domain.DefaultCurrency,
			PerPersonRate:           domain.DefaultPerPersonRate,
			PrivateRate:             domain.DefaultPrivateRate,
			MemberPolicy:            "waiver",
			CommunityMemberDiscount: 50,
			PrivateMemberDiscount:   25,
		},
		Schedule: ScheduleConfig{
			HorizonDays: domain.DefaultHorizonDays,
			MaxCapacity: domain.DefaultMaxCapacity,
			CommunityWindows: []string{
				"06:00-07:00", "07:00-08:00", "08:00-09:00",
				"19:00-20:00", "20:00-21:00", "21:00-22:00", "22:00-23:00",
			},
			PrivateWindows: []string{
				"07:00-08:00", "08:00-09:00", "09:00-10:00", "10:00-11:00", "11:00-12:00",
				"12:00-13:00", "13:00-14:00", "14:00-15:00", "15:00-16:00", "16:00-17:00",
				"17:00-18:00", "18:00-19:00", "19:00-20:00", "20:00-21:00", "21:00-22:00",
			},
		},
		Stripe: StripeConfig{
			CheckoutTTLMinutes: domain.DefaultCheckoutTTLMinute,
			Timeout:            10,
		},
		Email: EmailConfig{
			BaseURL: "https://api.resend.com",
			Timeout: 10,
		},
		Scheduler: SchedulerConfig{
			Enabled:            true,
			ExpirePendingSpec:  "@every 5m",
			GenerateSlotsSpec:  "0 3 * * *",
			PendingGraceMinute: 5,
		},
		RateLimit: RateLimitConfig{RequestsPerSecond: 2, Burst: 10},
	}
}

// applyEnv секреты можно передать через окружение, не храня их в файле
func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"DATABASE_PASSWORD":     &c.Database.Password,
		"STRIPE_SECRET_KEY":     &c.Stripe.SecretKey,
		"STRIPE_WEBHOOK_SECRET": &c.Stripe.WebhookSecret,
		"RESEND_API_KEY":        &c.Email.APIKey,
		"APP_URL":               &c.Server.AppURL,
	}
	for env, target := range overrides {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*target = v
		}
	}
}

// Validate проверяет обязательные поля и расписание
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: server.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Pricing.PerPersonRate <= 0 || c.Pricing.PrivateRate <= 0 {
		return fmt.Errorf("%w: pricing rates must be positive", ErrInvalidConfig)
	}
	switch c.Pricing.MemberPolicy {
	case "waiver", "discount":
	default:
		return fmt.Errorf("%w: pricing.member_policy must be waiver or discount", ErrInvalidConfig)
	}
	if c.Pricing.CommunityMemberDiscount < 0 || c.Pricing.CommunityMemberDiscount > 100 ||
		c.Pricing.PrivateMemberDiscount < 0 || c.Pricing.PrivateMemberDiscount > 100 {
		return fmt.Errorf("%w: member discounts must be within 0..100", ErrInvalidConfig)
	}
	if c.Schedule.MaxCapacity < 1 {
		return fmt.Errorf("%w: schedule.max_capacity must be >= 1", ErrInvalidConfig)
	}
	if c.Schedule.HorizonDays < 0 || c.Schedule.HorizonDays > domain.MaxHorizonDays {
		return fmt.Errorf("%w: schedule.horizon_days out of range", ErrInvalidConfig)
	}
	if _, err := c.Schedule.Community(); err != nil {
		return fmt.Errorf("%w: schedule.community_windows: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Schedule.Private(); err != nil {
		return fmt.Errorf("%w: schedule.private_windows: %v", ErrInvalidConfig, err)
	}
	if c.Stripe.CheckoutTTLMinutes < 30 {
		// Stripe не принимает expires_at раньше чем через 30 минут
		return fmt.Errorf("%w: stripe.checkout_ttl_minutes must be >= 30", ErrInvalidConfig)
	}
	return nil
}

// Location часовой пояс расписания
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Server.Timezone)
}

// Community разобранное community расписание
func (s ScheduleConfig) Community() ([]domain.HourWindow, error) {
	return ParseWindows(s.CommunityWindows)
}

// Private разобранное расписание приватных сессий
func (s ScheduleConfig) Private() ([]domain.HourWindow, error) {
	return ParseWindows(s.PrivateWindows)
}

// ParseWindows разбирает окна вида "19:00-20:00"
func ParseWindows(raw []string) ([]domain.HourWindow, error) {
	windows := make([]domain.HourWindow, 0, len(raw))
	seen := make(map[types.TimeString]struct{}, len(raw))

	for _, w := range raw {
		if len(w) != len("00:00-00:00") || w[5] != '-' {
			return nil, fmt.Errorf("window %q: expected HH:MM-HH:MM", w)
		}
		start, err := types.NewTimeStringFromString(w[:5])
		if err != nil {
			return nil, fmt.Errorf("window %q: %v", w, err)
		}
		end, err := types.NewTimeStringFromString(w[6:])
		if err != nil {
			return nil, fmt.Errorf("window %q: %v", w, err)
		}
		if !start.IsBefore(end) {
			return nil, fmt.Errorf("window %q: start must be before end", w)
		}
		if _, dup := seen[start]; dup {
			return nil, fmt.Errorf("window %q: duplicate start time", w)
		}
		seen[start] = struct{}{}
		windows = append(windows, domain.HourWindow{Start: start, End: end})
	}
	return windows, nil
}
