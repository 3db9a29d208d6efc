package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/cancel_booking"
	cancelMembershipHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/cancel_membership"
	confirmBookingHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/create_booking"
	createSlotHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/create_slot"
	generateSlotsHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/generate_slots"
	getAvailableSlotsHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/get_booking"
	getCheckoutBookingHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/get_checkout_booking"
	getMyBookingsHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/get_my_bookings"
	getMyMembershipHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/get_my_membership"
	getWaiverTextHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/get_waiver_text"
	listBookingsHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/list_bookings"
	listMembershipsHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/list_memberships"
	listSlotsHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/list_slots"
	sendInquiryHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/send_inquiry"
	setSlotAvailabilityHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/set_slot_availability"
	signWaiverHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/sign_waiver"
	startMembershipCheckoutHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/start_membership_checkout"
	stripeWebhookHandler "github.com/m04kA/Sauna-BookingService/internal/api/handlers/stripe_webhook"
	"github.com/m04kA/Sauna-BookingService/internal/api/middleware"
	"github.com/m04kA/Sauna-BookingService/internal/config"
	bookingRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/booking"
	membershipRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/membership"
	slotRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/slot"
	waiverRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/waiver"
	"github.com/m04kA/Sauna-BookingService/internal/integrations/mailer"
	"github.com/m04kA/Sauna-BookingService/internal/integrations/payments"
	"github.com/m04kA/Sauna-BookingService/internal/scheduler"
	"github.com/m04kA/Sauna-BookingService/internal/service/availability"
	bookingsService "github.com/m04kA/Sauna-BookingService/internal/service/bookings"
	membershipsService "github.com/m04kA/Sauna-BookingService/internal/service/memberships"
	notificationsService "github.com/m04kA/Sauna-BookingService/internal/service/notifications"
	"github.com/m04kA/Sauna-BookingService/internal/service/pricing"
	slotsService "github.com/m04kA/Sauna-BookingService/internal/service/slots"
	waiversService "github.com/m04kA/Sauna-BookingService/internal/service/waivers"
	cancelBookingUC "github.com/m04kA/Sauna-BookingService/internal/usecase/cancel_booking"
	confirmBookingUC "github.com/m04kA/Sauna-BookingService/internal/usecase/confirm_booking"
	createBookingUC "github.com/m04kA/Sauna-BookingService/internal/usecase/create_booking"
	expirePendingUC "github.com/m04kA/Sauna-BookingService/internal/usecase/expire_pending"
	failBookingUC "github.com/m04kA/Sauna-BookingService/internal/usecase/fail_booking"
	generateSlotsUC "github.com/m04kA/Sauna-BookingService/internal/usecase/generate_slots"
	getAvailableSlotsUC "github.com/m04kA/Sauna-BookingService/internal/usecase/get_available_slots"
	handlePaymentEventUC "github.com/m04kA/Sauna-BookingService/internal/usecase/handle_payment_event"
	"github.com/m04kA/Sauna-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Sauna-BookingService/pkg/logger"
	"github.com/m04kA/Sauna-BookingService/pkg/metrics"
	"github.com/m04kA/Sauna-BookingService/pkg/txmanager"
)

const schedulerJobTimeout = 2 * time.Minute

func main() {
	configPath := "config.toml"
	if p, ok := os.LookupEnv("CONFIG_PATH"); ok && p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting Sauna-BookingService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid timezone %q: %v", cfg.Server.Timezone, err)
	}
	communityWindows, err := cfg.Schedule.Community()
	if err != nil {
		log.Fatal("Invalid community schedule: %v", err)
	}
	privateWindows, err := cfg.Schedule.Private()
	if err != nil {
		log.Fatal("Invalid private schedule: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// С выключенными метриками обёртка прозрачна
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	slotRepository := slotRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	waiverRepository := waiverRepo.NewRepository(wrappedDB)
	membershipRepository := membershipRepo.NewRepository(wrappedDB)

	// Инициализируем интеграционных клиентов
	paymentsClient := payments.NewClient(payments.Config{
		SecretKey:      cfg.Stripe.SecretKey,
		WebhookSecret:  cfg.Stripe.WebhookSecret,
		AppURL:         cfg.Server.AppURL,
		MonthlyPriceID: cfg.Stripe.MonthlyPriceID,
		AnnualPriceID:  cfg.Stripe.AnnualPriceID,
		Timeout:        time.Duration(cfg.Stripe.Timeout) * time.Second,
	}, log)
	mailClient := mailer.NewClient(
		cfg.Email.BaseURL,
		cfg.Email.APIKey,
		cfg.Email.From,
		time.Duration(cfg.Email.Timeout)*time.Second,
	)
	log.Info("Integration clients initialized (Stripe timeout=%ds, Email=%s enabled=%t)",
		cfg.Stripe.Timeout, cfg.Email.BaseURL, cfg.Email.Enabled)

	// Инициализируем сервисы
	pricingEngine := pricing.NewEngine(pricing.Rates{
		Currency:                cfg.Pricing.Currency,
		PerPersonRate:           cfg.Pricing.PerPersonRate,
		PrivateRate:             cfg.Pricing.PrivateRate,
		Policy:                  pricing.MemberPolicy(cfg.Pricing.MemberPolicy),
		CommunityMemberDiscount: cfg.Pricing.CommunityMemberDiscount,
		PrivateMemberDiscount:   cfg.Pricing.PrivateMemberDiscount,
	})
	availabilityChecker := availability.NewChecker(
		slotRepository,
		bookingRepository,
		privateWindows,
		cfg.Schedule.MaxCapacity,
		location,
	)
	notificationSvc, err := notificationsService.NewService(mailClient, cfg.Email.Inbox, cfg.Email.Enabled, log)
	if err != nil {
		log.Fatal("Failed to initialize notifications: %v", err)
	}
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	slotSvc := slotsService.NewService(slotRepository, location, log)
	waiverSvc := waiversService.NewService(waiverRepository, log)
	membershipSvc := membershipsService.NewService(membershipRepository, paymentsClient, txMgr, log)

	// Инициализируем use cases
	confirmBookingUseCase := confirmBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		paymentsClient,
		notificationSvc,
		metricsCollector,
		txMgr,
		log,
	)
	failBookingUseCase := failBookingUC.NewUseCase(bookingRepository, metricsCollector, txMgr, log)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		waiverRepository,
		membershipRepository,
		availabilityChecker,
		pricingEngine,
		paymentsClient,
		confirmBookingUseCase,
		failBookingUseCase,
		metricsCollector,
		txMgr,
		createBookingUC.Config{
			HorizonDays: cfg.Schedule.HorizonDays,
			MaxCapacity: cfg.Schedule.MaxCapacity,
			CheckoutTTL: time.Duration(cfg.Stripe.CheckoutTTLMinutes) * time.Minute,
			Location:    location,
		},
		log,
	)

	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		paymentsClient,
		metricsCollector,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		availabilityChecker,
		cfg.Schedule.HorizonDays,
		location,
		log,
	)

	generateSlotsUseCase := generateSlotsUC.NewUseCase(
		slotRepository,
		communityWindows,
		cfg.Schedule.MaxCapacity,
		cfg.Schedule.HorizonDays,
		location,
		log,
	)

	expirePendingUseCase := expirePendingUC.NewUseCase(
		bookingRepository,
		paymentsClient,
		confirmBookingUseCase,
		failBookingUseCase,
		log,
	)

	handlePaymentEventUseCase := handlePaymentEventUC.NewUseCase(
		paymentsClient,
		confirmBookingUseCase,
		failBookingUseCase,
		membershipSvc,
		log,
	)

	// Фоновые задачи
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs, err = scheduler.New(scheduler.Config{
			ExpirePendingSpec: cfg.Scheduler.ExpirePendingSpec,
			GenerateSlotsSpec: cfg.Scheduler.GenerateSlotsSpec,
			PendingGrace:      time.Duration(cfg.Scheduler.PendingGraceMinute) * time.Minute,
			JobTimeout:        schedulerJobTimeout,
			Location:          location,
		}, expirePendingUseCase, generateSlotsUseCase, log)
		if err != nil {
			log.Fatal("Failed to initialize scheduler: %v", err)
		}
		jobs.Start()
		// Каталог на горизонт нужен сразу, не дожидаясь ночного запуска
		go jobs.RunGenerateSlots()
		log.Info("Scheduler started (expire_pending=%q, generate_slots=%q)",
			cfg.Scheduler.ExpirePendingSpec, cfg.Scheduler.GenerateSlotsSpec)
	}

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, location, log)
	getCheckoutBooking := getCheckoutBookingHandler.NewHandler(bookingSvc, log)
	getWaiverText := getWaiverTextHandler.NewHandler(waiverSvc)
	signWaiver := signWaiverHandler.NewHandler(waiverSvc, log)
	sendInquiry := sendInquiryHandler.NewHandler(notificationSvc, log)
	stripeWebhook := stripeWebhookHandler.NewHandler(handlePaymentEventUseCase, metricsCollector, log)

	getMyBookings := getMyBookingsHandler.NewHandler(bookingSvc, log)
	getMyMembership := getMyMembershipHandler.NewHandler(membershipSvc, log)
	startMembershipCheckout := startMembershipCheckoutHandler.NewHandler(membershipSvc, log)
	cancelMembership := cancelMembershipHandler.NewHandler(membershipSvc, log)

	listBookings := listBookingsHandler.NewHandler(bookingSvc, location, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(confirmBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	listSlots := listSlotsHandler.NewHandler(slotSvc, location, log)
	createSlot := createSlotHandler.NewHandler(slotSvc, log)
	generateSlots := generateSlotsHandler.NewHandler(generateSlotsUseCase, location, log)
	setSlotAvailability := setSlotAvailabilityHandler.NewHandler(slotSvc, log)
	listMemberships := listMembershipsHandler.NewHandler(membershipSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации, X-User-ID учитывается если есть)
	// ============================================================

	// Webhook Stripe не проходит через ограничение частоты
	api.HandleFunc("/webhooks/stripe", stripeWebhook.Handle).Methods(http.MethodPost)

	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		public.Use(limiter.Middleware)
		log.Info("Rate limit enabled (rps=%.2f, burst=%d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// --- Расписание ---
	public.HandleFunc("/time-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	public.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	public.HandleFunc("/checkout-sessions/{sessionId}/booking", getCheckoutBooking.Handle).Methods(http.MethodGet)

	// --- Отказ от ответственности ---
	public.HandleFunc("/waivers/current", getWaiverText.Handle).Methods(http.MethodGet)
	public.HandleFunc("/waivers", signWaiver.Handle).Methods(http.MethodPost)

	// --- Заявки с сайта ---
	public.HandleFunc("/inquiries", sendInquiry.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/bookings/me", getMyBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/memberships/me", getMyMembership.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/memberships/checkout", startMembershipCheckout.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/memberships/cancel", cancelMembership.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (X-User-ID и X-User-Role: admin)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth, middleware.RequireAdmin)

	// --- Бронирования ---
	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Каталог слотов ---
	admin.HandleFunc("/time-slots", listSlots.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/time-slots", createSlot.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/time-slots/generate", generateSlots.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/time-slots/{slotId}/availability", setSlotAvailability.Handle).Methods(http.MethodPatch)

	// --- Членства ---
	admin.HandleFunc("/memberships", listMemberships.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся текущих задач планировщика
	if jobs != nil {
		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler stop interrupted: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
