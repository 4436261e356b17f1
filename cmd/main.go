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

	cancelReservationHandler "github.com/m04kA/SMC-FieldService/internal/api/handlers/cancel_reservation"
	confirmPaymentHandler "github.com/m04kA/SMC-FieldService/internal/api/handlers/confirm_payment"
	createReservationHandler "github.com/m04kA/SMC-FieldService/internal/api/handlers/create_reservation"
	getAvailableSlotsHandler "github.com/m04kA/SMC-FieldService/internal/api/handlers/get_available_slots"
	getReservationHandler "github.com/m04kA/SMC-FieldService/internal/api/handlers/get_reservation"
	getResourceHandler "github.com/m04kA/SMC-FieldService/internal/api/handlers/get_resource"
	getResourceReservationsHandler "github.com/m04kA/SMC-FieldService/internal/api/handlers/get_resource_reservations"
	getUserReservationsHandler "github.com/m04kA/SMC-FieldService/internal/api/handlers/get_user_reservations"
	updateResourceHandler "github.com/m04kA/SMC-FieldService/internal/api/handlers/update_resource"
	"github.com/m04kA/SMC-FieldService/internal/api/middleware"
	"github.com/m04kA/SMC-FieldService/internal/calendar"
	"github.com/m04kA/SMC-FieldService/internal/cancellation"
	"github.com/m04kA/SMC-FieldService/internal/config"
	"github.com/m04kA/SMC-FieldService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-FieldService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/SMC-FieldService/internal/infra/storage/resource"
	loyaltyClient "github.com/m04kA/SMC-FieldService/internal/integrations/loyaltyservice"
	"github.com/m04kA/SMC-FieldService/internal/integrations/notify"
	"github.com/m04kA/SMC-FieldService/internal/pricing"
	reservationsService "github.com/m04kA/SMC-FieldService/internal/service/reservations"
	resourcesService "github.com/m04kA/SMC-FieldService/internal/service/resources"
	cancelReservationUC "github.com/m04kA/SMC-FieldService/internal/usecase/cancel_reservation"
	createReservationUC "github.com/m04kA/SMC-FieldService/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/m04kA/SMC-FieldService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-FieldService/pkg/dbmetrics"
	"github.com/m04kA/SMC-FieldService/pkg/logger"
	"github.com/m04kA/SMC-FieldService/pkg/metrics"
	"github.com/m04kA/SMC-FieldService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-FieldService/pkg/txmanager"
	"github.com/m04kA/SMC-FieldService/pkg/types"
)

// completionSweepInterval период фоновой зачистки завершённых броней
const completionSweepInterval = 5 * time.Minute

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-FieldService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем клиент сервиса лояльности
	loyalty := loyaltyClient.NewClient(
		cfg.LoyaltyService.URL,
		time.Duration(cfg.LoyaltyService.Timeout)*time.Second,
		log,
	)
	log.Info("LoyaltyService client initialized (url=%s, timeout=%ds)",
		cfg.LoyaltyService.URL, cfg.LoyaltyService.Timeout)

	// Инициализируем публикатор событий (если включен)
	var publisher *notify.Publisher
	if cfg.AMQP.Enabled {
		publisher, err = notify.NewPublisher(cfg.AMQP.URL, log)
		if err != nil {
			log.Fatal("Failed to connect to AMQP broker: %v", err)
		}
		defer publisher.Close()
		log.Info("AMQP event publisher initialized")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		resourceRepository    *resourceRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		resourceRepository = resourceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Собираем доменные компоненты из конфигурации
	policy := bookingPolicy(cfg.Booking)
	defaultOpen, defaultClose := defaultHours(cfg.Booking, log)

	operationalCalendar := calendar.New(defaultOpen, defaultClose)
	pricingEngine := pricing.New(cfg.Booking.DefaultPeakMultiplier)
	cancellationPolicy := cancellation.New(
		cfg.Booking.FullRefundNoticeHours,
		cfg.Booking.LateRefundPercent,
		cfg.Booking.PointsPerCurrencyUnit,
	)

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		loyalty,
		cfg.Booking.PointsPerCurrencyUnit,
		log,
	)
	resourceSvc := resourcesService.NewService(resourceRepository, log)

	// Инициализируем use cases
	// nil-интерфейс публикатора: передаём указатель только если AMQP включен
	var createPublisher createReservationUC.EventPublisher
	var cancelPublisher cancelReservationUC.EventPublisher
	if publisher != nil {
		createPublisher = publisher
		cancelPublisher = publisher
	}

	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		resourceRepository,
		pricingEngine,
		operationalCalendar,
		policy,
		txMgr,
		createPublisher,
		log,
	)

	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		reservationRepository,
		cancellationPolicy,
		loyalty,
		txMgr,
		cancelPublisher,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		resourceRepository,
		pricingEngine,
		operationalCalendar,
		policy,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	getResourceReservations := getResourceReservationsHandler.NewHandler(reservationSvc, log)
	confirmPayment := confirmPaymentHandler.NewHandler(reservationSvc, log)
	getResource := getResourceHandler.NewHandler(resourceSvc, log)
	updateResource := updateResourceHandler.NewHandler(resourceSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Справочник ресурсов
	api.HandleFunc("/resources", getResource.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}", getResource.Handle).Methods(http.MethodGet)

	// Доступные слоты ресурса на дату
	api.HandleFunc("/resources/{resourceId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Просмотр бронирования по коду (код служит пропуском)
	api.HandleFunc("/reservations/by-code/{code}", getReservation.HandleByCode).Methods(http.MethodGet)

	// Создание бронирования доступно и гостям: идентификатор пользователя
	// берётся из заголовка, если он есть
	guest := api.PathPrefix("").Subrouter()
	guest.Use(middleware.OptionalAuth)
	guest.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Административный контур ---
	protected.HandleFunc("/reservations/{reservationId}/payment", confirmPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/resources/{resourceId}/reservations", getResourceReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/resources/{resourceId}", updateResource.Handle).Methods(http.MethodPut)

	// Фоновая зачистка: переводим прошедшие брони в completed
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go completionSweep(sweepCtx, reservationSvc, log)

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

	stopSweep()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// bookingPolicy собирает политику бронирования из конфигурации,
// подставляя значения по умолчанию для незаполненных полей
func bookingPolicy(cfg config.BookingConfig) domain.BookingPolicy {
	policy := domain.DefaultBookingPolicy()
	if cfg.MinNoticeMinutes > 0 {
		policy.MinNoticeMinutes = cfg.MinNoticeMinutes
	}
	if cfg.MaxAdvanceDays > 0 {
		policy.MaxAdvanceDays = cfg.MaxAdvanceDays
	}
	if cfg.MinDurationMinutes > 0 {
		policy.MinDurationMinutes = cfg.MinDurationMinutes
	}
	if cfg.MaxDurationMinutes > 0 {
		policy.MaxDurationMinutes = cfg.MaxDurationMinutes
	}
	if cfg.DurationStepMinutes > 0 {
		policy.DurationStepMinutes = cfg.DurationStepMinutes
	}
	return policy
}

// defaultHours парсит часы работы по умолчанию из конфигурации
// Некорректное значение - ошибка конфигурации, а не повод молча
// подставить константу
func defaultHours(cfg config.BookingConfig, log *logger.Logger) (types.TimeString, types.TimeString) {
	openStr, closeStr := cfg.DefaultOpenTime, cfg.DefaultCloseTime
	if openStr == "" {
		openStr = domain.DefaultOpenTime
	}
	if closeStr == "" {
		closeStr = domain.DefaultCloseTime
	}

	open, err := types.NewTimeStringFromString(openStr)
	if err != nil {
		log.Fatal("Invalid default_open_time %q: %v", openStr, err)
	}
	close, err := types.NewTimeStringFromString(closeStr)
	if err != nil {
		log.Fatal("Invalid default_close_time %q: %v", closeStr, err)
	}
	if !open.IsBefore(close) {
		log.Fatal("default_close_time %s must be after default_open_time %s", close, open)
	}

	return open, close
}

// completionSweep периодически переводит прошедшие активные брони в completed
func completionSweep(ctx context.Context, svc *reservationsService.Service, log *logger.Logger) {
	ticker := time.NewTicker(completionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.CompletePastReservations(ctx, time.Now()); err != nil {
				log.Error("Completion sweep failed: %v", err)
			}
		}
	}
}
