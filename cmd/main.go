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
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/m04kA/SMC-SharingService/internal/api/handlers"
	createBookingHandler "github.com/m04kA/SMC-SharingService/internal/api/handlers/create_booking"
	decideBookingHandler "github.com/m04kA/SMC-SharingService/internal/api/handlers/decide_booking"
	getBookingHandler "github.com/m04kA/SMC-SharingService/internal/api/handlers/get_booking"
	getFinishedBookingHandler "github.com/m04kA/SMC-SharingService/internal/api/handlers/get_finished_booking"
	getItemsBookingsHandler "github.com/m04kA/SMC-SharingService/internal/api/handlers/get_items_bookings"
	getOwnerBookingsHandler "github.com/m04kA/SMC-SharingService/internal/api/handlers/get_owner_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-SharingService/internal/api/handlers/get_user_bookings"
	"github.com/m04kA/SMC-SharingService/internal/api/middleware"
	"github.com/m04kA/SMC-SharingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-SharingService/internal/infra/storage/booking"
	itemServiceClient "github.com/m04kA/SMC-SharingService/internal/integrations/itemservice"
	userServiceClient "github.com/m04kA/SMC-SharingService/internal/integrations/userservice"
	bookingsService "github.com/m04kA/SMC-SharingService/internal/service/bookings"
	"github.com/m04kA/SMC-SharingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SharingService/pkg/logger"
	"github.com/m04kA/SMC-SharingService/pkg/metrics"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.toml", "path to TOML config")
	pflag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-SharingService...")
	log.Info("Configuration loaded from %s", *configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	// stopCh останавливает фоновые задачи: сбор метрик пула и очистку лимитеров
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище бронирований
	bookingRepository, closeStore, err := newBookingRepository(cfg, metricsCollector, stopCh, log)
	if err != nil {
		log.Fatal("Failed to initialize booking storage: %v", err)
	}
	defer closeStore()

	// Инициализируем интеграционных клиентов
	var userClient bookingsService.UserServiceClient = userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	itemClient := itemServiceClient.NewClient(
		cfg.ItemService.URL,
		time.Duration(cfg.ItemService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds, ItemService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.ItemService.URL, cfg.ItemService.Timeout)

	// Кэш существования пользователей в Redis (если включен)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis is unavailable, user cache will fall back to UserService: %v", err)
		}

		userClient = userServiceClient.NewCachedClient(
			userClient,
			redisClient,
			time.Duration(cfg.Redis.TTL)*time.Second,
			log,
		)
		log.Info("User existence cache enabled (redis=%s ttl=%ds)", cfg.Redis.Address, cfg.Redis.TTL)
	}

	// Инициализируем сервис
	var businessMetrics bookingsService.MetricsRecorder
	if metricsCollector != nil {
		businessMetrics = metricsCollector
	}
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		userClient,
		itemClient,
		bookingsService.RealTimeProvider{},
		businessMetrics,
		log,
	)

	// Инициализируем handlers
	pagination := handlers.Pagination{
		DefaultSize: cfg.Pagination.DefaultSize,
		MaxSize:     cfg.Pagination.MaxSize,
	}
	createBooking := createBookingHandler.NewHandler(bookingSvc, log)
	decideBooking := decideBookingHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, pagination, log)
	getOwnerBookings := getOwnerBookingsHandler.NewHandler(bookingSvc, pagination, log)
	getItemsBookings := getItemsBookingsHandler.NewHandler(bookingSvc, log)
	getFinishedBooking := getFinishedBookingHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// INTERNAL ROUTES (вызовы других сервисов)
	// ============================================================

	// Завершенная аренда вещи пользователем (для отзывов)
	api.HandleFunc("/internal/items/{itemId}/bookers/{userId}/finished",
		getFinishedBooking.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют заголовок X-Sharer-User-Id)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		limiter.StartCleanup(middleware.DefaultCleanupInterval, middleware.DefaultIdleTTL, stopCh)
		protected.Use(limiter.Middleware)
		log.Info("Rate limit enabled (rps=%.1f burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Последнее и следующее бронирования вещей владельца
	protected.HandleFunc("/internal/items/bookings", getItemsBookings.Handle).Methods(http.MethodGet)

	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Бронирования пользователя как арендатора
	protected.HandleFunc("/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Бронирования вещей владельца (регистрируется до /bookings/{bookingId})
	protected.HandleFunc("/bookings/owner", getOwnerBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Подтверждение или отклонение бронирования владельцем
	protected.HandleFunc("/bookings/{bookingId}", decideBooking.Handle).Methods(http.MethodPatch)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи
	close(stopCh)

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

// newBookingRepository создает хранилище бронирований по драйверу из конфига.
// Для драйвера memory база данных не открывается и схема не применяется.
func newBookingRepository(
	cfg *config.Config,
	metricsCollector *metrics.Metrics,
	stopCh <-chan struct{},
	log *logger.Logger,
) (bookingsService.BookingRepository, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("Using in-memory booking storage, data will be lost on restart")
		return bookingRepo.NewMemoryRepository(), func() {}, nil
	}

	// Подключаемся к базе данных
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	closeDB := func() { db.Close() }

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (driver=%s)", cfg.Database.Driver)

	var executor bookingRepo.DBExecutor = db
	if cfg.Metrics.Enabled {
		executor = dbmetrics.WrapWithDefault(db, metricsCollector, stopCh)
		log.Info("Database metrics collection started")
	}

	if err := bookingRepo.EnsureSchema(context.Background(), executor, cfg.Database.Driver); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	repo, err := bookingRepo.NewRepository(executor, cfg.Database.Driver)
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("failed to create booking repository: %w", err)
	}

	return repo, closeDB, nil
}
