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
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/create_appointment"
	deleteAppointmentHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/delete_appointment"
	dismissFeedbackHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/dismiss_feedback"
	findTechniciansHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/find_technicians"
	getAppointmentHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/get_appointment"
	getUserAppointmentsHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/get_user_appointments"
	rebookAppointmentHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/rebook_appointment"
	submitRatingHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/submit_rating"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-RepairService/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-RepairService/internal/api/middleware"
	"github.com/m04kA/SMC-RepairService/internal/config"
	"github.com/m04kA/SMC-RepairService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/appointment"
	ratingRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/rating"
	shopRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/shop"
	technicianRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/technician"
	userRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/user"
	"github.com/m04kA/SMC-RepairService/internal/integrations/notifier"
	appointmentsService "github.com/m04kA/SMC-RepairService/internal/service/appointments"
	"github.com/m04kA/SMC-RepairService/internal/service/availability"
	createAppointmentUC "github.com/m04kA/SMC-RepairService/internal/usecase/create_appointment"
	findTechniciansUC "github.com/m04kA/SMC-RepairService/internal/usecase/find_technicians"
	submitRatingUC "github.com/m04kA/SMC-RepairService/internal/usecase/submit_rating"
	"github.com/m04kA/SMC-RepairService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RepairService/pkg/logger"
	"github.com/m04kA/SMC-RepairService/pkg/metrics"
	"github.com/m04kA/SMC-RepairService/pkg/txmanager"
)

// Locker общий интерфейс блокировок (Redis или память процесса)
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
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

	log.Info("Starting SMC-RepairService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}
	recorder := metrics.NewRecorder(metricsCollector)

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

	// Без метрик обёртка работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopCh)
	txManager := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	technicianRepository := technicianRepo.NewRepository(wrappedDB)
	shopRepository := shopRepo.NewRepository(wrappedDB)
	userRepository := userRepo.NewRepository(wrappedDB)
	ratingRepository := ratingRepo.NewRepository(wrappedDB)

	// Блокировки: Redis для нескольких экземпляров, иначе в памяти процесса
	var locker Locker
	if cfg.Redis.Enabled() {
		redisClient, err := lock.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()

		locker = lock.NewRedisLocker(
			redisClient,
			time.Duration(cfg.Redis.LockTTL)*time.Second,
			time.Duration(cfg.Redis.LockWait)*time.Second,
			log,
		)
		log.Info("Redis locks enabled (addr=%s)", cfg.Redis.Addr)
	} else {
		locker = lock.NewMemoryLocker()
		log.Warn("Redis is not configured, using in-process locks (single instance only)")
	}

	// Уведомления: FCM или только лог, отправка всегда в фоне
	var delivery notifier.Notifier
	if cfg.Notifications.Enabled {
		fcm, err := notifier.NewFCMNotifier(context.Background(), cfg.Notifications.CredentialsFile, log)
		if err != nil {
			log.Fatal("Failed to initialize FCM: %v", err)
		}
		delivery = fcm
		log.Info("FCM notifications enabled")
	} else {
		delivery = notifier.NewLogNotifier(log)
		log.Info("Notifications disabled, messages are only logged")
	}
	asyncNotifier := notifier.NewAsync(
		delivery,
		time.Duration(cfg.Notifications.SendTimeout)*time.Second,
		recorder,
		log,
	)

	// Проверка графика техников
	evaluator := availability.NewEvaluator(cfg.Booking.Timezone, log)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		userRepository,
		asyncNotifier,
		evaluator,
		txManager,
		recorder,
		log,
	)

	// Инициализируем use cases
	findTechniciansUseCase := findTechniciansUC.NewUseCase(
		userRepository,
		technicianRepository,
		shopRepository,
		evaluator,
		cfg.Booking.SearchRadiusKm,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		technicianRepository,
		shopRepository,
		evaluator,
		locker,
		txManager,
		asyncNotifier,
		recorder,
		log,
	)

	submitRatingUseCase := submitRatingUC.NewUseCase(
		ratingRepository,
		technicianRepository,
		appointmentRepository,
		locker,
		txManager,
		recorder,
		log,
	)

	// Инициализируем handlers
	findTechnicians := findTechniciansHandler.NewHandler(findTechniciansUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	rebookAppointment := rebookAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	dismissFeedback := dismissFeedbackHandler.NewHandler(appointmentSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentSvc, log)
	submitRating := submitRatingHandler.NewHandler(submitRatingUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix, все маршруты требуют X-User-ID header
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		go limiter.RunCleanup(time.Minute, stopCh)
		api.Use(limiter.Middleware)
		log.Info("Rate limit enabled (%.1f rps, burst %d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// --- Техники ---
	// Подбор техников рядом с пользователем
	api.HandleFunc("/technicians/eligible", findTechnicians.Handle).Methods(http.MethodGet)

	// Оценка техника
	api.HandleFunc("/technicians/{technicianId}/ratings", submitRating.Handle).Methods(http.MethodPost)

	// --- Записи ---
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{appointmentId}/rebook", rebookAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}/dismiss-feedback", dismissFeedback.Handle).Methods(http.MethodPost)

	// Смена статуса техником
	api.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// История записей пользователя
	api.HandleFunc("/users/{userId}/appointments", getUserAppointments.Handle).Methods(http.MethodGet)

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

	// Дожидаемся фоновых уведомлений
	asyncNotifier.Wait()

	// Останавливаем сбор метрик connection pool и очистку лимитера
	close(stopCh)

	log.Info("Server stopped gracefully")
}
