// Package main - точка входа фонового демона (Worker) MentorConnect.
//
// Worker отвечает за асинхронную часть движка менторства:
// - Доставка уведомлений о жизненном цикле менторств и сессий
// - Напоминания о предстоящих сессиях
// - Напоминания менторам о зависших запросах
// - Повторная доставка неотправленных уведомлений
// - Очистка журнала аудита по сроку хранения
//
// Синхронные операции (запросы менторства, планирование сессий)
// выполняются встраивающим приложением через пакеты application/command
// и application/query; Worker лишь обрабатывает их последствия.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mentorconnect/mentorconnect-core/config"
	"github.com/mentorconnect/mentorconnect-core/internal/application/eventhandler"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/notification"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
	"github.com/mentorconnect/mentorconnect-core/internal/infrastructure/messaging"
	"github.com/mentorconnect/mentorconnect-core/internal/infrastructure/notifier"
	"github.com/mentorconnect/mentorconnect-core/internal/infrastructure/persistence/postgres"
	"github.com/mentorconnect/mentorconnect-core/internal/infrastructure/persistence/redis"
	"github.com/mentorconnect/mentorconnect-core/internal/infrastructure/scheduler"
	"github.com/mentorconnect/mentorconnect-core/internal/infrastructure/scheduler/jobs"
	"github.com/mentorconnect/mentorconnect-core/internal/infrastructure/service"
)

func main() {
	// Создаём корневой контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting MentorConnect worker",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.AutoMigrate {
		log.Info("checking database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		if applied, err := migrator.Status(ctx); err == nil {
			log.Info("database schema is up to date", "applied_migrations", len(applied))
		}
	} else {
		log.Info("auto-migrate disabled, assuming schema is current")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		if cfg.Redis.Host != "" {
			redisCfg.Host = cfg.Redis.Host
		}
		if cfg.Redis.Port != 0 {
			redisCfg.Port = cfg.Redis.Port
		}
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		if cfg.Redis.PoolSize > 0 {
			redisCfg.PoolSize = cfg.Redis.PoolSize
		}

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			// Redis ускоряет, но не является обязательным: без него
			// работаем напрямую с PostgreSQL и без rate limiting.
			log.Warn("failed to connect to Redis, continuing without cache", "error", err)
			redisCache = nil
		} else {
			defer func() {
				log.Info("closing Redis connection...")
				_ = redisCache.Close()
			}()
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	mentorshipRepo := postgres.NewMentorshipRepository(dbConn)
	sessionRepo := postgres.NewSessionRepository(dbConn)
	activityRepo := postgres.NewActivityRepository(dbConn)
	notificationRepo := postgres.NewNotificationRepository(dbConn)

	// Справочник пользователей читается на каждом уведомлении,
	// поэтому при наличии Redis оборачиваем его кешем.
	var userDirectory identity.Directory = postgres.NewUserDirectory(dbConn)
	if redisCache != nil {
		userDirectory = service.NewCachedDirectory(userDirectory, redis.NewUserCache(redisCache), log)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. КАНАЛЫ ДОСТАВКИ УВЕДОМЛЕНИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing notification channels...")
	inApp := notifier.NewInAppChannel()

	channels := []notification.NotificationChannel{inApp}
	// Канал для событийных обработчиков: почта при включённом шлюзе,
	// иначе только внутренний ящик.
	var eventChannel notification.NotificationChannel = inApp

	if !cfg.Mail.Disabled && cfg.Mail.BaseURL != "" {
		mailCfg := notifier.DefaultMailGatewayConfig(cfg.Mail.BaseURL, cfg.Mail.APIKey)
		if cfg.Mail.SenderAddress != "" {
			mailCfg.SenderAddress = cfg.Mail.SenderAddress
		}
		if cfg.Mail.RequestTimeout > 0 {
			mailCfg.Timeout = cfg.Mail.RequestTimeout
		}
		mailCfg.Logger = log
		mailCfg.Debug = cfg.App.Debug

		mail := notifier.NewMailGateway(mailCfg)
		channels = append(channels, mail)
		eventChannel = mail
		log.Info("mail gateway channel enabled", "sender", mailCfg.SenderAddress)
	} else {
		log.Info("mail gateway disabled, notifications stay in-app only")
	}

	notificationService := service.NewNotificationService(
		notificationRepo,
		log,
		service.NotificationServiceConfig{
			MaxAttempts:       cfg.Notifications.MaxAttempts,
			RespectQuietHours: cfg.Notifications.RespectQuietHours,
		},
		channels...,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. EVENT BUS И ОБРАБОТЧИКИ СОБЫТИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	localBusConfig := messaging.DefaultInMemoryEventBusConfig()
	localBusConfig.Logger = log
	localBusConfig.AsyncMode = true

	// Общая шина (fan-out между экземплярами) включается флагом
	// и требует живого Redis; иначе шина остаётся локальной.
	var (
		eventBus shared.EventBus
		closeBus func() error
	)
	if redisCache != nil && cfg.Features.IsEnabled(config.FeatureMessagingSharedBus, nil) {
		redisBus, err := messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client:         service.NewRedisPubSubAdapter(redisCache),
			LocalBusConfig: localBusConfig,
			Logger:         log,
		})
		if err != nil {
			return fmt.Errorf("failed to start redis event bus: %w", err)
		}
		log.Info("event bus fan-out over Redis Pub/Sub enabled")
		eventBus = redisBus
		closeBus = redisBus.Close
	} else {
		localBus := messaging.NewInMemoryEventBus(localBusConfig)
		eventBus = localBus
		closeBus = localBus.Close
	}
	defer func() {
		log.Info("closing event bus...")
		_ = closeBus()
	}()

	dispatcher := messaging.NewDispatcher(messaging.DispatcherConfig{
		EventBus:            eventBus,
		Logger:              log,
		DeadLetterQueueSize: 100,
	})

	mentorshipHandler := eventhandler.NewOnMentorshipChangedHandler(
		userDirectory,
		notificationRepo,
		eventChannel,
		log,
		eventhandler.DefaultMentorshipChangedConfig(),
	)
	for _, et := range []shared.EventType{
		shared.EventMentorshipRequested,
		shared.EventMentorshipAccepted,
		shared.EventMentorshipDeclined,
		shared.EventMentorshipCancelled,
		shared.EventMentorshipCompleted,
	} {
		if err := dispatcher.Register(et, "mentorship-notifications", mentorshipHandler.Handle); err != nil {
			return fmt.Errorf("failed to register mentorship handler: %w", err)
		}
	}

	sessionHandler := eventhandler.NewOnSessionChangedHandler(
		userDirectory,
		mentorshipRepo,
		sessionRepo,
		notificationRepo,
		eventChannel,
		log,
	)
	for _, et := range []shared.EventType{
		shared.EventSessionRequested,
		shared.EventSessionScheduled,
		shared.EventSessionRejected,
		shared.EventSessionCancelled,
	} {
		if err := dispatcher.Register(et, "session-notifications", sessionHandler.Handle); err != nil {
			return fmt.Errorf("failed to register session handler: %w", err)
		}
	}

	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	defer func() {
		log.Info("stopping event dispatcher...")
		_ = dispatcher.Stop()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ПЛАНИРОВЩИК И ФОНОВЫЕ ЗАДАЧИ
	// ─────────────────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler

	if cfg.Scheduler.Enabled {
		log.Info("initializing scheduler...")
		sched = scheduler.NewScheduler(scheduler.SchedulerConfig{
			Logger:        log,
			Timezone:      cfg.App.Location,
			EnableMetrics: cfg.Observability.MetricsEnabled,
		})

		remindersCfg := jobs.DefaultSessionRemindersConfig()
		remindersCfg.ReminderWindow = cfg.Scheduler.ReminderWindow
		remindersCfg.Timeout = cfg.Scheduler.JobTimeout
		remindersJob := jobs.NewSessionRemindersJob(
			sessionRepo,
			mentorshipRepo,
			userDirectory,
			notificationRepo,
			notificationService,
			log,
			remindersCfg,
		)
		if err := sched.Register(remindersJob, scheduler.NewIntervalSchedule(cfg.Scheduler.RemindersInterval)); err != nil {
			return fmt.Errorf("failed to register session reminders job: %w", err)
		}

		staleCfg := jobs.DefaultStaleRequestsConfig()
		staleCfg.PendingThreshold = cfg.Scheduler.StalePendingThreshold
		staleCfg.Timeout = cfg.Scheduler.JobTimeout
		staleJob := jobs.NewStaleRequestsJob(
			mentorshipRepo,
			userDirectory,
			notificationRepo,
			notificationService,
			log,
			staleCfg,
		)
		if err := sched.Register(staleJob, scheduler.NewIntervalSchedule(cfg.Scheduler.StaleRequestInterval)); err != nil {
			return fmt.Errorf("failed to register stale requests job: %w", err)
		}

		redeliveryCfg := jobs.DefaultNotificationRedeliveryConfig()
		redeliveryCfg.Timeout = cfg.Scheduler.JobTimeout
		redeliveryJob := jobs.NewNotificationRedeliveryJob(notificationService, log, redeliveryCfg)
		if err := sched.Register(redeliveryJob, scheduler.NewIntervalSchedule(cfg.Scheduler.RedeliveryInterval)); err != nil {
			return fmt.Errorf("failed to register notification redelivery job: %w", err)
		}

		retentionCfg := jobs.DefaultAuditRetentionConfig()
		retentionCfg.RetentionDays = cfg.Scheduler.AuditRetentionDays
		retentionCfg.Timeout = cfg.Scheduler.JobTimeout
		retentionJob := jobs.NewAuditRetentionJob(activityRepo, log, retentionCfg)
		retentionSchedule, err := scheduler.ParseCronSchedule(cfg.Scheduler.RetentionCron)
		if err != nil {
			return fmt.Errorf("invalid SCHEDULER_RETENTION_CRON: %w", err)
		}
		if err := sched.Register(retentionJob, retentionSchedule); err != nil {
			return fmt.Errorf("failed to register audit retention job: %w", err)
		}

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		log.Info("scheduler started",
			"reminders_interval", cfg.Scheduler.RemindersInterval.String(),
			"stale_interval", cfg.Scheduler.StaleRequestInterval.String(),
			"redelivery_interval", cfg.Scheduler.RedeliveryInterval.String(),
			"retention_cron", cfg.Scheduler.RetentionCron,
		)
	} else {
		log.Info("scheduler disabled, worker will only dispatch events")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("MentorConnect worker is running", "timezone", cfg.App.Timezone)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", "signal", sig.String())

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if sched != nil {
		done := make(chan struct{})
		go func() {
			_ = sched.Stop()
			close(done)
		}()
		select {
		case <-done:
			log.Info("scheduler stopped")
		case <-shutdownCtx.Done():
			log.Warn("scheduler stop timed out, abandoning running jobs")
		}
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование по конфигурации.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Observability.LogLevel),
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Observability.LogFormat, "json") || cfg.IsProduction() {
		// JSON формат для production (лучше для агрегаторов логов)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Текстовый формат для development (лучше читается)
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

// parseLogLevel преобразует строковый уровень в slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
