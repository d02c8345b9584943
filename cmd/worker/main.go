// Package main is the entry point of the BerryLearn Badge Hub worker.
//
// The worker hosts the full badge evaluation pipeline: it wires the
// learner store, the badge registry, the evaluation saga and its command
// handlers, projects unlock events into the audit trail, and runs the
// daily unlock digest job.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/berrylearn/badge-hub/config"
	"github.com/berrylearn/badge-hub/internal/application/command"
	"github.com/berrylearn/badge-hub/internal/application/eventhandler"
	"github.com/berrylearn/badge-hub/internal/application/query"
	"github.com/berrylearn/badge-hub/internal/application/saga"
	"github.com/berrylearn/badge-hub/internal/domain/badge"
	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
	"github.com/berrylearn/badge-hub/internal/infrastructure/external/slack"
	"github.com/berrylearn/badge-hub/internal/infrastructure/i18n"
	"github.com/berrylearn/badge-hub/internal/infrastructure/messaging"
	"github.com/berrylearn/badge-hub/internal/infrastructure/persistence/postgres"
	"github.com/berrylearn/badge-hub/internal/infrastructure/persistence/redis"
	"github.com/berrylearn/badge-hub/internal/infrastructure/scheduler"
	"github.com/berrylearn/badge-hub/internal/infrastructure/scheduler/jobs"
	"github.com/berrylearn/badge-hub/internal/infrastructure/service"
	"github.com/berrylearn/badge-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. Configuration
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Logging
	// ─────────────────────────────────────────────────────────────────────────
	slogLogger := setupSlog(cfg)
	appLogger := setupAppLogger(cfg)

	slogLogger.Info("starting BerryLearn Badge Hub worker",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"debug", cfg.App.Debug,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. Database
	// ─────────────────────────────────────────────────────────────────────────
	slogLogger.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		slogLogger.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	slogLogger.Info("running database migrations...")
	if err := postgres.NewMigrator(dbConn).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. Repositories
	// ─────────────────────────────────────────────────────────────────────────
	var learnerRepo learner.Repository = postgres.NewLearnerRepository(dbConn)
	unlockAudit := postgres.NewUnlockAuditRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. Redis cache (optional)
	// ─────────────────────────────────────────────────────────────────────────
	if !cfg.Redis.Disabled {
		slogLogger.Info("connecting to Redis...")
		redisCache, err := redis.NewCache(redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			slogLogger.Warn("failed to connect to Redis, serving reads from Postgres", "error", err)
		} else {
			defer redisCache.Close()
			learnerCache := redis.NewLearnerCache(redisCache)
			learnerRepo = service.NewCachedLearnerRepository(learnerRepo, learnerCache, cfg.Redis.LearnerTTL, slogLogger)
			slogLogger.Info("learner cache enabled", "ttl", cfg.Redis.LearnerTTL.String())
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. Badge registry and localization
	// ─────────────────────────────────────────────────────────────────────────
	registry := badge.MustNewRegistry(badge.Catalog())
	localizer := i18n.NewLocalizer()
	slogLogger.Info("badge registry loaded", "badges", registry.Len())

	// ─────────────────────────────────────────────────────────────────────────
	// 7. Event bus and unlock audit projection
	// ─────────────────────────────────────────────────────────────────────────
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = slogLogger
	busConfig.AsyncMode = true
	eventBus := messaging.NewInMemoryEventBus(busConfig)
	defer func() {
		slogLogger.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	dispatcherConfig := messaging.DefaultDispatcherConfig(eventBus)
	dispatcherConfig.Logger = slogLogger
	dispatcher := messaging.NewDispatcher(dispatcherConfig)

	auditHandler := eventhandler.NewOnBadgeUnlockedHandler(
		unlockAudit, slogLogger, eventhandler.DefaultBadgeUnlockedConfig())
	if err := dispatcher.Register(shared.EventBadgeUnlocked, "unlock_audit", auditHandler.Handle); err != nil {
		return fmt.Errorf("failed to register unlock audit handler: %w", err)
	}
	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. Slack notifiers
	// ─────────────────────────────────────────────────────────────────────────
	var (
		showcaseNotifier command.ShowcaseNotifier
		unlockNotifier   saga.UnlockNotifier
		slackClient      *slack.Client
	)
	if !cfg.Slack.Disabled && cfg.Slack.WebhookURL != "" {
		slackConfig := slack.DefaultClientConfig(cfg.Slack.WebhookURL)
		slackConfig.BotName = cfg.Slack.BotName
		slackConfig.IconEmoji = cfg.Slack.IconEmoji
		slackConfig.DefaultChannel = cfg.Slack.ShowcaseChannel
		slackConfig.Timeout = cfg.Slack.RequestTimeout
		slackConfig.Logger = slogLogger
		slackConfig.Debug = cfg.App.Debug
		slackClient = slack.NewClient(slackConfig)

		showcaseNotifier = service.NewShowcaseSlackNotifier(slackClient)
		unlockNotifier = service.NewUnlockSlackNotifier(slackClient, cfg.Slack.UnlockChannel)
		slogLogger.Info("slack notifications enabled", "channel", cfg.Slack.ShowcaseChannel)
	} else {
		slogLogger.Info("slack notifications disabled")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. Evaluation saga and handlers
	// ─────────────────────────────────────────────────────────────────────────
	curriculum := service.NewStaticCurriculum(
		cfg.Evaluation.StarterAssignments, cfg.Evaluation.DefaultStarterAssignments)

	flow := saga.NewBadgeFlowSaga(
		learnerRepo,
		registry,
		localizer,
		curriculum,
		eventBus,
		unlockNotifier,
		appLogger,
		saga.BadgeFlowConfig{
			EnableNotifications: cfg.Evaluation.EnableNotifications && unlockNotifier != nil,
			MaxSaveAttempts:     cfg.Evaluation.MaxSaveAttempts,
		},
	)

	showcaseTriggers := make([]command.ShowcaseTrigger, 0, len(cfg.Slack.ShowcaseTriggers))
	for _, t := range cfg.Slack.ShowcaseTriggers {
		showcaseTriggers = append(showcaseTriggers, command.ShowcaseTrigger{
			LessonID:     t.LessonID,
			AssignmentID: t.AssignmentID,
		})
	}

	submissionHandler := command.NewRecordSubmissionHandler(flow, showcaseNotifier, appLogger,
		command.RecordSubmissionHandlerConfig{ShowcaseTriggers: showcaseTriggers})
	feedbackHandler := command.NewRecordFeedbackHandler(flow)
	factHandler := command.NewApplyExternalFactHandler(flow)
	unitHandler := command.NewCompleteUnitHandler(flow)
	acknowledgeHandler := command.NewAcknowledgeBadgesHandler(learnerRepo, eventBus, appLogger)

	badgesQuery := query.NewGetBadgesHandler(learnerRepo, registry, localizer)
	newBadgesQuery := query.NewGetNewBadgesHandler(learnerRepo, registry, localizer)
	progressQuery := query.NewGetProgressSummaryHandler(learnerRepo)

	// Handlers are consumed by the transport layer; the worker keeps them
	// alive for the lifetime of the process.
	_ = submissionHandler
	_ = feedbackHandler
	_ = factHandler
	_ = unitHandler
	_ = acknowledgeHandler
	_ = badgesQuery
	_ = newBadgesQuery
	_ = progressQuery

	// ─────────────────────────────────────────────────────────────────────────
	// 10. Scheduler
	// ─────────────────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled && slackClient != nil {
		schedConfig := scheduler.DefaultSchedulerConfig()
		schedConfig.Logger = slogLogger
		schedConfig.Timezone = cfg.App.Location
		sched = scheduler.NewScheduler(schedConfig)

		digestConfig := jobs.DefaultUnlockDigestConfig()
		digestConfig.Window = cfg.Scheduler.DigestWindow
		digestConfig.TopBadges = cfg.Scheduler.DigestTop
		digestConfig.Channel = cfg.Slack.DigestChannel
		digestJob := jobs.NewUnlockDigestJob(unlockAudit, registry, slackClient, slogLogger, digestConfig)

		var schedule scheduler.Schedule
		if cron, err := scheduler.ParseCronExpression(cfg.Scheduler.DigestCron); err == nil {
			schedule = cron
		} else {
			slogLogger.Warn("invalid digest cron, falling back to interval",
				"cron", cfg.Scheduler.DigestCron, "interval", cfg.Scheduler.DigestInterval.String(), "error", err)
			schedule = scheduler.NewIntervalSchedule(cfg.Scheduler.DigestInterval)
		}

		if err := sched.Register(digestJob, schedule); err != nil {
			return fmt.Errorf("failed to register digest job: %w", err)
		}
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			slogLogger.Info("stopping scheduler...")
			_ = sched.Stop()
		}()
		slogLogger.Info("scheduler started", "digest_schedule", schedule.String())
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. Graceful shutdown
	// ─────────────────────────────────────────────────────────────────────────
	slogLogger.Info("BerryLearn Badge Hub worker is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		slogLogger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		slogLogger.Info("context cancelled")
	}

	slogLogger.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())
	slogLogger.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupSlog configures the structured logger used by the infrastructure.
func setupSlog(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" || cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}

// setupAppLogger configures the application-layer logger.
func setupAppLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}
