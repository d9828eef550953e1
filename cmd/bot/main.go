package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ulugbekk/beautybot/internal/app"
	"github.com/ulugbekk/beautybot/internal/config"
	"github.com/ulugbekk/beautybot/internal/controller"
	"github.com/ulugbekk/beautybot/internal/gcal"
	"github.com/ulugbekk/beautybot/internal/notifier"
	"github.com/ulugbekk/beautybot/internal/repository"
	"github.com/ulugbekk/beautybot/internal/scheduler"
	"github.com/ulugbekk/beautybot/internal/service"
	"github.com/ulugbekk/beautybot/internal/timeutil"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting beauty salon bot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Timezone),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := timeutil.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("Failed to load timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	// Подключаемся к базе
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	// Применяем миграции
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)

	// Внешние зеркала (календарь + таблица)
	gateway, err := gcal.NewGateway(ctx,
		cfg.GoogleCredentialsFile, cfg.CalendarID, cfg.SpreadsheetID, loc, logger)
	if err != nil {
		logger.Fatal("Failed to create google gateway", zap.Error(err))
	}

	// Telegram бот
	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	tgNotifier := notifier.NewTelegram(b)

	// Сервисы
	userService := service.NewUserService(userRepo, logger)
	bookingService := service.NewBookingService(
		userRepo, serviceRepo, appointmentRepo, gateway, tgNotifier, logger, loc)

	// Контроллер
	botController := controller.NewBotController(
		b, userService, bookingService, logger, cfg.AdminID, loc)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	// Фоновые напоминания
	reminders := scheduler.NewScheduler(appointmentRepo, tgNotifier, logger, loc)
	reminders.Start(ctx)
	defer reminders.Stop()

	logger.Info("Bot is running")

	if err := botController.Start(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}
