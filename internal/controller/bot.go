package controller

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/ulugbekk/beautybot/internal/controller/handlers"
	"github.com/ulugbekk/beautybot/internal/controller/state"
	"github.com/ulugbekk/beautybot/internal/service"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	bookingService *service.BookingService,
	logger *zap.Logger,
	adminID int64,
	loc *time.Location,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	// Создаём обработчики команд и callback-ов
	cmdHandlers := handlers.NewHandlers(
		userService,
		bookingService,
		stateManager,
		logger,
		adminID,
		loc,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Команды клиента
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/services", bot.MatchTypeExact, c.handlers.HandleServices)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypeExact, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/myappointments", bot.MatchTypeExact, c.handlers.HandleMyAppointments)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды администратора
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/appointments", bot.MatchTypeExact, c.handlers.HandleAppointments)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/edit", bot.MatchTypeExact, c.handlers.HandleEdit)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/delete", bot.MatchTypeExact, c.handlers.HandleDelete)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "services", Description: "📋 Список услуг"},
		{Command: "book", Description: "💇 Записаться"},
		{Command: "myappointments", Description: "📅 Мои записи"},
		{Command: "cancel", Description: "✖️ Прервать диалог"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
