package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/ulugbekk/beautybot/internal/controller/state"
	"github.com/ulugbekk/beautybot/internal/timeutil"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	from := update.Message.From
	name := strings.TrimSpace(from.FirstName + " " + from.LastName)

	user, err := h.userService.Register(ctx, from.ID, name, nil)
	if err != nil {
		h.requestLogger().Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот записи в салон красоты.\n\n"+
			"Доступные команды:\n"+
			"/services - Список услуг\n"+
			"/book - Записаться\n"+
			"/myappointments - Мои записи\n"+
			"/help - Справка",
		user.Name,
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   welcomeText,
	})
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"/services - Список услуг салона\n" +
		"/book - Записаться на услугу\n" +
		"/myappointments - Мои записи\n" +
		"/cancel - Прервать текущий диалог\n\n" +
		"Дату указывайте в формате ДД.ММ.ГГГГ ЧЧ:ММ"

	if h.isAdmin(update) {
		helpText += "\n\nДля администратора:\n" +
			"/appointments - Все записи\n" +
			"/edit - Перенести запись\n" +
			"/delete - Удалить запись"
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   helpText,
	})
}

// HandleServices показывает каталог услуг
func (h *Handlers) HandleServices(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	services, err := h.bookingService.ListServices(ctx)
	if err != nil {
		h.requestLogger().Error("Failed to list services", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	if len(services) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "📋 Каталог услуг пока пуст.",
		})
		return
	}

	var lines []string
	for _, svc := range services {
		lines = append(lines, h.formatService(svc))
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "📋 Наши услуги:\n" + strings.Join(lines, "\n"),
	})
}

// HandleBook начинает диалог записи: клиент выбирает услугу кнопкой
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	services, err := h.bookingService.ListServices(ctx)
	if err != nil {
		h.requestLogger().Error("Failed to list services", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	if len(services) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "📋 Каталог услуг пока пуст, запись недоступна.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "💇 Выберите услугу:",
		ReplyMarkup: serviceKeyboard(services),
	})
}

// HandleMyAppointments показывает будущие записи клиента
func (h *Handlers) HandleMyAppointments(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	userID := update.Message.From.ID

	appts, err := h.bookingService.ListUserAppointments(ctx, userID)
	if err != nil {
		h.requestLogger().Error("Failed to list user appointments", zap.Int64("user_id", userID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	if len(appts) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "📅 У вас нет предстоящих записей.",
		})
		return
	}

	var rows [][]models.InlineKeyboardButton
	var lines []string
	for _, a := range appts {
		lines = append(lines, fmt.Sprintf(
			"💇 %s | 📅 %s | %s",
			a.ServiceLabel(), timeutil.FormatLocal(a.Date, h.loc), statusLabel(a.Status),
		))
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         fmt.Sprintf("❌ Отменить %s", timeutil.FormatLocal(a.Date, h.loc)),
			CallbackData: callbackData(cbCancelMy, a.ID),
		}})
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "📅 Ваши записи:\n" + strings.Join(lines, "\n"),
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: rows},
	})
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.stateManager.Clear(update.Message.From.ID)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "Диалог прерван. /book - записаться заново.",
	})
}

// HandleTextMessage обрабатывает свободный текст по текущему состоянию диалога
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	// команды сюда не попадают, они разобраны отдельными обработчиками
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	userID := update.Message.From.ID
	data := h.stateManager.Get(userID)

	switch data.State {
	case state.StateBookDate:
		h.processBookDate(ctx, b, update, data)
	case state.StateBookPhone:
		h.processBookPhone(ctx, b, update, data)
	case state.StateEditID:
		h.processEditID(ctx, b, update)
	case state.StateEditDate:
		h.processEditDate(ctx, b, update, data)
	case state.StateDeleteID:
		h.processDeleteID(ctx, b, update)
	default:
		// вне диалога текст пробуем как название услуги: так можно
		// начать запись, не открывая меню /book
		h.tryStartBookingByName(ctx, b, update)
	}
}

// tryStartBookingByName начинает диалог записи, если текст похож на услугу
func (h *Handlers) tryStartBookingByName(ctx context.Context, b *bot.Bot, update *models.Update) {
	svc, err := h.bookingService.FindServiceByName(ctx, update.Message.Text)
	if err != nil {
		h.requestLogger().Error("Failed to find service by name", zap.Error(err))
		return
	}
	if svc == nil {
		return
	}

	h.stateManager.Set(update.Message.From.ID, state.UserData{
		State:     state.StateBookDate,
		ServiceID: svc.ID,
	})

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: fmt.Sprintf(
			"💇 %s (%d мин)\n\n📅 Введите дату в формате ДД.ММ.ГГГГ ЧЧ:ММ:",
			svc.Name, svc.DurationMin,
		),
	})
}

// processBookDate разбирает дату и спрашивает телефон
func (h *Handlers) processBookDate(ctx context.Context, b *bot.Bot, update *models.Update, data state.UserData) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	date, err := timeutil.ParseLocal(update.Message.Text, h.loc)
	if err != nil {
		h.sendError(ctx, b, chatID, errorMessage(err))
		return
	}

	data.State = state.StateBookPhone
	data.Date = date
	h.stateManager.Set(userID, data)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "📞 Укажите телефон для связи (или отправьте «-», чтобы пропустить):",
	})
}

// processBookPhone завершает диалог записи
func (h *Handlers) processBookPhone(ctx context.Context, b *bot.Bot, update *models.Update, data state.UserData) {
	from := update.Message.From
	chatID := update.Message.Chat.ID
	log := h.requestLogger()

	var phone *string
	raw := strings.TrimSpace(update.Message.Text)
	if raw != "" && raw != "-" {
		phone = &raw
	}

	name := strings.TrimSpace(from.FirstName + " " + from.LastName)

	id, err := h.bookingService.Create(ctx, from.ID, name, phone, data.ServiceID, data.Date)
	if err != nil {
		log.Warn("Booking failed",
			zap.Int64("user_id", from.ID),
			zap.Int64("service_id", data.ServiceID),
			zap.Error(err),
		)
		h.sendError(ctx, b, chatID, errorMessage(err))
		// при конфликте слота даём ввести другую дату, не начиная диалог заново
		data.State = state.StateBookDate
		h.stateManager.Set(from.ID, data)
		return
	}

	h.stateManager.Clear(from.ID)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf(
			"✅ Заявка создана!\n📅 %s\n\nОжидайте подтверждения администратора.",
			timeutil.FormatLocal(data.Date, h.loc),
		),
	})

	// ядро при создании молчит: администратора уведомляет чат-слой
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: h.adminID,
		Text: fmt.Sprintf(
			"🆕 Новая заявка 🆔 %d\n👤 %s\n📅 %s\n\nПодтвердить: /appointments",
			id, name, timeutil.FormatLocal(data.Date, h.loc),
		),
	})
}
