package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/ulugbekk/beautybot/internal/controller/state"
)

// HandleCallbackQuery разбирает нажатия inline-кнопок
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	prefix, id, err := parseCallbackID(callback.Data)
	if err != nil {
		h.requestLogger().Warn("Unknown callback data", zap.String("data", callback.Data), zap.Error(err))
		h.answerCallback(ctx, b, callback.ID, "Неизвестная команда", true)
		return
	}

	switch prefix {
	case cbService:
		h.callbackSelectService(ctx, b, callback, id)
	case cbConfirm:
		h.callbackConfirm(ctx, b, update, callback, id)
	case cbDelete:
		h.callbackDelete(ctx, b, update, callback, id)
	case cbCancelMy:
		h.callbackCancelMy(ctx, b, callback, id)
	default:
		h.answerCallback(ctx, b, callback.ID, "Неизвестная команда", true)
	}
}

// callbackSelectService фиксирует выбранную услугу и спрашивает дату
func (h *Handlers) callbackSelectService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, serviceID int64) {
	svc, err := h.bookingService.GetService(ctx, serviceID)
	if err != nil {
		h.requestLogger().Error("Failed to get service", zap.Int64("service_id", serviceID), zap.Error(err))
		h.answerCallback(ctx, b, callback.ID, "Произошла ошибка", true)
		return
	}
	if svc == nil {
		h.answerCallback(ctx, b, callback.ID, "Услуга не найдена", true)
		return
	}

	h.stateManager.Set(callback.From.ID, state.UserData{
		State:     state.StateBookDate,
		ServiceID: serviceID,
	})

	h.answerCallback(ctx, b, callback.ID, "", false)

	chatID := h.callbackChatID(callback)
	if chatID == 0 {
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf(
			"💇 %s (%d мин)\n\n📅 Введите дату в формате ДД.ММ.ГГГГ ЧЧ:ММ:",
			svc.Name, svc.DurationMin,
		),
	})
}

// callbackConfirm подтверждает запись от имени администратора
func (h *Handlers) callbackConfirm(ctx context.Context, b *bot.Bot, update *models.Update, callback *models.CallbackQuery, id int64) {
	if !h.isAdmin(update) {
		h.answerCallback(ctx, b, callback.ID, "У вас нет доступа", true)
		return
	}

	if err := h.bookingService.Confirm(ctx, id); err != nil {
		h.requestLogger().Warn("Confirm failed", zap.Int64("appointment_id", id), zap.Error(err))
		h.answerCallback(ctx, b, callback.ID, errorMessage(err), true)
		return
	}

	h.answerCallback(ctx, b, callback.ID, "Запись подтверждена", false)
	h.refreshAppointmentMessage(ctx, b, callback, id)
}

// callbackDelete удаляет запись от имени администратора
func (h *Handlers) callbackDelete(ctx context.Context, b *bot.Bot, update *models.Update, callback *models.CallbackQuery, id int64) {
	if !h.isAdmin(update) {
		h.answerCallback(ctx, b, callback.ID, "У вас нет доступа", true)
		return
	}

	if err := h.bookingService.Cancel(ctx, id, callback.From.ID, true); err != nil {
		h.requestLogger().Warn("Cancel failed", zap.Int64("appointment_id", id), zap.Error(err))
		h.answerCallback(ctx, b, callback.ID, errorMessage(err), true)
		return
	}

	h.answerCallback(ctx, b, callback.ID, "Запись удалена", false)

	chatID := h.callbackChatID(callback)
	if chatID != 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("✅ Запись 🆔 %d удалена.", id),
		})
	}
}

// callbackCancelMy отменяет собственную запись клиента
func (h *Handlers) callbackCancelMy(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, id int64) {
	if err := h.bookingService.Cancel(ctx, id, callback.From.ID, false); err != nil {
		h.requestLogger().Warn("Self-cancel failed",
			zap.Int64("appointment_id", id),
			zap.Int64("user_id", callback.From.ID),
			zap.Error(err),
		)
		h.answerCallback(ctx, b, callback.ID, errorMessage(err), true)
		return
	}

	h.answerCallback(ctx, b, callback.ID, "Запись отменена", false)
}

// refreshAppointmentMessage обновляет текст сообщения после смены статуса
func (h *Handlers) refreshAppointmentMessage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, id int64) {
	chatID := h.callbackChatID(callback)
	if chatID == 0 || callback.Message.Message == nil {
		return
	}

	appt, err := h.bookingService.GetAppointment(ctx, id)
	if err != nil || appt == nil {
		return
	}

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: callback.Message.Message.ID,
		Text:      h.formatAppointment(appt),
	})
}

func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string, showAlert bool) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       showAlert,
	})
	if err != nil {
		h.logger.Error("Failed to answer callback query", zap.Error(err))
	}
}

func (h *Handlers) callbackChatID(callback *models.CallbackQuery) int64 {
	if callback.Message.Message != nil {
		return callback.Message.Message.Chat.ID
	}
	return 0
}
