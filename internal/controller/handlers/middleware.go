package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ulugbekk/beautybot/internal/model"
)

// requestLogger возвращает логгер с идентификатором обновления,
// чтобы связать все строки лога одного запроса
func (h *Handlers) requestLogger() *zap.Logger {
	return h.logger.With(zap.String("request_id", uuid.NewString()))
}

// isAdmin проверяет что сообщение пришло от администратора салона
func (h *Handlers) isAdmin(update *models.Update) bool {
	if update.Message != nil && update.Message.From != nil {
		return update.Message.From.ID == h.adminID
	}
	if update.CallbackQuery != nil {
		return update.CallbackQuery.From.ID == h.adminID
	}
	return false
}

// requireAdmin отклоняет команду не от администратора
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if h.isAdmin(update) {
		return true
	}
	if update.Message != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "⛔ У вас нет доступа!")
	}
	return false
}

func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// errorMessage переводит ошибку ядра в понятное пользователю сообщение.
// Каждый вид ошибки получает свой текст; сбои внешних зеркал сюда
// не попадают - они не поднимаются из сервиса.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrSlotConflict):
		return "❌ Этот слот уже занят. Выберите другое время."
	case errors.Is(err, model.ErrServiceNotFound):
		return "❌ Услуга не найдена."
	case errors.Is(err, model.ErrAppointmentNotFound):
		return "❌ Запись не найдена."
	case errors.Is(err, model.ErrForbidden):
		return "⛔ Это не ваша запись."
	case errors.Is(err, model.ErrValidation):
		return "❌ " + validationText(err)
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}

// validationText достаёт человекочитаемую часть ошибки валидации
func validationText(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, model.ErrValidation.Error()+": "); idx >= 0 {
		return msg[idx+len(model.ErrValidation.Error())+2:]
	}
	return "Проверьте введённые данные."
}
