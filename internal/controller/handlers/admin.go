package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/ulugbekk/beautybot/internal/controller/state"
	"github.com/ulugbekk/beautybot/internal/model"
	"github.com/ulugbekk/beautybot/internal/timeutil"
)

// HandleAppointments показывает администратору все записи с кнопками управления
func (h *Handlers) HandleAppointments(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !h.requireAdmin(ctx, b, update) {
		return
	}

	appts, err := h.bookingService.ListAppointments(ctx)
	if err != nil {
		h.requestLogger().Error("Failed to list appointments", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	if len(appts) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "📅 Записей пока нет.",
		})
		return
	}

	// каждая запись отдельным сообщением, чтобы кнопки относились к ней
	for _, a := range appts {
		var rows [][]models.InlineKeyboardButton
		if a.Status == model.AppointmentStatusPending {
			rows = append(rows, []models.InlineKeyboardButton{{
				Text:         "✅ Подтвердить",
				CallbackData: callbackData(cbConfirm, a.ID),
			}})
		}
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         "🗑 Удалить",
			CallbackData: callbackData(cbDelete, a.ID),
		}})

		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      update.Message.Chat.ID,
			Text:        h.formatAppointment(a),
			ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: rows},
		})
	}
}

// HandleEdit начинает диалог переноса записи
func (h *Handlers) HandleEdit(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !h.requireAdmin(ctx, b, update) {
		return
	}

	h.stateManager.Set(update.Message.From.ID, state.UserData{State: state.StateEditID})

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "✏️ Введите ID записи для переноса:",
	})
}

// HandleDelete начинает диалог удаления записи
func (h *Handlers) HandleDelete(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || !h.requireAdmin(ctx, b, update) {
		return
	}

	h.stateManager.Set(update.Message.From.ID, state.UserData{State: state.StateDeleteID})

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "🗑 Введите ID записи для удаления:",
	})
}

// processEditID принимает ID записи и спрашивает новую дату
func (h *Handlers) processEditID(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	id, err := strconv.ParseInt(strings.TrimSpace(update.Message.Text), 10, 64)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Введите числовой ID записи.")
		return
	}

	appt, err := h.bookingService.GetAppointment(ctx, id)
	if err != nil {
		h.requestLogger().Error("Failed to get appointment", zap.Int64("appointment_id", id), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}
	if appt == nil {
		h.sendError(ctx, b, chatID, errorMessage(model.ErrAppointmentNotFound))
		return
	}

	h.stateManager.Set(userID, state.UserData{
		State:         state.StateEditDate,
		AppointmentID: id,
	})

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf(
			"%s\n\n📅 Введите новую дату в формате ДД.ММ.ГГГГ ЧЧ:ММ:",
			h.formatAppointment(appt),
		),
	})
}

// processEditDate переносит запись на введённую дату
func (h *Handlers) processEditDate(ctx context.Context, b *bot.Bot, update *models.Update, data state.UserData) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	newDate, err := timeutil.ParseLocal(update.Message.Text, h.loc)
	if err != nil {
		h.sendError(ctx, b, chatID, errorMessage(err))
		return
	}

	if err := h.bookingService.Reschedule(ctx, data.AppointmentID, newDate, userID, true); err != nil {
		h.requestLogger().Warn("Reschedule failed",
			zap.Int64("appointment_id", data.AppointmentID),
			zap.Error(err),
		)
		h.sendError(ctx, b, chatID, errorMessage(err))
		return
	}

	h.stateManager.Clear(userID)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf(
			"✅ Запись 🆔 %d перенесена на %s",
			data.AppointmentID, timeutil.FormatLocal(newDate, h.loc),
		),
	})
}

// processDeleteID удаляет запись по введённому ID
func (h *Handlers) processDeleteID(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	id, err := strconv.ParseInt(strings.TrimSpace(update.Message.Text), 10, 64)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Введите числовой ID записи.")
		return
	}

	if err := h.bookingService.Cancel(ctx, id, userID, true); err != nil {
		h.requestLogger().Warn("Cancel failed", zap.Int64("appointment_id", id), zap.Error(err))
		h.sendError(ctx, b, chatID, errorMessage(err))
		return
	}

	h.stateManager.Clear(userID)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ Запись 🆔 %d удалена.", id),
	})
}
