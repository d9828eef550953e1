package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/ulugbekk/beautybot/internal/model"
	"github.com/ulugbekk/beautybot/internal/timeutil"
)

// Callback data patterns: "<prefix>:<id>"
const (
	cbService  = "svc"      // svc:7 - клиент выбрал услугу
	cbConfirm  = "confirm"  // confirm:13 - админ подтверждает запись
	cbDelete   = "delete"   // delete:13 - админ удаляет запись
	cbCancelMy = "cancelmy" // cancelmy:13 - клиент отменяет свою запись
)

func callbackData(prefix string, id int64) string {
	return fmt.Sprintf("%s:%d", prefix, id)
}

// parseCallbackID извлекает ID из callback data вида "confirm:123"
func parseCallbackID(data string) (string, int64, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid callback data format: %q", data)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid callback id: %w", err)
	}
	return parts[0], id, nil
}

func statusLabel(status model.AppointmentStatus) string {
	switch status {
	case model.AppointmentStatusPending:
		return "Ожидание"
	case model.AppointmentStatusConfirmed:
		return "Подтверждено"
	case model.AppointmentStatusCancelled:
		return "Отменено"
	}
	return string(status)
}

// formatPrice печатает цену в основной валюте (хранится в тийинах)
func formatPrice(price int64) string {
	return fmt.Sprintf("%d сум", price/100)
}

func (h *Handlers) formatAppointment(a *model.Appointment) string {
	return fmt.Sprintf(
		"🆔 %d | 👤 %s | 💇 %s | 📅 %s | %s",
		a.ID,
		a.Name,
		a.ServiceLabel(),
		timeutil.FormatLocal(a.Date, h.loc),
		statusLabel(a.Status),
	)
}

func (h *Handlers) formatService(s *model.Service) string {
	return fmt.Sprintf("💇 %s — %d мин, %s", s.Name, s.DurationMin, formatPrice(s.Price))
}

func serviceKeyboard(services []*model.Service) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, svc := range services {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         fmt.Sprintf("%s (%d мин)", svc.Name, svc.DurationMin),
			CallbackData: callbackData(cbService, svc.ID),
		}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
