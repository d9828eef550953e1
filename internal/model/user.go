package model

import "time"

type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Name       string    `json:"name"`
	Phone      *string   `json:"phone"` // указатель - телефон может отсутствовать
	CreatedAt  time.Time `json:"created_at"`
}
