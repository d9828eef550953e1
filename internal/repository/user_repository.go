package repository

import (
	"context"
	"fmt"

	"github.com/ulugbekk/beautybot/internal/model"
	"github.com/ulugbekk/beautybot/internal/repository/base"
)

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(db base.DB) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(db)}
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	query := `
		SELECT id, telegram_id, name, phone, created_at
		FROM users
		WHERE telegram_id = $1
	`

	var user model.User
	err := r.DB().QueryRow(ctx, query, telegramID).Scan(
		&user.ID,
		&user.TelegramID,
		&user.Name,
		&user.Phone,
		&user.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by telegram id: %w", err)
	}

	return &user, nil
}

// Upsert создаёт пользователя или обновляет имя/телефон, если они изменились.
// Пустые значения не затирают сохранённые.
func (r *UserRepository) Upsert(ctx context.Context, telegramID int64, name string, phone *string) (*model.User, error) {
	user, err := r.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	if user != nil {
		changed := false
		if name != "" && user.Name != name {
			user.Name = name
			changed = true
		}
		if phone != nil && *phone != "" && (user.Phone == nil || *user.Phone != *phone) {
			user.Phone = phone
			changed = true
		}

		if changed {
			query := `UPDATE users SET name = $1, phone = $2 WHERE id = $3`
			if _, err := r.ExecAffected(ctx, query, user.Name, user.Phone, user.ID); err != nil {
				return nil, fmt.Errorf("update user: %w", err)
			}
		}

		return user, nil
	}

	if name == "" {
		name = fmt.Sprintf("user_%d", telegramID)
	}

	query := `
		INSERT INTO users (telegram_id, name, phone)
		VALUES ($1, $2, $3)
		RETURNING id, telegram_id, name, phone, created_at
	`

	var created model.User
	err = r.DB().QueryRow(ctx, query, telegramID, name, phone).Scan(
		&created.ID,
		&created.TelegramID,
		&created.Name,
		&created.Phone,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &created, nil
}
