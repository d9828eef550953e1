package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ulugbekk/beautybot/internal/model"
)

type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// Register регистрирует или обновляет клиента при первом обращении
func (s *UserService) Register(ctx context.Context, telegramID int64, name string, phone *string) (*model.User, error) {
	name = strings.TrimSpace(name)

	user, err := s.users.Upsert(ctx, telegramID, name, phone)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	s.logger.Info("User registered",
		zap.Int64("telegram_id", telegramID),
		zap.String("name", user.Name),
	)

	return user, nil
}

// GetByTelegramID получает клиента по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.users.GetByTelegramID(ctx, telegramID)
}
