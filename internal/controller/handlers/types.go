package handlers

import (
	"time"

	"go.uber.org/zap"

	"github.com/ulugbekk/beautybot/internal/controller/state"
	"github.com/ulugbekk/beautybot/internal/service"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService    *service.UserService
	bookingService *service.BookingService
	stateManager   *state.Manager
	logger         *zap.Logger
	adminID        int64
	loc            *time.Location
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	bookingService *service.BookingService,
	stateManager *state.Manager,
	logger *zap.Logger,
	adminID int64,
	loc *time.Location,
) *Handlers {
	return &Handlers{
		userService:    userService,
		bookingService: bookingService,
		stateManager:   stateManager,
		logger:         logger,
		adminID:        adminID,
		loc:            loc,
	}
}
