package service

import (
	"context"
	"time"

	"github.com/ulugbekk/beautybot/internal/model"
)

// Интерфейсы объявлены на стороне потребителя, чтобы сервисы
// можно было тестировать без живой базы и внешних API.

type UserStore interface {
	Upsert(ctx context.Context, telegramID int64, name string, phone *string) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

type ServiceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Service, error)
	GetByName(ctx context.Context, name string, partial bool) (*model.Service, error)
	List(ctx context.Context) ([]*model.Service, error)
}

type AppointmentStore interface {
	Add(ctx context.Context, userID, serviceID int64, date time.Time, name string) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	List(ctx context.Context) ([]*model.Appointment, error)
	ListFutureByUser(ctx context.Context, userID int64, now time.Time) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) (bool, error)
	UpdateDate(ctx context.Context, id int64, date time.Time) (bool, error)
	SetEventID(ctx context.Context, id int64, eventID string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	HasConflict(ctx context.Context, start time.Time, durationMin int, excludeID int64) (bool, error)
}

// SyncGateway зеркалирует записи во внешний календарь и таблицу.
// Все вызовы best-effort: сбой зеркала никогда не откатывает БД.
type SyncGateway interface {
	CreateEvent(ctx context.Context, name, service string, start time.Time, durationHours int) (string, error)
	UpdateEvent(ctx context.Context, eventID, name, service string, start time.Time, durationHours int) error
	DeleteEvent(ctx context.Context, eventID string) error

	AddRow(ctx context.Context, name, service string, date time.Time) error
	UpdateRow(ctx context.Context, name, service string, oldDate, newDate time.Time) (bool, error)
	DeleteRow(ctx context.Context, name, service string, date time.Time) (bool, error)
}

type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}
