package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ulugbekk/beautybot/internal/model"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Upsert(ctx context.Context, telegramID int64, name string, phone *string) (*model.User, error) {
	args := m.Called(ctx, telegramID, name, phone)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserStore) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

type mockServiceStore struct{ mock.Mock }

func (m *mockServiceStore) GetByID(ctx context.Context, id int64) (*model.Service, error) {
	args := m.Called(ctx, id)
	svc, _ := args.Get(0).(*model.Service)
	return svc, args.Error(1)
}

func (m *mockServiceStore) GetByName(ctx context.Context, name string, partial bool) (*model.Service, error) {
	args := m.Called(ctx, name, partial)
	svc, _ := args.Get(0).(*model.Service)
	return svc, args.Error(1)
}

func (m *mockServiceStore) List(ctx context.Context) ([]*model.Service, error) {
	args := m.Called(ctx)
	services, _ := args.Get(0).([]*model.Service)
	return services, args.Error(1)
}

type mockAppointmentStore struct{ mock.Mock }

func (m *mockAppointmentStore) Add(ctx context.Context, userID, serviceID int64, date time.Time, name string) (int64, error) {
	args := m.Called(ctx, userID, serviceID, date, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAppointmentStore) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	args := m.Called(ctx, id)
	appt, _ := args.Get(0).(*model.Appointment)
	return appt, args.Error(1)
}

func (m *mockAppointmentStore) List(ctx context.Context) ([]*model.Appointment, error) {
	args := m.Called(ctx)
	appts, _ := args.Get(0).([]*model.Appointment)
	return appts, args.Error(1)
}

func (m *mockAppointmentStore) ListFutureByUser(ctx context.Context, userID int64, now time.Time) ([]*model.Appointment, error) {
	args := m.Called(ctx, userID, now)
	appts, _ := args.Get(0).([]*model.Appointment)
	return appts, args.Error(1)
}

func (m *mockAppointmentStore) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func (m *mockAppointmentStore) UpdateDate(ctx context.Context, id int64, date time.Time) (bool, error) {
	args := m.Called(ctx, id, date)
	return args.Bool(0), args.Error(1)
}

func (m *mockAppointmentStore) SetEventID(ctx context.Context, id int64, eventID string) (bool, error) {
	args := m.Called(ctx, id, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAppointmentStore) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockAppointmentStore) HasConflict(ctx context.Context, start time.Time, durationMin int, excludeID int64) (bool, error) {
	args := m.Called(ctx, start, durationMin, excludeID)
	return args.Bool(0), args.Error(1)
}

type mockSyncGateway struct{ mock.Mock }

func (m *mockSyncGateway) CreateEvent(ctx context.Context, name, service string, start time.Time, durationHours int) (string, error) {
	args := m.Called(ctx, name, service, start, durationHours)
	return args.String(0), args.Error(1)
}

func (m *mockSyncGateway) UpdateEvent(ctx context.Context, eventID, name, service string, start time.Time, durationHours int) error {
	args := m.Called(ctx, eventID, name, service, start, durationHours)
	return args.Error(0)
}

func (m *mockSyncGateway) DeleteEvent(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *mockSyncGateway) AddRow(ctx context.Context, name, service string, date time.Time) error {
	args := m.Called(ctx, name, service, date)
	return args.Error(0)
}

func (m *mockSyncGateway) UpdateRow(ctx context.Context, name, service string, oldDate, newDate time.Time) (bool, error) {
	args := m.Called(ctx, name, service, oldDate, newDate)
	return args.Bool(0), args.Error(1)
}

func (m *mockSyncGateway) DeleteRow(ctx context.Context, name, service string, date time.Time) (bool, error) {
	args := m.Called(ctx, name, service, date)
	return args.Bool(0), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Send(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}
