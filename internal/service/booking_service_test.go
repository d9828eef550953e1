package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ulugbekk/beautybot/internal/model"
)

type bookingFixture struct {
	users    *mockUserStore
	services *mockServiceStore
	appts    *mockAppointmentStore
	gateway  *mockSyncGateway
	notifier *mockNotifier
	svc      *BookingService
	now      time.Time
	loc      *time.Location
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Tashkent")
	require.NoError(t, err)

	f := &bookingFixture{
		users:    &mockUserStore{},
		services: &mockServiceStore{},
		appts:    &mockAppointmentStore{},
		gateway:  &mockSyncGateway{},
		notifier: &mockNotifier{},
		now:      time.Date(2026, 4, 10, 12, 0, 0, 0, loc),
		loc:      loc,
	}

	f.svc = NewBookingService(f.users, f.services, f.appts, f.gateway, f.notifier, zap.NewNop(), loc)
	f.svc.now = func() time.Time { return f.now }

	return f
}

func (f *bookingFixture) assertAll(t *testing.T) {
	t.Helper()
	f.users.AssertExpectations(t)
	f.services.AssertExpectations(t)
	f.appts.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func haircut() *model.Service {
	return &model.Service{ID: 7, Name: "Стрижка", DurationMin: 45, Price: 150000}
}

func pendingAppointment(f *bookingFixture) *model.Appointment {
	svcID := int64(7)
	dur := 45
	return &model.Appointment{
		ID:          13,
		UserID:      100,
		Name:        "Анна",
		ServiceID:   &svcID,
		DurationMin: &dur,
		Date:        f.now.Add(48 * time.Hour),
		Status:      model.AppointmentStatusPending,
		ServiceName: "Стрижка",
	}
}

func TestCreate_PastDate(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.Create(context.Background(), 100, "Анна", nil, 7, f.now.Add(-time.Minute))
	assert.ErrorIs(t, err, model.ErrValidation)

	// то же самое для текущего момента: дата должна быть строго в будущем
	_, err = f.svc.Create(context.Background(), 100, "Анна", nil, 7, f.now)
	assert.ErrorIs(t, err, model.ErrValidation)

	f.appts.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_EmptyName(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.Create(context.Background(), 100, "   ", nil, 7, f.now.Add(time.Hour))
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCreate_UnknownService(t *testing.T) {
	f := newBookingFixture(t)

	f.services.On("GetByID", mock.Anything, int64(7)).Return(nil, nil)

	_, err := f.svc.Create(context.Background(), 100, "Анна", nil, 7, f.now.Add(time.Hour))
	assert.ErrorIs(t, err, model.ErrServiceNotFound)
	f.assertAll(t)
}

func TestCreate_Conflict(t *testing.T) {
	f := newBookingFixture(t)
	date := f.now.Add(time.Hour)

	f.services.On("GetByID", mock.Anything, int64(7)).Return(haircut(), nil)
	f.appts.On("HasConflict", mock.Anything, date, 45, int64(0)).Return(true, nil)

	_, err := f.svc.Create(context.Background(), 100, "Анна", nil, 7, date)
	assert.ErrorIs(t, err, model.ErrSlotConflict)

	f.appts.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertAll(t)
}

func TestCreate_Success(t *testing.T) {
	f := newBookingFixture(t)
	date := f.now.Add(time.Minute) // "сейчас + 1 минута" достаточно

	f.services.On("GetByID", mock.Anything, int64(7)).Return(haircut(), nil)
	f.appts.On("HasConflict", mock.Anything, date, 45, int64(0)).Return(false, nil)
	f.users.On("Upsert", mock.Anything, int64(100), "Анна", (*string)(nil)).Return(&model.User{ID: 1, TelegramID: 100, Name: "Анна"}, nil)
	f.appts.On("Add", mock.Anything, int64(100), int64(7), date, "Анна").Return(int64(13), nil)

	id, err := f.svc.Create(context.Background(), 100, " Анна ", nil, 7, date)
	require.NoError(t, err)
	assert.Equal(t, int64(13), id)

	// зеркала и уведомления на создании не трогаются
	f.gateway.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.gateway.AssertNotCalled(t, "AddRow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	f.assertAll(t)
}

func TestConfirm_NotFound(t *testing.T) {
	f := newBookingFixture(t)

	f.appts.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

	err := f.svc.Confirm(context.Background(), 99)
	assert.ErrorIs(t, err, model.ErrAppointmentNotFound)
}

func TestConfirm_CreatesMirrorOnce(t *testing.T) {
	f := newBookingFixture(t)
	appt := pendingAppointment(f)

	f.appts.On("GetByID", mock.Anything, int64(13)).Return(appt, nil)
	f.services.On("GetByID", mock.Anything, int64(7)).Return(haircut(), nil)
	f.appts.On("UpdateStatus", mock.Anything, int64(13), model.AppointmentStatusConfirmed).Return(true, nil)
	f.gateway.On("CreateEvent", mock.Anything, "Анна", "Стрижка", appt.Date, 1).Return("evt-1", nil)
	f.appts.On("SetEventID", mock.Anything, int64(13), "evt-1").Return(true, nil)
	f.gateway.On("AddRow", mock.Anything, "Анна", "Стрижка", appt.Date).Return(nil)
	f.notifier.On("Send", mock.Anything, int64(100), mock.Anything).Return(nil)

	require.NoError(t, f.svc.Confirm(context.Background(), 13))
	f.assertAll(t)
}

func TestConfirm_Idempotent(t *testing.T) {
	f := newBookingFixture(t)
	appt := pendingAppointment(f)
	appt.Status = model.AppointmentStatusConfirmed
	eventID := "evt-1"
	appt.EventID = &eventID

	f.appts.On("GetByID", mock.Anything, int64(13)).Return(appt, nil)
	f.services.On("GetByID", mock.Anything, int64(7)).Return(haircut(), nil)
	f.notifier.On("Send", mock.Anything, int64(100), mock.Anything).Return(nil)

	require.NoError(t, f.svc.Confirm(context.Background(), 13))

	// повторное подтверждение не создаёт второе событие и не меняет статус
	f.appts.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	f.gateway.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.appts.AssertNotCalled(t, "SetEventID", mock.Anything, mock.Anything, mock.Anything)
	f.assertAll(t)
}

func TestConfirm_Cancelled(t *testing.T) {
	f := newBookingFixture(t)
	appt := pendingAppointment(f)
	appt.Status = model.AppointmentStatusCancelled

	f.appts.On("GetByID", mock.Anything, int64(13)).Return(appt, nil)

	err := f.svc.Confirm(context.Background(), 13)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestConfirm_CalendarFailureIsNonFatal(t *testing.T) {
	f := newBookingFixture(t)
	appt := pendingAppointment(f)

	f.appts.On("GetByID", mock.Anything, int64(13)).Return(appt, nil)
	f.services.On("GetByID", mock.Anything, int64(7)).Return(haircut(), nil)
	f.appts.On("UpdateStatus", mock.Anything, int64(13), model.AppointmentStatusConfirmed).Return(true, nil)
	f.gateway.On("CreateEvent", mock.Anything, "Анна", "Стрижка", appt.Date, 1).Return("", errors.New("network down"))
	f.gateway.On("AddRow", mock.Anything, "Анна", "Стрижка", appt.Date).Return(nil)
	f.notifier.On("Send", mock.Anything, int64(100), mock.Anything).Return(nil)

	// сбой календаря не валит подтверждение, event_id не сохраняется
	require.NoError(t, f.svc.Confirm(context.Background(), 13))
	f.appts.AssertNotCalled(t, "SetEventID", mock.Anything, mock.Anything, mock.Anything)
	f.assertAll(t)
}

func TestReschedule_Conflict(t *testing.T) {
	f := newBookingFixture(t)
	appt := pendingAppointment(f)
	newDate := f.now.Add(72 * time.Hour)

	f.appts.On("GetByID", mock.Anything, int64(13)).Return(appt, nil)
	f.services.On("GetByID", mock.Anything, int64(7)).Return(haircut(), nil)
	f.appts.On("HasConflict", mock.Anything, newDate, 45, int64(13)).Return(true, nil)

	err := f.svc.Reschedule(context.Background(), 13, newDate, 1, true)
	assert.ErrorIs(t, err, model.ErrSlotConflict)

	// при конфликте дата в БД не меняется
	f.appts.AssertNotCalled(t, "UpdateDate", mock.Anything, mock.Anything, mock.Anything)
	f.assertAll(t)
}

func TestReschedule_Success(t *testing.T) {
	f := newBookingFixture(t)
	appt := pendingAppointment(f)
	eventID := "evt-1"
	appt.EventID = &eventID
	oldDate := appt.Date
	newDate := f.now.Add(72 * time.Hour)

	f.appts.On("GetByID", mock.Anything, int64(13)).Return(appt, nil)
	f.services.On("GetByID", mock.Anything, int64(7)).Return(haircut(), nil)
	f.appts.On("HasConflict", mock.Anything, newDate, 45, int64(13)).Return(false, nil)
	f.appts.On("UpdateDate", mock.Anything, int64(13), newDate).Return(true, nil)
	f.gateway.On("UpdateEvent", mock.Anything, "evt-1", "Анна", "Стрижка", newDate, 1).Return(nil)
	// строка в таблице ищется по СТАРОЙ дате
	f.gateway.On("UpdateRow", mock.Anything, "Анна", "Стрижка", oldDate, newDate).Return(true, nil)

	require.NoError(t, f.svc.Reschedule(context.Background(), 13, newDate, 1, true))
	f.assertAll(t)
}

func TestReschedule_SheetFailureIsNonFatal(t *testing.T) {
	f := newBookingFixture(t)
	appt := pendingAppointment(f)
	newDate := f.now.Add(72 * time.Hour)

	f.appts.On("GetByID", mock.Anything, int64(13)).Return(appt, nil)
	f.services.On("GetByID", mock.Anything, int64(7)).Return(haircut(), nil)
	f.appts.On("HasConflict", mock.Anything, newDate, 45, int64(13)).Return(false, nil)
	f.appts.On("UpdateDate", mock.Anything, int64(13), newDate).Return(true, nil)
	f.gateway.On("UpdateRow", mock.Anything, "Анна", "Стрижка", appt.Date, newDate).Return(false, errors.New("quota exceeded"))

	// БД уже обновлена - ошибка зеркала не возвращается наверх
	require.NoError(t, f.svc.Reschedule(context.Background(), 13, newDate, 1, true))
	f.assertAll(t)
}

func TestReschedule_ForbiddenForOtherClient(t *testing.T) {
	f := newBookingFixture(t)
	appt := pendingAppointment(f) // принадлежит клиенту 100

	f.appts.On("GetByID", mock.Anything, int64(13)).Return(appt, nil)

	err := f.svc.Reschedule(context.Background(), 13, f.now.Add(time.Hour), 200, false)
	assert.ErrorIs(t, err, model.ErrForbidden)

	f.appts.AssertNotCalled(t, "UpdateDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_WithoutEventRef(t *testing.T) {
	f := newBookingFixture(t)
	appt := pendingAppointment(f) // event_id отсутствует

	f.appts.On("GetByID", mock.Anything, int64(13)).Return(appt, nil)
	f.services.On("GetByID", mock.Anything, int64(7)).Return(haircut(), nil)
	f.gateway.On("DeleteRow", mock.Anything, "Анна", "Стрижка", appt.Date).Return(true, nil)
	f.appts.On("Delete", mock.Anything, int64(13)).Return(true, nil)
	f.notifier.On("Send", mock.Anything, int64(100), "❌ Ваша запись отменена.").Return(nil)

	require.NoError(t, f.svc.Cancel(context.Background(), 13, 1, true))

	// без event_id календарь не трогается, но строка таблицы удаляется
	f.gateway.AssertNotCalled(t, "DeleteEvent", mock.Anything, mock.Anything)
	f.assertAll(t)
}

func TestCancel_DeletesMirrorsFirst(t *testing.T) {
	f := newBookingFixture(t)
	appt := pendingAppointment(f)
	eventID := "evt-1"
	appt.EventID = &eventID

	f.appts.On("GetByID", mock.Anything, int64(13)).Return(appt, nil)
	f.services.On("GetByID", mock.Anything, int64(7)).Return(haircut(), nil)
	f.gateway.On("DeleteEvent", mock.Anything, "evt-1").Return(nil)
	f.gateway.On("DeleteRow", mock.Anything, "Анна", "Стрижка", appt.Date).Return(true, nil)
	f.appts.On("Delete", mock.Anything, int64(13)).Return(true, nil)
	f.notifier.On("Send", mock.Anything, int64(100), mock.Anything).Return(nil)

	require.NoError(t, f.svc.Cancel(context.Background(), 13, 100, false))
	f.assertAll(t)
}

func TestCancel_ForbiddenForOtherClient(t *testing.T) {
	f := newBookingFixture(t)
	appt := pendingAppointment(f)

	f.appts.On("GetByID", mock.Anything, int64(13)).Return(appt, nil)

	err := f.svc.Cancel(context.Background(), 13, 200, false)
	assert.ErrorIs(t, err, model.ErrForbidden)

	f.appts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCancel_NotificationFailureIsNonFatal(t *testing.T) {
	f := newBookingFixture(t)
	appt := pendingAppointment(f)

	f.appts.On("GetByID", mock.Anything, int64(13)).Return(appt, nil)
	f.services.On("GetByID", mock.Anything, int64(7)).Return(haircut(), nil)
	f.gateway.On("DeleteRow", mock.Anything, "Анна", "Стрижка", appt.Date).Return(true, nil)
	f.appts.On("Delete", mock.Anything, int64(13)).Return(true, nil)
	f.notifier.On("Send", mock.Anything, int64(100), mock.Anything).Return(errors.New("blocked by user"))

	require.NoError(t, f.svc.Cancel(context.Background(), 13, 1, true))
	f.assertAll(t)
}

func TestFindServiceByName_ExactBeforePartial(t *testing.T) {
	f := newBookingFixture(t)
	f.services.On("GetByName", mock.Anything, "Стрижка", false).Return(haircut(), nil)

	svc, err := f.svc.FindServiceByName(context.Background(), "  Стрижка  ")

	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, int64(7), svc.ID)
	f.services.AssertNotCalled(t, "GetByName", mock.Anything, "Стрижка", true)
}

func TestFindServiceByName_FallsBackToPartial(t *testing.T) {
	f := newBookingFixture(t)
	f.services.On("GetByName", mock.Anything, "стриж", false).Return(nil, nil)
	f.services.On("GetByName", mock.Anything, "стриж", true).Return(haircut(), nil)

	svc, err := f.svc.FindServiceByName(context.Background(), "стриж")

	require.NoError(t, err)
	require.NotNil(t, svc)
	f.assertAll(t)
}

func TestFindServiceByName_EmptyInput(t *testing.T) {
	f := newBookingFixture(t)

	svc, err := f.svc.FindServiceByName(context.Background(), "   ")

	require.NoError(t, err)
	assert.Nil(t, svc)
	f.services.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything, mock.Anything)
}
