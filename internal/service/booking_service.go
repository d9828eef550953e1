package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ulugbekk/beautybot/internal/model"
	"github.com/ulugbekk/beautybot/internal/timeutil"
)

type BookingService struct {
	users    UserStore
	services ServiceStore
	appts    AppointmentStore
	gateway  SyncGateway
	notifier Notifier
	logger   *zap.Logger
	loc      *time.Location

	// now подменяется в тестах
	now func() time.Time
}

func NewBookingService(
	users UserStore,
	services ServiceStore,
	appts AppointmentStore,
	gateway SyncGateway,
	notifier Notifier,
	logger *zap.Logger,
	loc *time.Location,
) *BookingService {
	return &BookingService{
		users:    users,
		services: services,
		appts:    appts,
		gateway:  gateway,
		notifier: notifier,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
	}
}

// Create создаёт запись со статусом pending. Внешние зеркала на этом
// этапе не трогаются: запись становится видна снаружи только после
// подтверждения администратором.
func (s *BookingService) Create(ctx context.Context, userID int64, name string, phone *string, serviceID int64, date time.Time) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, model.Validationf("укажите имя")
	}
	if err := s.validateDate(date); err != nil {
		return 0, err
	}

	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return 0, fmt.Errorf("get service: %w", err)
	}
	if svc == nil {
		return 0, model.ErrServiceNotFound
	}

	conflict, err := s.appts.HasConflict(ctx, date, svc.DurationMin, 0)
	if err != nil {
		return 0, fmt.Errorf("check conflict: %w", err)
	}
	if conflict {
		return 0, model.ErrSlotConflict
	}

	if _, err := s.users.Upsert(ctx, userID, name, phone); err != nil {
		return 0, fmt.Errorf("upsert user: %w", err)
	}

	id, err := s.appts.Add(ctx, userID, serviceID, date, name)
	if err != nil {
		return 0, fmt.Errorf("add appointment: %w", err)
	}

	s.logger.Info("Appointment created",
		zap.Int64("appointment_id", id),
		zap.Int64("user_id", userID),
		zap.Int64("service_id", serviceID),
		zap.Time("date", date),
	)

	return id, nil
}

// Confirm подтверждает запись. Повторное подтверждение безопасно:
// статус не меняется, событие в календаре создаётся не более одного раза.
func (s *BookingService) Confirm(ctx context.Context, id int64) error {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get appointment: %w", err)
	}
	if appt == nil {
		return model.ErrAppointmentNotFound
	}
	if appt.Status == model.AppointmentStatusCancelled {
		return model.Validationf("запись уже отменена")
	}

	if appt.Status != model.AppointmentStatusConfirmed {
		ok, err := s.appts.UpdateStatus(ctx, id, model.AppointmentStatusConfirmed)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if !ok {
			return model.ErrAppointmentNotFound
		}
	}

	serviceName, durationMin := s.resolveService(ctx, appt)

	if appt.EventID == nil {
		hours := timeutil.HoursFromMinutes(durationMin)
		ref, err := s.gateway.CreateEvent(ctx, clientName(appt), serviceName, appt.Date, hours)
		if err != nil || ref == "" {
			s.logSyncFailure(id, &model.SyncError{Target: "calendar", Op: "create", Err: err})
		} else {
			// запись могла получить event_id в конкурентном подтверждении,
			// тогда SetEventID вернёт false и новый ref просто не сохранится
			if _, err := s.appts.SetEventID(ctx, id, ref); err != nil {
				s.logger.Error("Failed to store event id", zap.Int64("appointment_id", id), zap.Error(err))
			}
		}

		if err := s.gateway.AddRow(ctx, clientName(appt), serviceName, appt.Date); err != nil {
			s.logSyncFailure(id, &model.SyncError{Target: "sheet", Op: "create", Err: err})
		}
	}

	s.notify(ctx, appt.UserID, fmt.Sprintf(
		"✅ Ваша запись подтверждена!\n💇 %s\n📅 %s",
		serviceName, timeutil.FormatLocal(appt.Date, s.loc),
	))

	s.logger.Info("Appointment confirmed", zap.Int64("appointment_id", id))

	return nil
}

// Reschedule переносит запись на новое время. Администратор может
// переносить любые записи, клиент - только свои.
func (s *BookingService) Reschedule(ctx context.Context, id int64, newDate time.Time, actorID int64, isAdmin bool) error {
	if err := s.validateDate(newDate); err != nil {
		return err
	}

	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get appointment: %w", err)
	}
	if appt == nil {
		return model.ErrAppointmentNotFound
	}
	if !isAdmin && appt.UserID != actorID {
		return model.ErrForbidden
	}

	serviceName, durationMin := s.resolveService(ctx, appt)

	conflict, err := s.appts.HasConflict(ctx, newDate, durationMin, id)
	if err != nil {
		return fmt.Errorf("check conflict: %w", err)
	}
	if conflict {
		return model.ErrSlotConflict
	}

	oldDate := appt.Date

	ok, err := s.appts.UpdateDate(ctx, id, newDate)
	if err != nil {
		return fmt.Errorf("update date: %w", err)
	}
	if !ok {
		return model.ErrAppointmentNotFound
	}

	// дальше только зеркала: БД уже обновлена и остаётся источником истины
	if appt.EventID != nil {
		hours := timeutil.HoursFromMinutes(durationMin)
		if err := s.gateway.UpdateEvent(ctx, *appt.EventID, clientName(appt), serviceName, newDate, hours); err != nil {
			s.logSyncFailure(id, &model.SyncError{Target: "calendar", Op: "update", Err: err})
		}
	}

	updated, err := s.gateway.UpdateRow(ctx, clientName(appt), serviceName, oldDate, newDate)
	if err != nil {
		s.logSyncFailure(id, &model.SyncError{Target: "sheet", Op: "update", Err: err})
	} else if !updated {
		s.logger.Warn("Sheet row not found for reschedule", zap.Int64("appointment_id", id))
	}

	s.logger.Info("Appointment rescheduled",
		zap.Int64("appointment_id", id),
		zap.Time("old_date", oldDate),
		zap.Time("new_date", newDate),
	)

	return nil
}

// Cancel отменяет запись: сначала чистит внешние зеркала, затем
// удаляет строку из БД и уведомляет клиента.
func (s *BookingService) Cancel(ctx context.Context, id int64, actorID int64, isAdmin bool) error {
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get appointment: %w", err)
	}
	if appt == nil {
		return model.ErrAppointmentNotFound
	}
	if !isAdmin && appt.UserID != actorID {
		return model.ErrForbidden
	}

	serviceName, _ := s.resolveService(ctx, appt)

	if appt.EventID != nil {
		if err := s.gateway.DeleteEvent(ctx, *appt.EventID); err != nil {
			s.logSyncFailure(id, &model.SyncError{Target: "calendar", Op: "delete", Err: err})
		}
	}

	deleted, err := s.gateway.DeleteRow(ctx, clientName(appt), serviceName, appt.Date)
	if err != nil {
		s.logSyncFailure(id, &model.SyncError{Target: "sheet", Op: "delete", Err: err})
	} else if !deleted {
		s.logger.Warn("Sheet row not found for delete", zap.Int64("appointment_id", id))
	}

	ok, err := s.appts.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if !ok {
		return model.ErrAppointmentNotFound
	}

	s.notify(ctx, appt.UserID, "❌ Ваша запись отменена.")

	s.logger.Info("Appointment cancelled",
		zap.Int64("appointment_id", id),
		zap.Int64("actor_id", actorID),
		zap.Bool("by_admin", isAdmin),
	)

	return nil
}

// GetAppointment получает запись по ID
func (s *BookingService) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

// ListAppointments получает все записи по возрастанию даты
func (s *BookingService) ListAppointments(ctx context.Context) ([]*model.Appointment, error) {
	return s.appts.List(ctx)
}

// ListUserAppointments получает будущие записи клиента
func (s *BookingService) ListUserAppointments(ctx context.Context, userID int64) ([]*model.Appointment, error) {
	return s.appts.ListFutureByUser(ctx, userID, s.now())
}

// ListServices получает каталог услуг
func (s *BookingService) ListServices(ctx context.Context) ([]*model.Service, error) {
	return s.services.List(ctx)
}

// GetService получает услугу по ID
func (s *BookingService) GetService(ctx context.Context, id int64) (*model.Service, error) {
	return s.services.GetByID(ctx, id)
}

// FindServiceByName ищет услугу по названию без учёта регистра,
// сначала точное совпадение, затем по подстроке
func (s *BookingService) FindServiceByName(ctx context.Context, name string) (*model.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	svc, err := s.services.GetByName(ctx, name, false)
	if err != nil {
		return nil, fmt.Errorf("find service by name: %w", err)
	}
	if svc != nil {
		return svc, nil
	}

	svc, err = s.services.GetByName(ctx, name, true)
	if err != nil {
		return nil, fmt.Errorf("find service by name: %w", err)
	}
	return svc, nil
}

func (s *BookingService) validateDate(date time.Time) error {
	if date.IsZero() {
		return model.Validationf("не указана дата")
	}
	if !date.After(s.now()) {
		return model.Validationf("нельзя бронировать прошедшее время")
	}
	return nil
}

// resolveService возвращает название и длительность услуги записи.
// Если услуга удалена из каталога, работает по снапшоту.
func (s *BookingService) resolveService(ctx context.Context, appt *model.Appointment) (string, int) {
	name := appt.ServiceLabel()
	durationMin := 60
	if appt.DurationMin != nil && *appt.DurationMin > 0 {
		durationMin = *appt.DurationMin
	}

	if appt.ServiceID != nil {
		svc, err := s.services.GetByID(ctx, *appt.ServiceID)
		if err != nil {
			s.logger.Warn("Failed to resolve service", zap.Int64("appointment_id", appt.ID), zap.Error(err))
		} else if svc != nil {
			name = svc.Name
			if svc.DurationMin > 0 {
				durationMin = svc.DurationMin
			}
		}
	}

	return name, durationMin
}

func (s *BookingService) notify(ctx context.Context, chatID int64, text string) {
	if err := s.notifier.Send(ctx, chatID, text); err != nil {
		s.logger.Warn("Failed to notify user", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (s *BookingService) logSyncFailure(apptID int64, syncErr *model.SyncError) {
	s.logger.Warn("External sync failed",
		zap.Int64("appointment_id", apptID),
		zap.String("target", syncErr.Target),
		zap.String("op", syncErr.Op),
		zap.Error(syncErr.Err),
	)
}

func clientName(appt *model.Appointment) string {
	if strings.TrimSpace(appt.Name) != "" {
		return appt.Name
	}
	return "Клиент"
}
