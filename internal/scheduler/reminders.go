package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ulugbekk/beautybot/internal/model"
	"github.com/ulugbekk/beautybot/internal/timeutil"
)

const (
	// tickInterval - период обхода записей
	tickInterval = 60 * time.Second

	// dedupWindow - сколько держим метку "уже слали".
	// Чуть больше периода тика, чтобы медленный тик не прислал дубль.
	dedupWindow = 75 * time.Second
)

type AppointmentSource interface {
	List(ctx context.Context) ([]*model.Appointment, error)
}

type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

type reminderTarget struct {
	offset time.Duration
	label  string
	human  string
}

var reminderTargets = []reminderTarget{
	{offset: 24 * time.Hour, label: "24h", human: "за 24 часа"},
	{offset: 2 * time.Hour, label: "2h", human: "за 2 часа"},
}

// dedupKey идентифицирует одну отправку: запись + горизонт + целевая минута
type dedupKey struct {
	appointmentID int64
	label         string
	minute        int64 // unix-время целевой минуты после floor
}

// Scheduler рассылает напоминания за 24 часа и за 2 часа до визита.
// Это периодический обход подтверждённых записей, а не таймеры на каждую
// запись: перенос или отмена автоматически отражаются на следующем тике.
type Scheduler struct {
	appts    AppointmentSource
	notifier Notifier
	logger   *zap.Logger
	loc      *time.Location

	interval time.Duration
	window   time.Duration

	// recent принадлежит только планировщику и чистится каждый тик
	recent   map[dedupKey]time.Time
	stopChan chan struct{}

	// now подменяется в тестах
	now func() time.Time
}

// NewScheduler создаёт новый планировщик напоминаний
func NewScheduler(appts AppointmentSource, notifier Notifier, logger *zap.Logger, loc *time.Location) *Scheduler {
	return &Scheduler{
		appts:    appts,
		notifier: notifier,
		logger:   logger,
		loc:      loc,
		interval: tickInterval,
		window:   dedupWindow,
		recent:   make(map[dedupKey]time.Time),
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Start запускает фоновую рассылку напоминаний
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting reminder scheduler", zap.Duration("interval", s.interval))

	go s.run(ctx)
}

// Stop останавливает рассылку
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler")
	close(s.stopChan)
}

func (s *Scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// sweep выполняется прямо в цикле: пока он идёт, очередной
			// тик не обрабатывается, пропущенные тики тикер схлопывает
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Reminder scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reminder scheduler cancelled")
			return
		}
	}
}

// sweep - один обход: напоминаем по подтверждённым записям, чья минута
// совпадает с "сейчас + 24ч" или "сейчас + 2ч"
func (s *Scheduler) sweep(ctx context.Context) {
	now := s.now().In(s.loc)

	s.prune(now)

	appts, err := s.appts.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load appointments", zap.Error(err))
		return
	}

	for _, appt := range appts {
		// напоминаем только по подтверждённым записям
		if appt.Status != model.AppointmentStatusConfirmed {
			continue
		}

		// аномалия данных: запись без даты пропускаем, но не падаем
		if appt.Date.IsZero() {
			s.logger.Warn("Appointment has empty date, skipping",
				zap.Int64("appointment_id", appt.ID))
			continue
		}

		for _, target := range reminderTargets {
			targetAt := now.Add(target.offset)
			if !timeutil.SameMinute(appt.Date, targetAt, s.loc) {
				continue
			}

			key := dedupKey{
				appointmentID: appt.ID,
				label:         target.label,
				minute:        timeutil.FloorMinute(targetAt, s.loc).Unix(),
			}
			if _, sent := s.recent[key]; sent {
				continue // в эту минуту уже отправляли
			}

			text := fmt.Sprintf(
				"🔔 Напоминание %s до визита:\n💇 %s\n📅 %s",
				target.human,
				appt.ServiceLabel(),
				timeutil.FormatLocal(appt.Date, s.loc),
			)

			if err := s.notifier.Send(ctx, appt.UserID, text); err != nil {
				// одна неудачная отправка не прерывает обход
				s.logger.Warn("Failed to send reminder",
					zap.Int64("appointment_id", appt.ID),
					zap.Int64("user_id", appt.UserID),
					zap.String("label", target.label),
					zap.Error(err),
				)
				continue
			}

			s.recent[key] = now.Add(s.window)

			s.logger.Info("Reminder sent",
				zap.Int64("appointment_id", appt.ID),
				zap.String("label", target.label),
			)
		}
	}
}

// prune удаляет устаревшие метки отправок
func (s *Scheduler) prune(now time.Time) {
	for key, expires := range s.recent {
		if !expires.After(now) {
			delete(s.recent, key)
		}
	}
}
