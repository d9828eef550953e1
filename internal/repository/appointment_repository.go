package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ulugbekk/beautybot/internal/model"
	"github.com/ulugbekk/beautybot/internal/repository/base"
)

// conflictWindow ограничивает выборку кандидатов при проверке пересечений.
// Это только оптимизация: точная проверка интервалов выполняется в Go.
const conflictWindow = 6 * time.Hour

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(db base.DB) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(db)}
}

const appointmentColumns = `
	a.id, a.user_id, a.name, a.service_id, a.duration_min, a.date,
	a.status, a.event_id, a.created_at, a.updated_at,
	COALESCE(s.name, '')
`

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var appt model.Appointment
	err := row.Scan(
		&appt.ID,
		&appt.UserID,
		&appt.Name,
		&appt.ServiceID,
		&appt.DurationMin,
		&appt.Date,
		&appt.Status,
		&appt.EventID,
		&appt.CreatedAt,
		&appt.UpdatedAt,
		&appt.ServiceName,
	)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// Add создаёт запись со статусом pending и снапшотом длительности услуги
func (r *AppointmentRepository) Add(ctx context.Context, userID, serviceID int64, date time.Time, name string) (int64, error) {
	svc, err := NewServiceRepository(r.DB()).GetByID(ctx, serviceID)
	if err != nil {
		return 0, fmt.Errorf("resolve service: %w", err)
	}
	if svc == nil {
		return 0, model.ErrServiceNotFound
	}

	query := `
		INSERT INTO appointments (user_id, name, service_id, duration_min, date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err = r.DB().QueryRow(
		ctx, query,
		userID,
		name,
		svc.ID,
		svc.DurationMin,
		date,
		model.AppointmentStatusPending,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add appointment: %w", err)
	}

	return id, nil
}

// GetByID получает запись по ID вместе с названием услуги
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		LEFT JOIN services s ON s.id = a.service_id
		WHERE a.id = $1
	`

	appt, err := scanAppointment(r.DB().QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return appt, nil
}

// List получает все записи, отсортированные по дате
func (r *AppointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		LEFT JOIN services s ON s.id = a.service_id
		ORDER BY a.date ASC
	`

	rows, err := r.DB().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

// ListFutureByUser получает будущие записи клиента, отсортированные по дате
func (r *AppointmentRepository) ListFutureByUser(ctx context.Context, userID int64, now time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		LEFT JOIN services s ON s.id = a.service_id
		WHERE a.user_id = $1 AND a.date >= $2
		ORDER BY a.date ASC
	`

	rows, err := r.DB().Query(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("list future appointments: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func collectAppointments(rows pgx.Rows) ([]*model.Appointment, error) {
	var appts []*model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, appt)
	}
	return appts, nil
}

// UpdateStatus обновляет статус записи, false если записи нет
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		return false, fmt.Errorf("update appointment status: %w", err)
	}

	return affected > 0, nil
}

// UpdateDate переносит запись на новое время, false если записи нет
func (r *AppointmentRepository) UpdateDate(ctx context.Context, id int64, date time.Time) (bool, error) {
	query := `
		UPDATE appointments
		SET date = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, date, id)
	if err != nil {
		return false, fmt.Errorf("update appointment date: %w", err)
	}

	return affected > 0, nil
}

// SetEventID сохраняет ID события календаря строго один раз.
// false если запись не найдена или event_id уже заполнен.
func (r *AppointmentRepository) SetEventID(ctx context.Context, id int64, eventID string) (bool, error) {
	query := `
		UPDATE appointments
		SET event_id = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND event_id IS NULL
	`

	affected, err := r.ExecAffected(ctx, query, eventID, id)
	if err != nil {
		return false, fmt.Errorf("set appointment event id: %w", err)
	}

	return affected > 0, nil
}

// Delete удаляет запись, false если записи нет
func (r *AppointmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM appointments WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete appointment: %w", err)
	}

	return affected > 0, nil
}

// HasConflict проверяет пересечение интервала [start, start+durationMin)
// с существующими не отменёнными записями. excludeID позволяет переносу
// игнорировать собственный текущий слот (0 - не исключать ничего).
// SQL сужает выборку окном ±6 часов, точная проверка - по полуоткрытым
// интервалам: касание границ конфликтом не считается.
func (r *AppointmentRepository) HasConflict(ctx context.Context, start time.Time, durationMin int, excludeID int64) (bool, error) {
	if durationMin <= 0 {
		durationMin = 60
	}
	end := start.Add(time.Duration(durationMin) * time.Minute)

	query := `
		SELECT a.date, a.duration_min
		FROM appointments a
		WHERE a.status != $1
		  AND a.id != $2
		  AND a.date >= $3
		  AND a.date <= $4
		ORDER BY a.date ASC
	`

	rows, err := r.DB().Query(
		ctx, query,
		model.AppointmentStatusCancelled,
		excludeID,
		start.Add(-conflictWindow),
		end.Add(conflictWindow),
	)
	if err != nil {
		return false, fmt.Errorf("query conflict candidates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			date     time.Time
			duration *int
		)
		if err := rows.Scan(&date, &duration); err != nil {
			return false, fmt.Errorf("scan conflict candidate: %w", err)
		}

		minutes := 60
		if duration != nil && *duration > 0 {
			minutes = *duration
		}
		candidateEnd := date.Add(time.Duration(minutes) * time.Minute)

		// пересечение [start, end) и [date, candidateEnd)
		if start.Before(candidateEnd) && date.Before(end) {
			return true, nil
		}
	}

	return false, nil
}
