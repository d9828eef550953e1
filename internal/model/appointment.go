package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"   // Ожидает подтверждения администратора
	AppointmentStatusConfirmed AppointmentStatus = "confirmed" // Подтверждено
	AppointmentStatusCancelled AppointmentStatus = "cancelled" // Отменено
)

type Appointment struct {
	ID int64 `json:"id"`

	// UserID - telegram_id клиента, не FK на users.id (историческая схема)
	UserID int64 `json:"user_id"`

	// Name - снапшот имени клиента на момент записи
	Name string `json:"name"`

	ServiceID   *int64            `json:"service_id"`   // указатель - услуга может быть удалена из каталога
	DurationMin *int              `json:"duration_min"` // снапшот длительности услуги на момент записи
	Date        time.Time         `json:"date"`
	Status      AppointmentStatus `json:"status"`
	EventID     *string           `json:"event_id"` // ID события во внешнем календаре, ставится один раз
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Дополнительное поле для удобства (не из таблицы appointments)
	ServiceName string `json:"service_name,omitempty"`
}

// IsActive сообщает участвует ли запись в проверке конфликтов
func (a *Appointment) IsActive() bool {
	return a.Status != AppointmentStatusCancelled
}

// ServiceLabel возвращает название услуги или подпись по умолчанию
func (a *Appointment) ServiceLabel() string {
	if a.ServiceName != "" {
		return a.ServiceName
	}
	return "Услуга"
}

// Duration возвращает длительность записи, 60 минут если снапшот отсутствует
func (a *Appointment) Duration() time.Duration {
	if a.DurationMin != nil && *a.DurationMin > 0 {
		return time.Duration(*a.DurationMin) * time.Minute
	}
	return 60 * time.Minute
}
