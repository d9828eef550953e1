package model

import (
	"errors"
	"fmt"
)

var (
	ErrServiceNotFound     = errors.New("service not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrUserNotFound        = errors.New("user not found")
)

var (
	// ErrSlotConflict - желаемый интервал пересекается с активной записью
	ErrSlotConflict = errors.New("slot already taken")

	// ErrForbidden - операция над чужой записью без прав администратора
	ErrForbidden = errors.New("no permission for this appointment")
)

// ErrValidation - базовая ошибка валидации входных данных
var ErrValidation = errors.New("validation error")

// Validationf оборачивает ErrValidation с пояснением для пользователя
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// SyncError - сбой внешней синхронизации (календарь/таблица).
// Никогда не фатален для вызвавшей операции: БД остаётся источником истины.
type SyncError struct {
	Target string // "calendar" или "sheet"
	Op     string
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s %s: %v", e.Target, e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
