package state

import "time"

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Состояния диалога записи клиента
	StateBookDate  UserState = "book_date"
	StateBookPhone UserState = "book_phone"

	// Состояния админских диалогов
	StateEditID   UserState = "edit_id"
	StateEditDate UserState = "edit_date"
	StateDeleteID UserState = "delete_id"
)

// UserData хранит данные пользователя на время диалога
type UserData struct {
	State UserState

	// Черновик записи клиента
	ServiceID int64
	Date      time.Time

	// Редактируемая администратором запись
	AppointmentID int64
}
