package model

type Service struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DurationMin int    `json:"duration_min"` // в минутах
	Price       int64  `json:"price"`        // в тийинах/центах
}
