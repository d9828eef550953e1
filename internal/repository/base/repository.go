package base

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB - минимальный контракт пула соединений.
// Ему удовлетворяют *pgxpool.Pool и мок пула в тестах.
type DB interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

// Repository базовый репозиторий с общими методами
type Repository struct {
	db DB
}

// NewRepository создаёт новый базовый репозиторий
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// DB возвращает пул соединений
func (r *Repository) DB() DB {
	return r.db
}

// ExecAffected выполняет команду и возвращает количество затронутых строк
func (r *Repository) ExecAffected(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// IsNotFound проверяет является ли ошибка "строка не найдена"
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
