package repository

import (
	"context"
	"fmt"

	"github.com/ulugbekk/beautybot/internal/model"
	"github.com/ulugbekk/beautybot/internal/repository/base"
)

type ServiceRepository struct {
	*base.Repository
}

func NewServiceRepository(db base.DB) *ServiceRepository {
	return &ServiceRepository{Repository: base.NewRepository(db)}
}

// GetByID получает услугу по ID
func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*model.Service, error) {
	query := `
		SELECT id, name, duration_min, price
		FROM services
		WHERE id = $1
	`

	var svc model.Service
	err := r.DB().QueryRow(ctx, query, id).Scan(&svc.ID, &svc.Name, &svc.DurationMin, &svc.Price)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service by id: %w", err)
	}

	return &svc, nil
}

// GetByName ищет услугу по названию без учёта регистра.
// При partial=true достаточно вхождения подстроки.
func (r *ServiceRepository) GetByName(ctx context.Context, name string, partial bool) (*model.Service, error) {
	pattern := name
	if partial {
		pattern = "%" + name + "%"
	}

	query := `
		SELECT id, name, duration_min, price
		FROM services
		WHERE name ILIKE $1
		LIMIT 1
	`

	var svc model.Service
	err := r.DB().QueryRow(ctx, query, pattern).Scan(&svc.ID, &svc.Name, &svc.DurationMin, &svc.Price)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service by name: %w", err)
	}

	return &svc, nil
}

// List получает все услуги, отсортированные по названию
func (r *ServiceRepository) List(ctx context.Context) ([]*model.Service, error) {
	query := `
		SELECT id, name, duration_min, price
		FROM services
		ORDER BY name ASC
	`

	rows, err := r.DB().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []*model.Service
	for rows.Next() {
		var svc model.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.DurationMin, &svc.Price); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, &svc)
	}

	return services, nil
}
