package repository

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "duration_min", "price"})
}

func TestGetByName_ExactPattern(t *testing.T) {
	mock := newMockPool(t)
	repo := NewServiceRepository(mock)

	mock.ExpectQuery("SELECT id, name, duration_min, price").
		WithArgs("Стрижка").
		WillReturnRows(serviceRows().AddRow(int64(7), "Стрижка", 45, int64(15000000)))

	svc, err := repo.GetByName(context.Background(), "Стрижка", false)
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, int64(7), svc.ID)
	assert.Equal(t, 45, svc.DurationMin)
}

func TestGetByName_PartialWrapsPattern(t *testing.T) {
	mock := newMockPool(t)
	repo := NewServiceRepository(mock)

	mock.ExpectQuery("SELECT id, name, duration_min, price").
		WithArgs("%стриж%").
		WillReturnRows(serviceRows().AddRow(int64(7), "Стрижка", 45, int64(15000000)))

	svc, err := repo.GetByName(context.Background(), "стриж", true)
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestGetByName_NotFoundReturnsNil(t *testing.T) {
	mock := newMockPool(t)
	repo := NewServiceRepository(mock)

	mock.ExpectQuery("SELECT id, name, duration_min, price").
		WithArgs("Маникюр").
		WillReturnRows(serviceRows())

	svc, err := repo.GetByName(context.Background(), "Маникюр", false)
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestList_OrderedByName(t *testing.T) {
	mock := newMockPool(t)
	repo := NewServiceRepository(mock)

	mock.ExpectQuery("SELECT id, name, duration_min, price").
		WillReturnRows(serviceRows().
			AddRow(int64(2), "Маникюр", 60, int64(20000000)).
			AddRow(int64(7), "Стрижка", 45, int64(15000000)))

	services, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Маникюр", services[0].Name)
	assert.Equal(t, "Стрижка", services[1].Name)
}
