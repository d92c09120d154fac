package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

func TestCategoryCreate_ActivaPorDefecto(t *testing.T) {
	uc := NewCategoryUseCase(&fakeCategoryRepo{items: map[int64]*entity.Category{}})

	out, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "  Lácteos "})
	require.NoError(t, err)
	assert.Equal(t, "Lácteos", out.Name)
	assert.True(t, out.IsActive)

	_, err = uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "   "})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCategoryList_SoloActivas(t *testing.T) {
	repo := &fakeCategoryRepo{items: map[int64]*entity.Category{}}
	uc := NewCategoryUseCase(repo)
	inactive := false
	_, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Aseo"})
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Licores", IsActive: &inactive})
	require.NoError(t, err)

	all, err := uc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := uc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Aseo", active[0].Name)
}

func TestCategoryUpdate(t *testing.T) {
	repo := &fakeCategoryRepo{items: map[int64]*entity.Category{1: {ID: 1, Name: "Granos", IsActive: true}}}
	uc := NewCategoryUseCase(repo)
	off := false

	out, err := uc.Update(context.Background(), 1, dto.UpdateCategoryRequest{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, out.IsActive)
	assert.Equal(t, "Granos", out.Name)

	_, err = uc.Update(context.Background(), 2, dto.UpdateCategoryRequest{IsActive: &off})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
