package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

func newProductUseCase() (*ProductUseCase, *fakeProductRepo) {
	repo := &fakeProductRepo{}
	cats := &fakeCategoryRepo{items: map[int64]*entity.Category{1: {ID: 1, Name: "Granos", IsActive: true}}}
	return NewProductUseCase(repo, cats, nil), repo
}

func TestProductCreate_ConStockInicial(t *testing.T) {
	uc, _ := newProductUseCase()

	out, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Description: "Arroz", Stock: 12, Price: decimal.NewFromInt(3500), CategoryID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), out.Stock)
	assert.Equal(t, int64(1), out.ID)
}

func TestProductCreate_CategoriaInexistente(t *testing.T) {
	uc, _ := newProductUseCase()

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{Description: "Arroz", CategoryID: 9})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProductUpdate_RechazaStock(t *testing.T) {
	uc, repo := newProductUseCase()
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateProductRequest{Description: "Arroz", Stock: 5})
	require.NoError(t, err)

	stock := int64(99)
	_, err = uc.Update(ctx, 1, dto.UpdateProductRequest{Stock: &stock})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, int64(5), repo.items[0].Stock)

	desc := "Arroz blanco"
	out, err := uc.Update(ctx, 1, dto.UpdateProductRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Arroz blanco", out.Description)
	assert.Equal(t, int64(5), out.Stock)
}

func TestProductList_BusquedaSinTildes(t *testing.T) {
	uc, _ := newProductUseCase()
	ctx := context.Background()
	for _, d := range []string{"Azúcar morena", "Café molido", "AZUCAR blanca", "Sal"} {
		_, err := uc.Create(ctx, dto.CreateProductRequest{Description: d})
		require.NoError(t, err)
	}

	out, err := uc.List(ctx, dto.ProductFilterRequest{Query: "azucar"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total)
	require.Len(t, out.Items, 2)

	out, err = uc.List(ctx, dto.ProductFilterRequest{Query: "CAFE"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Café molido", out.Items[0].Description)
}

func TestProductGetByID_NoExiste(t *testing.T) {
	uc, _ := newProductUseCase()

	_, err := uc.GetByID(context.Background(), 7)
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, paginate(items, 2, 2))
	assert.Equal(t, []int{5}, paginate(items, 10, 4))
	assert.Nil(t, paginate(items, 2, 5))
	assert.Equal(t, items, paginate(items, 0, 0))
}
