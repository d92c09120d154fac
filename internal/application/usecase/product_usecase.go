package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
	"github.com/jhoicas/inventario-admin/pkg/textutil"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo se fija al crear;
// después cambia únicamente a través del libro de movimientos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	listings     inventory.ListingCache
}

// NewProductUseCase construye el caso de uso. listings es la caché de listados de movimientos,
// que embebe el resumen del producto; puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, listings inventory.ListingCache) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, listings: listings}
}

// Create crea un producto con su stock inicial.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Stock < 0 || in.Cost.IsNegative() || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	product := &entity.Product{
		Description: in.Description,
		Stock:       in.Stock,
		Cost:        in.Cost,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(product), nil
}

// Update edita descripción, costo, precio o categoría. Un stock en la entrada se rechaza.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Stock != nil {
		return nil, fmt.Errorf("%w: el stock solo cambia mediante movimientos", domain.ErrInvalidInput)
	}
	if (in.Cost != nil && in.Cost.IsNegative()) || (in.Price != nil && in.Price.IsNegative()) {
		return nil, domain.ErrInvalidInput
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}
	product, err := uc.repo.Update(ctx, id, entity.ProductPatch{
		Description: in.Description,
		Cost:        in.Cost,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
	})
	if err != nil {
		return nil, err
	}
	if err := inventory.InvalidateListings(ctx, uc.listings); err != nil {
		log.Warn().Err(err).Int64("product_id", id).Msg("invalidar caché de movimientos")
	}
	return toProductResponse(product), nil
}

// List lista productos. Con Query filtra por descripción sin distinguir mayúsculas ni tildes
// y pagina sobre el resultado filtrado.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	filter := repository.ProductFilter{}
	if in.CategoryID > 0 {
		filter.CategoryID = &in.CategoryID
	}
	if in.Query == "" {
		filter.Limit, filter.Offset = in.Limit, in.Offset
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total := len(list)
	if in.Query != "" {
		needle := textutil.Fold(in.Query)
		matched := list[:0]
		for _, p := range list {
			if textutil.Contains(p.Description, needle) {
				matched = append(matched, p)
			}
		}
		total = len(matched)
		list = paginate(matched, in.Limit, in.Offset)
	}

	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Delete elimina un producto sin movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, id int64) error {
	if id == 0 {
		return nil
	}
	if id < 0 {
		return domain.ErrInvalidInput
	}
	c, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Description: p.Description,
		Stock:       p.Stock,
		Cost:        p.Cost,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
	}
}
