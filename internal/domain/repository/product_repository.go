package repository

import (
	"context"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// ProductFilter filtros para listar productos. CategoryID nil no filtra.
type ProductFilter struct {
	CategoryID *int64
	Limit      int // 0 = sin límite
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); solo tiene efecto dentro de una transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// Update aplica el patch, persiste y devuelve la fila actualizada. Único punto de escritura de stock.
	Update(ctx context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Delete(ctx context.Context, id int64) error
}
