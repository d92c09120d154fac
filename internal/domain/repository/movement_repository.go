package repository

import (
	"context"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos de stock.
// GetByID y GetForUpdate devuelven (nil, nil) si el movimiento no existe.
type MovementRepository interface {
	// Create inserta el movimiento y completa ID y CreatedAt.
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Movement, error)
	// Update reescribe los campos mutables (todo excepto ID, ProductID, User y CreatedAt).
	Update(ctx context.Context, movement *entity.Movement) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.MovementWithProduct, error)
	// Count cuenta los movimientos que cumplen el filtro; ignora Limit, Offset y Ascending.
	Count(ctx context.Context, filter entity.MovementFilter) (int64, error)
}
