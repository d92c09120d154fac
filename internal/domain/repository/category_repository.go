package repository

import (
	"context"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// List devuelve las categorías más recientes primero; onlyActive filtra is_active = true.
	List(ctx context.Context, onlyActive bool) ([]*entity.Category, error)
	Delete(ctx context.Context, id int64) error
}
