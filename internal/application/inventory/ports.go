package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad del libro de movimientos: el movimiento y el stock se escriben juntos o no se escriben.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// EventPublisher publica los eventos del libro después del commit.
type EventPublisher interface {
	PublishMovementEvent(ctx context.Context, event *MovementEvent) error
}

// ListingCache caché de listados de movimientos (cache-aside).
// Get devuelve ok=false si la clave no existe o expiró. Incr guarda el contador como
// entero decimal sin expiración, de modo que Get lo devuelve como texto.
type ListingCache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// KardexGenerator genera el PDF del kardex de un producto.
type KardexGenerator interface {
	GenerateKardexPDF(ctx context.Context, product *entity.Product, movements []*entity.MovementWithProduct) ([]byte, error)
}

// Actor identifica al usuario autenticado que ejecuta la operación (se pasa explícito, sin sesión global).
type Actor struct {
	UserID   int64
	Username string
	Role     string
}
