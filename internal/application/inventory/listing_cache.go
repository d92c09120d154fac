package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// Claves de la caché de listados. Cada listado va en movements:list:<gen>:...; la generación
// vive en movements:gen y solo sube, nunca se borra.
const (
	listingGenKey    = "movements:gen"
	listingKeyPrefix = "movements:list:"
)

// MovementPage página de movimientos con el total sin paginar.
type MovementPage struct {
	Items []*entity.MovementWithProduct `json:"items"`
	Total int64                         `json:"total"`
}

// InvalidateListings sube la generación y borra los listados guardados. Un listado que
// se guarde después con una generación anterior ya no se vuelve a leer.
// Ignora la cancelación de ctx: la escritura que la provoca ya está confirmada.
func InvalidateListings(ctx context.Context, cache ListingCache) error {
	if cache == nil {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	var errs []error
	if _, err := cache.Incr(ctx, listingGenKey); err != nil {
		errs = append(errs, fmt.Errorf("incr %s: %w", listingGenKey, err))
	}
	if err := cache.DeleteByPrefix(ctx, listingKeyPrefix); err != nil {
		errs = append(errs, fmt.Errorf("delete %s*: %w", listingKeyPrefix, err))
	}
	return errors.Join(errs...)
}

// listingGeneration lee la generación actual; ausente cuenta como 0.
func listingGeneration(ctx context.Context, cache ListingCache) (int64, error) {
	raw, ok, err := cache.Get(ctx, listingGenKey)
	if err != nil || !ok {
		return 0, err
	}
	gen, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("generación de listados %q: %w", raw, err)
	}
	return gen, nil
}

func listingKey(gen int64, limit, offset int) string {
	return fmt.Sprintf("%s%d:all:%d:%d", listingKeyPrefix, gen, limit, offset)
}
