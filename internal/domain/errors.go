package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrProductImmutable  = errors.New("el producto de un movimiento no se puede modificar")

	ErrProductNotFound  = fmt.Errorf("producto: %w", ErrNotFound)
	ErrMovementNotFound = fmt.Errorf("movimiento: %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("categoría: %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("usuario: %w", ErrNotFound)
)

// InsufficientStockError detalla el stock disponible y la cantidad pedida.
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type InsufficientStockError struct {
	Current   int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente. Stock actual: %d, Cantidad solicitada: %d", e.Current, e.Requested)
}

// Is permite comparar contra ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
