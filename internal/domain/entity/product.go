package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Stock solo lo modifica el libro de movimientos; el resto de campos se edita directamente.
type Product struct {
	ID          int64
	Description string
	Stock       int64
	Cost        decimal.Decimal // costo de compra
	Price       decimal.Decimal // precio de venta
	CategoryID  int64
	CreatedAt   time.Time
}

// ProductPatch actualización parcial de un producto: solo se escriben los campos no nil.
type ProductPatch struct {
	Description *string
	Stock       *int64
	Cost        *decimal.Decimal
	Price       *decimal.Decimal
	CategoryID  *int64
}

// IsEmpty indica si el patch no modifica ningún campo.
func (p ProductPatch) IsEmpty() bool {
	return p.Description == nil && p.Stock == nil && p.Cost == nil && p.Price == nil && p.CategoryID == nil
}

// ProductSummary resumen del producto embebido en los listados de movimientos.
type ProductSummary struct {
	ID          int64
	Description string
	Stock       int64
	Price       decimal.Decimal
}
