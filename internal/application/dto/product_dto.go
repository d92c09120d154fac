package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Stock es el stock inicial;
// después solo cambia por movimientos.
type CreateProductRequest struct {
	Description string          `json:"description" validate:"required,min=1,max=300"`
	Stock       int64           `json:"stock" validate:"min=0"`
	Cost        decimal.Decimal `json:"cost" swaggertype:"string"`
	Price       decimal.Decimal `json:"price" swaggertype:"string"`
	CategoryID  int64           `json:"category_id" validate:"min=0"`
}

// UpdateProductRequest entrada para editar un producto (sin stock).
type UpdateProductRequest struct {
	Description *string          `json:"description" validate:"omitempty,min=1,max=300"`
	Cost        *decimal.Decimal `json:"cost" swaggertype:"string"`
	Price       *decimal.Decimal `json:"price" swaggertype:"string"`
	CategoryID  *int64           `json:"category_id" validate:"omitempty,min=0"`
	Stock       *int64           `json:"stock,omitempty"` // rechazado: el stock se mueve con movimientos
}

// ProductFilterRequest filtros de listado (?q=, ?category_id=).
type ProductFilterRequest struct {
	PageRequest
	Query      string `query:"q"`
	CategoryID int64  `query:"category_id"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Stock       int64           `json:"stock"`
	Cost        decimal.Decimal `json:"cost" swaggertype:"string"`
	Price       decimal.Decimal `json:"price" swaggertype:"string"`
	CategoryID  int64           `json:"category_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductSummaryResponse resumen de producto embebido en los movimientos.
type ProductSummaryResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Stock       int64           `json:"stock"`
	Price       decimal.Decimal `json:"price" swaggertype:"string"`
}
