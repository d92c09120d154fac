package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest entrada para registrar un movimiento. El usuario sale del token.
type CreateMovementRequest struct {
	ProductID   int64           `json:"product_id" validate:"required,min=1"`
	Type        string          `json:"type" validate:"required,oneof=entrada salida ajuste"`
	Quantity    int64           `json:"quantity" validate:"min=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string"`
	Description string          `json:"description" validate:"max=500"`
	Reference   string          `json:"reference" validate:"max=120"`
	Reason      string          `json:"reason" validate:"max=300"`
}

// UpdateMovementRequest patch parcial. product_id solo se acepta si coincide con el actual.
type UpdateMovementRequest struct {
	ProductID   *int64           `json:"product_id"`
	Type        *string          `json:"type" validate:"omitempty,oneof=entrada salida ajuste"`
	Quantity    *int64           `json:"quantity" validate:"omitempty,min=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price" swaggertype:"string"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Reference   *string          `json:"reference" validate:"omitempty,max=120"`
	Reason      *string          `json:"reason" validate:"omitempty,max=300"`
}

// MovementResponse salida de un movimiento; Product solo viene en listados.
type MovementResponse struct {
	ID          int64                   `json:"id"`
	ProductID   int64                   `json:"product_id"`
	Type        string                  `json:"type"`
	Quantity    int64                   `json:"quantity"`
	UnitPrice   decimal.Decimal         `json:"unit_price" swaggertype:"string"`
	Total       decimal.Decimal         `json:"total" swaggertype:"string"`
	Description string                  `json:"description,omitempty"`
	User        string                  `json:"user"`
	Reference   string                  `json:"reference,omitempty"`
	Reason      string                  `json:"reason,omitempty"`
	StockBefore int64                   `json:"stock_before"`
	StockAfter  int64                   `json:"stock_after"`
	CreatedAt   time.Time               `json:"created_at"`
	Product     *ProductSummaryResponse `json:"product,omitempty"`
}

// MovementListResponse listado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  *PageResponse      `json:"page,omitempty"`
}
