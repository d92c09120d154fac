package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de inventario.
type MovementType string

// Tipos de movimiento de inventario (valores persistidos en la columna movements.type).
const (
	MovementTypeEntry      MovementType = "entrada"
	MovementTypeExit       MovementType = "salida"
	MovementTypeAdjustment MovementType = "ajuste"
)

// Valid indica si el tipo es uno de los soportados.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeAdjustment:
		return true
	}
	return false
}

// Movement representa un movimiento de stock (entrada, salida o ajuste).
// En un ajuste Quantity es el valor absoluto de stock resultante, no un delta.
type Movement struct {
	ID          int64
	ProductID   int64
	Type        MovementType
	Quantity    int64
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal // Quantity * UnitPrice
	Description string
	User        string // username de quien registró el movimiento
	Reference   string
	Reason      string
	StockBefore int64 // stock del producto antes de aplicar el efecto
	StockAfter  int64 // stock del producto después de aplicar el efecto
	CreatedAt   time.Time
}

// ComputeTotal recalcula Total a partir de Quantity y UnitPrice.
func (m *Movement) ComputeTotal() {
	m.Total = decimal.NewFromInt(m.Quantity).Mul(m.UnitPrice)
}

// MovementWithProduct movimiento con el resumen de su producto (listados).
type MovementWithProduct struct {
	Movement
	Product ProductSummary
}

// MovementFilter filtros para listar movimientos. Los campos nil no filtran.
type MovementFilter struct {
	ProductID *int64
	Type      *MovementType
	From      *time.Time
	To        *time.Time
	Ascending bool // por defecto created_at DESC
	Limit     int  // 0 = sin límite
	Offset    int
}
