package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// Tipos de evento publicados por el libro de movimientos.
const (
	EventMovementCreated = "movement.created"
	EventMovementUpdated = "movement.updated"
	EventMovementDeleted = "movement.deleted"
)

// MovementEvent evento de dominio emitido tras cada escritura confirmada del libro.
type MovementEvent struct {
	EventID      string              `json:"event_id"`
	Type         string              `json:"type"`
	MovementID   int64               `json:"movement_id"`
	ProductID    int64               `json:"product_id"`
	MovementType entity.MovementType `json:"movement_type"`
	Quantity     int64               `json:"quantity"`
	StockBefore  int64               `json:"stock_before"`
	StockAfter   int64               `json:"stock_after"`
	User         string              `json:"user"`
	OccurredAt   time.Time           `json:"occurred_at"`
}

func newMovementEvent(eventType string, m *entity.Movement, stockBefore, stockAfter int64) *MovementEvent {
	return &MovementEvent{
		EventID:      uuid.New().String(),
		Type:         eventType,
		MovementID:   m.ID,
		ProductID:    m.ProductID,
		MovementType: m.Type,
		Quantity:     m.Quantity,
		StockBefore:  stockBefore,
		StockAfter:   stockAfter,
		User:         m.User,
		OccurredAt:   time.Now().UTC(),
	}
}
