package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

func sampleEvent() *inventory.MovementEvent {
	return &inventory.MovementEvent{
		EventID:      "9f0c3a51-7d7e-4d34-9a1a-3c2b8e7f0d11",
		Type:         inventory.EventMovementCreated,
		MovementID:   12,
		ProductID:    34,
		MovementType: entity.MovementTypeExit,
		Quantity:     5,
		StockBefore:  20,
		StockAfter:   15,
		User:         "bodega1",
		OccurredAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage(sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, "34", string(msg.Key))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, inventory.EventMovementCreated, string(msg.Headers[0].Value))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "salida", body["movement_type"])
	assert.EqualValues(t, 15, body["stock_after"])
	assert.Equal(t, "bodega1", body["user"])
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher(zerolog.Nop())
	assert.NoError(t, p.PublishMovementEvent(context.Background(), sampleEvent()))
	assert.NoError(t, p.Close())
}
