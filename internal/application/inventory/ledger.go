package inventory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-admin/internal/domain/inventory"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

const defaultListingTTL = 5 * time.Minute

// LedgerConfig opciones del libro de movimientos.
type LedgerConfig struct {
	// ExactAdjustmentReversal revierte un ajuste restando su efecto registrado (StockAfter-StockBefore).
	// En false (por defecto) revertir un ajuste no modifica el stock.
	ExactAdjustmentReversal bool
	// ListingTTL vida de los listados en caché; 0 usa 5 minutos.
	ListingTTL time.Duration
}

// MovementDraft entrada para registrar un movimiento. El usuario sale del Actor, no del cuerpo.
type MovementDraft struct {
	ProductID   int64
	Type        entity.MovementType
	Quantity    int64
	UnitPrice   decimal.Decimal
	Description string
	Reference   string
	Reason      string
}

// MovementPatch actualización parcial de un movimiento. ProductID solo se acepta si coincide
// con el producto actual del movimiento.
type MovementPatch struct {
	ProductID   *int64
	Type        *entity.MovementType
	Quantity    *int64
	UnitPrice   *decimal.Decimal
	Description *string
	Reference   *string
	Reason      *string
}

// MovementLedger registra, edita y elimina movimientos manteniendo products.stock consistente.
// Cada operación de escritura corre en una transacción con bloqueo de fila del producto
// (SELECT FOR UPDATE) para serializar los movimientos concurrentes sobre el mismo producto.
type MovementLedger struct {
	txRunner  TxRunner
	movRepo   repository.MovementRepository
	publisher EventPublisher
	cache     ListingCache
	cfg       LedgerConfig
	log       zerolog.Logger
}

// NewMovementLedger construye el libro. publisher y cache pueden ser nil.
func NewMovementLedger(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	publisher EventPublisher,
	cache ListingCache,
	cfg LedgerConfig,
	log zerolog.Logger,
) *MovementLedger {
	if cfg.ListingTTL <= 0 {
		cfg.ListingTTL = defaultListingTTL
	}
	return &MovementLedger{
		txRunner:  txRunner,
		movRepo:   movRepo,
		publisher: publisher,
		cache:     cache,
		cfg:       cfg,
		log:       log.With().Str("component", "movement_ledger").Logger(),
	}
}

// Create registra un movimiento y aplica su efecto al stock del producto.
// Una salida mayor al stock actual falla con *domain.InsufficientStockError antes de escribir nada.
func (l *MovementLedger) Create(ctx context.Context, actor Actor, draft MovementDraft) (*entity.Movement, error) {
	if actor.Username == "" {
		return nil, domain.ErrUnauthorized
	}
	if draft.ProductID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := validateMovement(draft.Type, draft.Quantity, draft.UnitPrice); err != nil {
		return nil, err
	}

	var created *entity.Movement
	err := l.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, draft.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if !domaininv.CheckExit(product.Stock, draft.Type, draft.Quantity) {
			return &domain.InsufficientStockError{Current: product.Stock, Requested: draft.Quantity}
		}
		newStock := domaininv.ApplyDelta(product.Stock, draft.Type, draft.Quantity)

		mov := &entity.Movement{
			ProductID:   draft.ProductID,
			Type:        draft.Type,
			Quantity:    draft.Quantity,
			UnitPrice:   draft.UnitPrice,
			Description: draft.Description,
			User:        actor.Username,
			Reference:   draft.Reference,
			Reason:      draft.Reason,
			StockBefore: product.Stock,
			StockAfter:  newStock,
		}
		mov.ComputeTotal()
		// El movimiento se inserta primero; el stock solo cambia si el insert tuvo éxito.
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		if _, err := productRepo.Update(ctx, product.ID, entity.ProductPatch{Stock: &newStock}); err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.afterCommit(ctx, newMovementEvent(EventMovementCreated, created, created.StockBefore, created.StockAfter))
	return created, nil
}

// Update aplica un patch a un movimiento. Si cambia la cantidad o el tipo, revierte el efecto
// anterior sobre el stock, valida y aplica el nuevo, todo antes de persistir el patch.
func (l *MovementLedger) Update(ctx context.Context, id int64, patch MovementPatch) (*entity.Movement, error) {
	var updated *entity.Movement
	err := l.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		current, err := movRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrMovementNotFound
		}
		if patch.ProductID != nil && *patch.ProductID != current.ProductID {
			return domain.ErrProductImmutable
		}

		next := *current
		if patch.Type != nil {
			next.Type = *patch.Type
		}
		if patch.Quantity != nil {
			next.Quantity = *patch.Quantity
		}
		if patch.UnitPrice != nil {
			next.UnitPrice = *patch.UnitPrice
		}
		if patch.Description != nil {
			next.Description = *patch.Description
		}
		if patch.Reference != nil {
			next.Reference = *patch.Reference
		}
		if patch.Reason != nil {
			next.Reason = *patch.Reason
		}
		if err := validateMovement(next.Type, next.Quantity, next.UnitPrice); err != nil {
			return err
		}

		if patch.Quantity != nil || patch.Type != nil {
			product, err := productRepo.GetForUpdate(ctx, current.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrProductNotFound
			}
			reversed := domaininv.ReverseDelta(product.Stock, current, l.cfg.ExactAdjustmentReversal)
			if !domaininv.CheckExit(reversed, next.Type, next.Quantity) {
				return &domain.InsufficientStockError{Current: reversed, Requested: next.Quantity}
			}
			newStock := domaininv.ApplyDelta(reversed, next.Type, next.Quantity)
			if _, err := productRepo.Update(ctx, product.ID, entity.ProductPatch{Stock: &newStock}); err != nil {
				return err
			}
			next.StockBefore = reversed
			next.StockAfter = newStock
		}

		next.ComputeTotal()
		if err := movRepo.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.afterCommit(ctx, newMovementEvent(EventMovementUpdated, updated, updated.StockBefore, updated.StockAfter))
	return updated, nil
}

// Delete revierte el efecto del movimiento sobre el stock y elimina el registro.
// No valida piso de stock: revertir una entrada sobre un stock alterado externamente puede dejarlo negativo.
func (l *MovementLedger) Delete(ctx context.Context, id int64) error {
	var event *MovementEvent
	err := l.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		current, err := movRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrMovementNotFound
		}
		product, err := productRepo.GetForUpdate(ctx, current.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		newStock := domaininv.ReverseDelta(product.Stock, current, l.cfg.ExactAdjustmentReversal)
		if _, err := productRepo.Update(ctx, product.ID, entity.ProductPatch{Stock: &newStock}); err != nil {
			return err
		}
		if err := movRepo.Delete(ctx, current.ID); err != nil {
			return err
		}
		event = newMovementEvent(EventMovementDeleted, current, product.Stock, newStock)
		return nil
	})
	if err != nil {
		return err
	}

	l.afterCommit(ctx, event)
	return nil
}

// GetByID obtiene un movimiento por ID.
func (l *MovementLedger) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	mov, err := l.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrMovementNotFound
	}
	return mov, nil
}

// ListAll lista todos los movimientos con su producto, más recientes primero, y el total sin paginar.
// limit 0 devuelve todos. La página se guarda en caché bajo la generación leída antes de
// consultar, así una escritura concurrente nunca deja en caché un listado anterior a ella.
func (l *MovementLedger) ListAll(ctx context.Context, limit, offset int) (*MovementPage, error) {
	key, cacheable := l.listingKey(ctx, limit, offset)
	if cacheable {
		if cached, ok := l.cachedListing(ctx, key); ok {
			return cached, nil
		}
	}
	items, err := l.movRepo.List(ctx, entity.MovementFilter{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	total, err := l.movRepo.Count(ctx, entity.MovementFilter{})
	if err != nil {
		return nil, err
	}
	page := &MovementPage{Items: items, Total: total}
	if cacheable {
		l.storeListing(ctx, key, page)
	}
	return page, nil
}

// ListByProduct lista los movimientos de un producto, más recientes primero.
func (l *MovementLedger) ListByProduct(ctx context.Context, productID int64) ([]*entity.MovementWithProduct, error) {
	if productID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return l.movRepo.List(ctx, entity.MovementFilter{ProductID: &productID})
}

// ListByType lista los movimientos de un tipo, más recientes primero.
func (l *MovementLedger) ListByType(ctx context.Context, t entity.MovementType) ([]*entity.MovementWithProduct, error) {
	if !t.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return l.movRepo.List(ctx, entity.MovementFilter{Type: &t})
}

// ListByDateRange lista los movimientos creados en [start, end], más recientes primero.
func (l *MovementLedger) ListByDateRange(ctx context.Context, start, end time.Time) ([]*entity.MovementWithProduct, error) {
	if start.After(end) {
		return nil, domain.ErrInvalidInput
	}
	return l.movRepo.List(ctx, entity.MovementFilter{From: &start, To: &end})
}

// afterCommit publica el evento e invalida la caché de listados. Los fallos solo se registran:
// la escritura ya está confirmada.
func (l *MovementLedger) afterCommit(ctx context.Context, event *MovementEvent) {
	ctx = context.WithoutCancel(ctx)
	if err := InvalidateListings(ctx, l.cache); err != nil {
		l.log.Warn().Err(err).Msg("invalidar caché de movimientos")
	}
	if l.publisher == nil || event == nil {
		return
	}
	if err := l.publisher.PublishMovementEvent(ctx, event); err != nil {
		l.log.Warn().Err(err).
			Str("event_type", event.Type).
			Int64("movement_id", event.MovementID).
			Msg("publicar evento de movimiento")
	}
}

// listingKey arma la clave con la generación vigente. Sin caché o sin poder leer la
// generación el listado no se cachea.
func (l *MovementLedger) listingKey(ctx context.Context, limit, offset int) (string, bool) {
	if l.cache == nil {
		return "", false
	}
	gen, err := listingGeneration(ctx, l.cache)
	if err != nil {
		l.log.Warn().Err(err).Msg("leer generación de listados")
		return "", false
	}
	return listingKey(gen, limit, offset), true
}

func (l *MovementLedger) cachedListing(ctx context.Context, key string) (*MovementPage, bool) {
	raw, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("leer caché de movimientos")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var page MovementPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, false
	}
	return &page, true
}

func (l *MovementLedger) storeListing(ctx context.Context, key string, page *MovementPage) {
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := l.cache.Set(ctx, key, raw, l.cfg.ListingTTL); err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("guardar caché de movimientos")
	}
}

// validateMovement: tipo válido, cantidad > 0 en entrada/salida, >= 0 en ajuste, precio no negativo.
func validateMovement(t entity.MovementType, quantity int64, unitPrice decimal.Decimal) error {
	if !t.Valid() {
		return domain.ErrInvalidInput
	}
	if t == entity.MovementTypeAdjustment {
		if quantity < 0 {
			return domain.ErrInvalidInput
		}
	} else if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if unitPrice.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}
