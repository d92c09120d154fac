package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// MovementHandler expone el libro de movimientos.
type MovementHandler struct {
	ledger *inventory.MovementLedger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(ledger *inventory.MovementLedger) *MovementHandler {
	return &MovementHandler{ledger: ledger}
}

// Create godoc
// @Summary      Registrar movimiento
// @Description  entrada suma, salida resta (falla con 409 si no hay stock), ajuste fija el stock.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	mov, err := h.ledger.Create(c.UserContext(), ActorFrom(c), inventory.MovementDraft{
		ProductID:   in.ProductID,
		Type:        entity.MovementType(in.Type),
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Description: in.Description,
		Reference:   in.Reference,
		Reason:      in.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	mov, err := h.ledger.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMovementResponse(mov))
}

// List godoc
// @Summary      Listar movimientos
// @Description  Sin filtros devuelve todos (paginado). from/to aceptan YYYY-MM-DD o RFC3339; un `to` de solo fecha incluye todo el día.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "entrada | salida | ajuste"
// @Param        from    query  string  false  "Desde"
// @Param        to      query  string  false  "Hasta"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	movType := entity.MovementType(c.Query("type"))
	fromRaw, toRaw := c.Query("from"), c.Query("to")

	var (
		list []*entity.MovementWithProduct
		err  error
	)
	switch {
	case fromRaw != "" || toRaw != "":
		from, to, ok := parseRange(fromRaw, toRaw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to: formato YYYY-MM-DD o RFC3339"})
		}
		if movType != "" && !movType.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type: entrada, salida o ajuste"})
		}
		list, err = h.ledger.ListByDateRange(ctx, from, to)
		if err == nil && movType != "" {
			list = filterByType(list, movType)
		}
	case movType != "":
		list, err = h.ledger.ListByType(ctx, movType)
	default:
		page := dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)}
		page.DefaultPage()
		if page.Limit > 500 {
			page.Limit = 500
		}
		result, err := h.ledger.ListAll(ctx, page.Limit, page.Offset)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(dto.MovementListResponse{
			Items: toMovementListResponse(result.Items),
			Page:  &dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: int(result.Total)},
		})
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementListResponse{Items: toMovementListResponse(list)})
}

// Update godoc
// @Summary      Editar movimiento
// @Description  Si cambia cantidad o tipo se revierte el efecto anterior y se aplica el nuevo. product_id no se puede cambiar.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del movimiento"
// @Param        body  body  dto.UpdateMovementRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [patch]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var in dto.UpdateMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	patch := inventory.MovementPatch{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Description: in.Description,
		Reference:   in.Reference,
		Reason:      in.Reason,
	}
	if in.Type != nil {
		t := entity.MovementType(*in.Type)
		patch.Type = &t
	}
	mov, err := h.ledger.Update(c.UserContext(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMovementResponse(mov))
}

// Delete godoc
// @Summary      Eliminar movimiento
// @Description  Revierte su efecto sobre el stock antes de eliminarlo.
// @Tags         movements
// @Security     Bearer
// @Param        id   path  int  true  "ID del movimiento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	if err := h.ledger.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseRange interpreta from/to. Un lado vacío queda abierto.
func parseRange(fromRaw, toRaw string) (time.Time, time.Time, bool) {
	from := time.Time{}
	to := time.Now().UTC()
	if fromRaw != "" {
		t, _, ok := parseDate(fromRaw)
		if !ok {
			return from, to, false
		}
		from = t
	}
	if toRaw != "" {
		t, dateOnly, ok := parseDate(toRaw)
		if !ok {
			return from, to, false
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = t
	}
	return from, to, true
}

// parseDate devuelve la fecha y si venía sin hora.
func parseDate(s string) (time.Time, bool, bool) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, true
	}
	return time.Time{}, false, false
}

// filterByType devuelve un slice nuevo; list puede venir de la caché compartida.
func filterByType(list []*entity.MovementWithProduct, t entity.MovementType) []*entity.MovementWithProduct {
	out := make([]*entity.MovementWithProduct, 0, len(list))
	for _, m := range list {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Total:       m.Total,
		Description: m.Description,
		User:        m.User,
		Reference:   m.Reference,
		Reason:      m.Reason,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		CreatedAt:   m.CreatedAt,
	}
}

func toMovementListResponse(list []*entity.MovementWithProduct) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		r := toMovementResponse(&m.Movement)
		r.Product = &dto.ProductSummaryResponse{
			ID:          m.Product.ID,
			Description: m.Product.Description,
			Stock:       m.Product.Stock,
			Price:       m.Product.Price,
		}
		out = append(out, r)
	}
	return out
}
