package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `m.id, m.product_id, m.type, m.quantity, m.unit_price, m.total,
	COALESCE(m.description, ''), m.user_name, COALESCE(m.reference, ''), COALESCE(m.reason, ''),
	m.stock_before, m.stock_after, m.created_at`

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta el movimiento y completa ID y CreatedAt.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (product_id, type, quantity, unit_price, total, description, user_name, reference, reason, stock_before, stock_after)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		m.ProductID, string(m.Type), m.Quantity, m.UnitPrice, m.Total,
		m.Description, m.User, m.Reference, m.Reason, m.StockBefore, m.StockAfter,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	return r.get(ctx, `SELECT `+movementColumns+` FROM movements m WHERE m.id = $1`, id)
}

// GetForUpdate obtiene el movimiento bloqueando la fila hasta el fin de la transacción.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Movement, error) {
	return r.get(ctx, `SELECT `+movementColumns+` FROM movements m WHERE m.id = $1 FOR UPDATE`, id)
}

func (r *MovementRepo) get(ctx context.Context, query string, id int64) (*entity.Movement, error) {
	var m entity.Movement
	if err := r.q.QueryRow(ctx, query, id).Scan(movementDest(&m)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// Update reescribe los campos mutables; product_id, user_name y created_at no cambian.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE movements SET type = $2, quantity = $3, unit_price = $4, total = $5,
			description = NULLIF($6, ''), reference = NULLIF($7, ''), reason = NULLIF($8, ''),
			stock_before = $9, stock_after = $10
		WHERE id = $1`,
		m.ID, string(m.Type), m.Quantity, m.UnitPrice, m.Total,
		m.Description, m.Reference, m.Reason, m.StockBefore, m.StockAfter,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}
	return nil
}

// Delete elimina un movimiento por ID.
func (r *MovementRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}
	return nil
}

// List devuelve los movimientos con el resumen de su producto (JOIN products).
// Orden created_at DESC salvo filter.Ascending; From/To son inclusivos.
func (r *MovementRepo) List(ctx context.Context, filter entity.MovementFilter) ([]*entity.MovementWithProduct, error) {
	where, args := movementWhere(filter)
	query := `SELECT ` + movementColumns + `, p.id, p.description, p.stock, p.price
		FROM movements m JOIN products p ON p.id = m.product_id` + where
	if filter.Ascending {
		query += " ORDER BY m.created_at ASC, m.id ASC"
	} else {
		query += " ORDER BY m.created_at DESC, m.id DESC"
	}
	query += limitOffset(&args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementWithProduct
	for rows.Next() {
		var mp entity.MovementWithProduct
		dest := append(movementDest(&mp.Movement),
			&mp.Product.ID, &mp.Product.Description, &mp.Product.Stock, &mp.Product.Price)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &mp)
	}
	return list, rows.Err()
}

// Count cuenta los movimientos con los mismos filtros que List.
func (r *MovementRepo) Count(ctx context.Context, filter entity.MovementFilter) (int64, error) {
	where, args := movementWhere(filter)
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements m`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

func movementWhere(filter entity.MovementFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		conds = append(conds, fmt.Sprintf("m.product_id = $%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		conds = append(conds, fmt.Sprintf("m.type = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("m.created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("m.created_at <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func movementDest(m *entity.Movement) []any {
	return []any{
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.UnitPrice, &m.Total,
		&m.Description, &m.User, &m.Reference, &m.Reason,
		&m.StockBefore, &m.StockAfter, &m.CreatedAt,
	}
}
