package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo entradas y salidas de bodega sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO movements (id, kind, product_id, quantity, unit_cost, reason, charge, order_id, comment, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.Kind, m.ProductID, m.Quantity, m.UnitCost, m.Reason, m.Charge,
		nullable(m.OrderID), m.Comment, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return wrapErr("insert movement", err)
	}
	return nil
}

// List lista movimientos por tipo y rango de fechas, más nuevos primero.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	conds := []string{"m.kind = $1"}
	args := []any{filter.Kind}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("m.created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("m.created_at <= $%d", len(args)))
	}
	if filter.ConsignmentOnly {
		conds = append(conds, "p.consignment")
	}
	query := `
		SELECT m.id, m.kind, m.product_id, m.quantity, m.unit_cost, m.reason, m.charge,
		       COALESCE(m.order_id::TEXT, ''), m.comment, m.created_by, m.created_at
		FROM movements m
		JOIN products p ON p.id = m.product_id
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY m.created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list movements", err)
	}
	defer rows.Close()
	var out []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(
			&m.ID, &m.Kind, &m.ProductID, &m.Quantity, &m.UnitCost, &m.Reason, &m.Charge,
			&m.OrderID, &m.Comment, &m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, wrapErr("scan movement", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list movements", err)
	}
	return out, nil
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
