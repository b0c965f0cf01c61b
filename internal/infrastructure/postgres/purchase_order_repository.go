package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra y líneas sobre PostgreSQL (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const orderColumns = `id, number, quote_number, deliver_to, company, supplier_id, charge, payment_terms,
	delivery_term, comments, status, created_at`

const lineColumns = `id, order_id, position, quantity, description, product_code, unit_price, received`

func scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	err := row.Scan(
		&o.ID, &o.Number, &o.QuoteNumber, &o.DeliverTo, &o.Company, &o.SupplierID, &o.Charge, &o.PaymentTerms,
		&o.DeliveryTerm, &o.Comments, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserta cabecera y líneas. Número repetido en la empresa → domain.ErrDuplicate.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID, o.Number, o.QuoteNumber, o.DeliverTo, o.Company, o.SupplierID, o.Charge, o.PaymentTerms,
		o.DeliveryTerm, o.Comments, o.Status, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: oc %s", domain.ErrDuplicate, o.Number)
		}
		return wrapErr("insert purchase order", err)
	}
	for _, l := range o.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_lines (`+lineColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.ID, o.ID, l.Position, l.Quantity, l.Description, l.ProductCode, l.UnitPrice, l.Received,
		)
		if err != nil {
			return wrapErr("insert purchase order line", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getWithLines(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera. Toda modificación de líneas pasa por esta fila,
// así que el bloqueo también serializa las recepciones sobre sus líneas.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getWithLines(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) getWithLines(ctx context.Context, query, id string) (*entity.PurchaseOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get purchase order", err)
	}
	lines, err := r.linesFor(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[o.ID]
	return o, nil
}

func (r *PurchaseOrderRepo) linesFor(ctx context.Context, ids []string) (map[string][]entity.OrderLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+lineColumns+`
		FROM purchase_order_lines WHERE order_id = ANY($1)
		ORDER BY order_id, position`, ids)
	if err != nil {
		return nil, wrapErr("list purchase order lines", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.OrderLine, len(ids))
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.Position, &l.Quantity, &l.Description, &l.ProductCode, &l.UnitPrice, &l.Received); err != nil {
			return nil, wrapErr("scan purchase order line", err)
		}
		out[l.OrderID] = append(out[l.OrderID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list purchase order lines", err)
	}
	return out, nil
}

// AddReceived suma qty a la línea y devuelve el acumulado recibido.
func (r *PurchaseOrderRepo) AddReceived(ctx context.Context, lineID string, qty int64) (int64, error) {
	var received int64
	err := r.q.QueryRow(ctx,
		`UPDATE purchase_order_lines SET received = received + $2 WHERE id = $1 RETURNING received`,
		lineID, qty,
	).Scan(&received)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
		}
		return 0, wrapErr("add received", err)
	}
	return received, nil
}

// UpdateStatus persiste el estado de la orden.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE purchase_orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return wrapErr("update purchase order status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkStale pasa a inactiva las órdenes pendientes creadas antes de cutoff.
func (r *PurchaseOrderRepo) MarkStale(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET status = $1
		WHERE status = $2 AND created_at < $3`,
		entity.OrderStatusInactive, entity.OrderStatusPending, cutoff,
	)
	if err != nil {
		return 0, wrapErr("mark stale purchase orders", err)
	}
	return tag.RowsAffected(), nil
}

// List lista órdenes con sus líneas, más nuevas primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.PurchaseOrder, error) {
	var (
		conds []string
		args  []any
	)
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if filter.CreatedBefore != nil {
		args = append(args, *filter.CreatedBefore)
		conds = append(conds, fmt.Sprintf("created_at < $%d", len(args)))
	}
	query := `SELECT ` + orderColumns + ` FROM purchase_orders`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`
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
		return nil, wrapErr("list purchase orders", err)
	}
	var (
		out []*entity.PurchaseOrder
		ids []string
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, wrapErr("scan purchase order", err)
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list purchase orders", err)
	}
	if len(ids) == 0 {
		return out, nil
	}

	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range out {
		o.Lines = lines[o.ID]
	}
	return out, nil
}
