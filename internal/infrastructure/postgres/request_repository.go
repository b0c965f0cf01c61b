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

var _ repository.RequestRepository = (*RequestRepo)(nil)

// RequestRepo solicitudes de materiales sobre PostgreSQL.
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

const requestColumns = `id, number, folio, quote_number, requester_name, warehouse_stock, created_by,
	status, comment, created_at, updated_at`

func scanRequest(row pgx.Row) (*entity.Request, error) {
	var r entity.Request
	err := row.Scan(
		&r.ID, &r.Number, &r.Folio, &r.QuoteNumber, &r.RequesterName, &r.WarehouseStock, &r.CreatedBy,
		&r.Status, &r.Comment, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserta cabecera y líneas. Número repetido → domain.ErrDuplicate.
func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO requests (`+requestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		req.ID, req.Number, req.Folio, req.QuoteNumber, req.RequesterName, req.WarehouseStock, req.CreatedBy,
		req.Status, req.Comment, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: solicitud %s", domain.ErrDuplicate, req.Number)
		}
		return wrapErr("insert request", err)
	}
	for _, l := range req.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO request_lines (id, request_id, product, quantity, reason, warehouse_stock)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, req.ID, l.Product, l.Quantity, l.Reason, l.WarehouseStock,
		)
		if err != nil {
			return wrapErr("insert request line", err)
		}
	}
	return nil
}

// GetByID obtiene la solicitud con sus líneas.
func (r *RequestRepo) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	return r.getWithLines(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id)
}

// GetForUpdate obtiene la solicitud bloqueando la fila.
func (r *RequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.Request, error) {
	return r.getWithLines(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *RequestRepo) getWithLines(ctx context.Context, query, id string) (*entity.Request, error) {
	req, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get request", err)
	}
	lines, err := r.linesFor(ctx, []string{req.ID})
	if err != nil {
		return nil, err
	}
	req.Lines = lines[req.ID]
	return req, nil
}

func (r *RequestRepo) linesFor(ctx context.Context, ids []string) (map[string][]entity.RequestLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, request_id, product, quantity, reason, warehouse_stock
		FROM request_lines WHERE request_id = ANY($1)
		ORDER BY request_id, seq`, ids)
	if err != nil {
		return nil, wrapErr("list request lines", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.RequestLine, len(ids))
	for rows.Next() {
		var l entity.RequestLine
		if err := rows.Scan(&l.ID, &l.RequestID, &l.Product, &l.Quantity, &l.Reason, &l.WarehouseStock); err != nil {
			return nil, wrapErr("scan request line", err)
		}
		out[l.RequestID] = append(out[l.RequestID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list request lines", err)
	}
	return out, nil
}

// UpdateStatus persiste el estado de la solicitud.
func (r *RequestRepo) UpdateStatus(ctx context.Context, id string, status entity.RequestStatus, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE requests SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return wrapErr("update request status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista solicitudes con sus líneas, más nuevas primero.
func (r *RequestRepo) List(ctx context.Context, filter repository.RequestFilter) ([]*entity.Request, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CreatedBefore != nil {
		args = append(args, *filter.CreatedBefore)
		conds = append(conds, fmt.Sprintf("created_at < $%d", len(args)))
	}
	query := `SELECT ` + requestColumns + ` FROM requests`
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
		return nil, wrapErr("list requests", err)
	}
	var (
		out []*entity.Request
		ids []string
	)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			rows.Close()
			return nil, wrapErr("scan request", err)
		}
		out = append(out, req)
		ids = append(ids, req.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list requests", err)
	}
	if len(ids) == 0 {
		return out, nil
	}
	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, req := range out {
		req.Lines = lines[req.ID]
	}
	return out, nil
}
