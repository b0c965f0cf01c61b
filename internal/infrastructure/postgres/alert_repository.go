package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas sobre PostgreSQL.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador.
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `id, type, message, status, origin_id, resolution_comment, resolved_by, created_at, resolved_at`

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	if err := row.Scan(
		&a.ID, &a.Type, &a.Message, &a.Status, &a.OriginID, &a.ResolutionComment, &a.ResolvedBy, &a.CreatedAt, &a.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste una alerta. Una segunda alerta pendiente para el mismo tipo y origen
// viola el índice único parcial → domain.ErrDuplicate.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO alerts (`+alertColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.Type, a.Message, a.Status, a.OriginID, a.ResolutionComment, a.ResolvedBy, a.CreatedAt, a.ResolvedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert alert", err)
	}
	return nil
}

// GetByID obtiene una alerta.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get alert", err)
	}
	return a, nil
}

// ExistsPending indica si hay una alerta pendiente del tipo para el origen.
func (r *AlertRepo) ExistsPending(ctx context.Context, alertType, originID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM alerts WHERE type = $1 AND origin_id = $2 AND status = $3
		)`, alertType, originID, entity.AlertStatusPending,
	).Scan(&exists)
	if err != nil {
		return false, wrapErr("exists pending alert", err)
	}
	return exists, nil
}

// Resolve cierra la alerta solo si sigue pendiente.
func (r *AlertRepo) Resolve(ctx context.Context, a *entity.Alert) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE alerts
		SET status = $2, resolution_comment = $3, resolved_by = $4, resolved_at = $5
		WHERE id = $1 AND status = $6`,
		a.ID, a.Status, a.ResolutionComment, a.ResolvedBy, a.ResolvedAt, entity.AlertStatusPending,
	)
	if err != nil {
		return wrapErr("resolve alert", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: alerta %s ya no está pendiente", domain.ErrInvalidState, a.ID)
	}
	return nil
}

// List lista alertas por fecha de creación, más nuevas primero.
func (r *AlertRepo) List(ctx context.Context, filter repository.AlertFilter) ([]*entity.Alert, error) {
	var (
		conds []string
		args  []any
	)
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	query := `SELECT ` + alertColumns + ` FROM alerts`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list alerts", err)
	}
	defer rows.Close()
	var out []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, wrapErr("scan alert", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list alerts", err)
	}
	return out, nil
}
