package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.MachineryRepository = (*MachineryRepo)(nil)

// MachineryRepo equipos sobre PostgreSQL.
type MachineryRepo struct {
	q Querier
}

// NewMachineryRepository construye el adaptador.
func NewMachineryRepository(q Querier) *MachineryRepo {
	return &MachineryRepo{q: q}
}

// Create persiste un equipo. Número repetido → domain.ErrDuplicate.
func (r *MachineryRepo) Create(ctx context.Context, m *entity.Machinery) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO machinery (id, number, type, plate) VALUES ($1, $2, $3, $4)`,
		m.ID, m.Number, m.Type, m.Plate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: equipo %s", domain.ErrDuplicate, m.Number)
		}
		return wrapErr("insert machinery", err)
	}
	return nil
}

// GetByID obtiene un equipo.
func (r *MachineryRepo) GetByID(ctx context.Context, id string) (*entity.Machinery, error) {
	var m entity.Machinery
	err := r.q.QueryRow(ctx,
		`SELECT id, number, type, plate FROM machinery WHERE id = $1`, id,
	).Scan(&m.ID, &m.Number, &m.Type, &m.Plate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get machinery", err)
	}
	return &m, nil
}

// List lista equipos por número.
func (r *MachineryRepo) List(ctx context.Context) ([]*entity.Machinery, error) {
	rows, err := r.q.Query(ctx, `SELECT id, number, type, plate FROM machinery ORDER BY number`)
	if err != nil {
		return nil, wrapErr("list machinery", err)
	}
	defer rows.Close()
	var out []*entity.Machinery
	for rows.Next() {
		var m entity.Machinery
		if err := rows.Scan(&m.ID, &m.Number, &m.Type, &m.Plate); err != nil {
			return nil, wrapErr("scan machinery", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
