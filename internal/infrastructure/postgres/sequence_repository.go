package postgres

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain"
	rules "github.com/jhoicas/bodega-api/internal/domain/purchasing"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador por partición en number_sequences. Usar siempre con una tx.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Lock crea la fila de la partición si no existe y la bloquea hasta el fin de la transacción.
// La fila nueva parte del mayor número numérico ya guardado en la partición (órdenes de la
// empresa, o solicitudes para rules.PartitionRequests), así una base con datos previos no
// repite números. found=false si la partición no tiene ningún número.
func (r *SequenceRepo) Lock(ctx context.Context, partition string) (string, bool, error) {
	if _, err := r.q.Exec(ctx, `
		INSERT INTO number_sequences (partition, last_value)
		SELECT $1::TEXT, MAX(n)::TEXT FROM (
			SELECT number::BIGINT AS n FROM purchase_orders
			WHERE company = $1::TEXT AND number ~ '^[0-9]{1,18}$'
			UNION ALL
			SELECT number::BIGINT FROM requests
			WHERE $1::TEXT = $2::TEXT AND number ~ '^[0-9]{1,18}$'
		) existing
		ON CONFLICT (partition) DO NOTHING`, partition, rules.PartitionRequests); err != nil {
		return "", false, wrapErr("init sequence", err)
	}
	var last *string
	err := r.q.QueryRow(ctx,
		`SELECT last_value FROM number_sequences WHERE partition = $1 FOR UPDATE`, partition,
	).Scan(&last)
	if err != nil {
		return "", false, wrapErr("lock sequence", err)
	}
	if last == nil || *last == "" {
		return "", false, nil
	}
	return *last, true, nil
}

// Advance registra value como último número asignado de la partición.
func (r *SequenceRepo) Advance(ctx context.Context, partition, value string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE number_sequences SET last_value = $2, updated_at = now() WHERE partition = $1`,
		partition, value,
	)
	if err != nil {
		return wrapErr("advance sequence", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
