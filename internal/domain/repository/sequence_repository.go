package repository

import "context"

// SequenceRepository contador explícito por partición de numeración.
// Debe usarse dentro de una transacción: Lock bloquea la fila de la partición hasta Commit/Rollback.
type SequenceRepository interface {
	// Lock devuelve el último valor asignado (found=false si la partición nunca asignó).
	Lock(ctx context.Context, partition string) (last string, found bool, err error)
	Advance(ctx context.Context, partition, value string) error
}
