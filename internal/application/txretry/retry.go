// Package txretry reintenta transacciones que fallan por conflictos de concurrencia.
package txretry

import (
	"context"
	"errors"

	"github.com/jhoicas/bodega-api/internal/domain"
)

// DefaultAttempts intentos totales antes de devolver domain.ErrConcurrentUpdate al llamador.
const DefaultAttempts = 3

// Do ejecuta fn hasta attempts veces mientras falle con domain.ErrConcurrentUpdate.
// Cualquier otro error se devuelve sin reintentar. fn debe re-leer todo su estado en cada intento.
func Do(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !errors.Is(err, domain.ErrConcurrentUpdate) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}
