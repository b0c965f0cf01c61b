// Package purchasing orquesta órdenes de compra, solicitudes y la numeración correlativa.
package purchasing

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jhoicas/bodega-api/internal/application/txretry"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
	rules "github.com/jhoicas/bodega-api/internal/domain/purchasing"
)

// SequenceAllocator entrega números correlativos por partición.
// La fila de la partición queda bloqueada hasta que termina la transacción que la usa,
// de modo que dos asignaciones concurrentes nunca devuelven el mismo número.
type SequenceAllocator struct {
	txRunner   TxRunner
	partitions rules.Partitions
	log        zerolog.Logger
	attempts   int
}

// NewSequenceAllocator construye el asignador. Con partitions nil usa rules.DefaultPartitions().
func NewSequenceAllocator(txRunner TxRunner, partitions rules.Partitions, log zerolog.Logger) *SequenceAllocator {
	if partitions == nil {
		partitions = rules.DefaultPartitions()
	}
	return &SequenceAllocator{
		txRunner:   txRunner,
		partitions: partitions,
		log:        log.With().Str("component", "sequence").Logger(),
		attempts:   txretry.DefaultAttempts,
	}
}

// Partitions particiones registradas.
func (a *SequenceAllocator) Partitions() rules.Partitions {
	return a.partitions
}

// Allocate asigna el siguiente número usando la transacción abierta de seqRepo.
// El número solo queda consumido si la transacción hace commit.
func (a *SequenceAllocator) Allocate(ctx context.Context, seqRepo repository.SequenceRepository, partition string) (string, error) {
	p, err := a.partitions.Lookup(partition)
	if err != nil {
		return "", err
	}
	last, found, err := seqRepo.Lock(ctx, p.Key)
	if err != nil {
		return "", err
	}
	next := strconv.FormatInt(p.Next(last, found), 10)
	if err := seqRepo.Advance(ctx, p.Key, next); err != nil {
		return "", err
	}
	a.log.Debug().Str("partition", p.Key).Str("last", last).Str("next", next).Msg("número asignado")
	return next, nil
}

// AllocateIdentifier asigna un número en su propia transacción, reintentando conflictos.
func (a *SequenceAllocator) AllocateIdentifier(ctx context.Context, partition string) (string, error) {
	if _, err := a.partitions.Lookup(partition); err != nil {
		return "", err
	}
	var id string
	err := txretry.Do(ctx, a.attempts, func() error {
		return a.txRunner.RunPurchasing(ctx, func(
			seqRepo repository.SequenceRepository,
			_ repository.PurchaseOrderRepository,
			_ repository.RequestRepository,
		) error {
			var err error
			id, err = a.Allocate(ctx, seqRepo, partition)
			return err
		})
	})
	if err != nil {
		return "", err
	}
	return id, nil
}
