package purchasing

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repositorios de numeración,
// órdenes y solicitudes ligados a la misma tx.
type TxRunner interface {
	RunPurchasing(ctx context.Context, fn func(
		seqRepo repository.SequenceRepository,
		orderRepo repository.PurchaseOrderRepository,
		requestRepo repository.RequestRepository,
	) error) error
}
