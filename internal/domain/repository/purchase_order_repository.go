package repository

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// OrderFilter filtros de listado de órdenes de compra.
type OrderFilter struct {
	Statuses      []entity.OrderStatus
	CreatedBefore *time.Time
	Limit         int
	Offset        int
}

// PurchaseOrderRepository puerto de persistencia para órdenes de compra y sus líneas.
// GetByID/GetForUpdate devuelven (nil, nil) si no existe.
type PurchaseOrderRepository interface {
	// Create inserta cabecera y líneas. Número duplicado → domain.ErrDuplicate.
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la cabecera de la orden y devuelve sus líneas actuales.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// AddReceived suma qty a la cantidad recibida de la línea y devuelve el nuevo acumulado.
	AddReceived(ctx context.Context, lineID string, qty int64) (int64, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error
	// MarkStale pasa a inactiva las órdenes pendientes creadas antes de cutoff.
	MarkStale(ctx context.Context, cutoff time.Time) (int64, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.PurchaseOrder, error)
}
