package purchasing

import (
	"time"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// DefaultStaleAfter antigüedad a partir de la cual una OC pendiente pasa a inactiva.
const DefaultStaleAfter = 30 * 24 * time.Hour

// DeriveStatus calcula el estado de una orden a partir de sus líneas.
// Una orden sin líneas se considera completa.
func DeriveStatus(lines []entity.OrderLine) entity.OrderStatus {
	allZero, allComplete := true, true
	for _, l := range lines {
		if l.Received > 0 {
			allZero = false
		}
		if l.Received < l.Quantity {
			allComplete = false
		}
	}
	switch {
	case allComplete:
		return entity.OrderStatusComplete
	case allZero:
		return entity.OrderStatusPending
	default:
		return entity.OrderStatusPartial
	}
}

// Recompute aplica DeriveStatus salvo que la orden esté inactiva: ese estado no se revierte.
func Recompute(current entity.OrderStatus, lines []entity.OrderLine) entity.OrderStatus {
	if current == entity.OrderStatusInactive {
		return current
	}
	return DeriveStatus(lines)
}

// StaleCutoff fecha de creación bajo la cual una orden pendiente se considera inactiva.
func StaleCutoff(asOf time.Time, staleAfter time.Duration) time.Time {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return asOf.Add(-staleAfter)
}

// IsStale indica si la orden debe pasar a inactiva en la revisión de asOf.
func IsStale(o *entity.PurchaseOrder, asOf time.Time, staleAfter time.Duration) bool {
	return o.Status == entity.OrderStatusPending && o.CreatedAt.Before(StaleCutoff(asOf, staleAfter))
}
