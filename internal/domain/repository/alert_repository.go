package repository

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// AlertFilter filtros de listado de alertas.
type AlertFilter struct {
	From *time.Time
	To   *time.Time
}

// AlertRepository puerto de persistencia para alertas.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	// ExistsPending indica si ya hay una alerta pendiente del mismo tipo para el origen.
	ExistsPending(ctx context.Context, alertType, originID string) (bool, error)
	Resolve(ctx context.Context, alert *entity.Alert) error
	List(ctx context.Context, filter AlertFilter) ([]*entity.Alert, error)
}
