package repository

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// MovementFilter filtros de listado de movimientos.
type MovementFilter struct {
	Kind            string // entrada | salida
	From            *time.Time
	To              *time.Time
	ConsignmentOnly bool
	Limit           int
	Offset          int
}

// MovementRepository puerto de persistencia para entradas y salidas.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
}
