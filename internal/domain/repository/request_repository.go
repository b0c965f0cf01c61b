package repository

import (
	"context"
	"time"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// RequestFilter filtros de listado de solicitudes.
type RequestFilter struct {
	Status        entity.RequestStatus
	CreatedBefore *time.Time
	Limit         int
	Offset        int
}

// RequestRepository puerto de persistencia para solicitudes de materiales.
type RequestRepository interface {
	// Create inserta cabecera y líneas. Número duplicado → domain.ErrDuplicate.
	Create(ctx context.Context, req *entity.Request) error
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Request, error)
	UpdateStatus(ctx context.Context, id string, status entity.RequestStatus, at time.Time) error
	List(ctx context.Context, filter RequestFilter) ([]*entity.Request, error)
}
