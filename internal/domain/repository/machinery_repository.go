package repository

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// MachineryRepository puerto de persistencia para equipos.
type MachineryRepository interface {
	Create(ctx context.Context, m *entity.Machinery) error
	GetByID(ctx context.Context, id string) (*entity.Machinery, error)
	// List ordenado por número de equipo.
	List(ctx context.Context) ([]*entity.Machinery, error)
}
