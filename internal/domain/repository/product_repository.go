package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	Search string // código o nombre (ILIKE)
	Limit  int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID/GetByCode devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// AdjustStock suma delta al stock de forma atómica y devuelve el stock resultante.
	AdjustStock(ctx context.Context, id string, delta int64) (int64, error)
	UpdatePurchasePrice(ctx context.Context, id string, price decimal.Decimal) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	ListBelowMinimum(ctx context.Context) ([]*entity.Product, error)
}
