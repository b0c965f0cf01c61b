package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de bodega.
// Stock se mueve solo vía movimientos (entradas/salidas), nunca por Update.
type Product struct {
	ID              string
	Code            string // código único
	Name            string
	Description     string
	Category        string
	Type            string
	PurchasePrice   decimal.Decimal // precio de compra unitario
	Stock           int64
	MinStock        int64
	Consignment     bool
	ConsignmentName string
	Location        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TotalValue devuelve stock * precio de compra.
func (p *Product) TotalValue() decimal.Decimal {
	return p.PurchasePrice.Mul(decimal.NewFromInt(p.Stock))
}

// BelowMinimum indica si el stock actual está bajo el mínimo configurado.
func (p *Product) BelowMinimum() bool {
	return p.Stock < p.MinStock
}
