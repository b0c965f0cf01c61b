package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicia en 0.
type CreateProductRequest struct {
	Code            string          `json:"code" validate:"required,min=1,max=20"`
	Name            string          `json:"name" validate:"required,min=1,max=100"`
	Description     string          `json:"description"`
	Category        string          `json:"category" validate:"required,max=50"`
	Type            string          `json:"type" validate:"max=50"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	MinStock        int64           `json:"min_stock" validate:"min=0"`
	Consignment     bool            `json:"consignment"`
	ConsignmentName string          `json:"consignment_name" validate:"max=100"`
	Location        string          `json:"location" validate:"required,max=100"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock).
type UpdateProductRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description     *string          `json:"description"`
	Category        *string          `json:"category" validate:"omitempty,max=50"`
	Type            *string          `json:"type" validate:"omitempty,max=50"`
	PurchasePrice   *decimal.Decimal `json:"purchase_price"`
	MinStock        *int64           `json:"min_stock" validate:"omitempty,min=0"`
	Consignment     *bool            `json:"consignment"`
	ConsignmentName *string          `json:"consignment_name" validate:"omitempty,max=100"`
	Location        *string          `json:"location" validate:"omitempty,max=100"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Type            string          `json:"type"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	Stock           int64           `json:"stock"`
	MinStock        int64           `json:"min_stock"`
	Consignment     bool            `json:"consignment"`
	ConsignmentName string          `json:"consignment_name,omitempty"`
	Location        string          `json:"location"`
	TotalValue      decimal.Decimal `json:"total_value"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
