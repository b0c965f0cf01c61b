package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptItemRequest una entrada de bodega.
// OrderID opcional: si viene, la entrada se concilia contra las líneas de la OC.
type ReceiptItemRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	Quantity    int64           `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	OrderID     string          `json:"order_id,omitempty"`
	UpdatePrice bool            `json:"update_price"`
	Reason      string          `json:"reason,omitempty" validate:"omitempty,oneof=compra devolucion recepcion_oc"`
	Comment     string          `json:"comment,omitempty"`
}

// RegisterReceiptsRequest body para POST /api/movements/receipts.
type RegisterReceiptsRequest struct {
	Items []ReceiptItemRequest `json:"items" validate:"required,min=1,dive"`
}

// IssueItemRequest una salida de bodega.
type IssueItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity"`
	Charge    string `json:"charge" validate:"required,oneof=maquinaria taller bodega gerencia insumos otros"`
}

// RegisterIssuesRequest body para POST /api/movements/issues. Comment aplica a todos los ítems.
type RegisterIssuesRequest struct {
	Items   []IssueItemRequest `json:"items" validate:"required,min=1,dive"`
	Comment string             `json:"comment"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Total      decimal.Decimal `json:"total"`
	Reason     string          `json:"reason,omitempty"`
	Charge     string          `json:"charge,omitempty"`
	OrderID    string          `json:"order_id,omitempty"`
	Comment    string          `json:"comment,omitempty"`
	CreatedBy  string          `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
	StockAfter *int64          `json:"stock_after,omitempty"`
}
