package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders. El número lo asigna el servidor.
type CreateOrderRequest struct {
	Company      string                   `json:"company" validate:"required"`
	SupplierID   string                   `json:"supplier_id" validate:"required"`
	QuoteNumber  string                   `json:"quote_number" validate:"max=20"`
	DeliverTo    string                   `json:"deliver_to" validate:"max=100"`
	Charge       string                   `json:"charge" validate:"required,max=50"`
	PaymentTerms string                   `json:"payment_terms" validate:"required,max=50"`
	DeliveryTerm string                   `json:"delivery_term" validate:"required,max=50"`
	Comments     string                   `json:"comments"`
	Lines        []CreateOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreateOrderLineRequest línea de la orden. Description se usa para conciliar recepciones.
type CreateOrderLineRequest struct {
	Quantity    int64           `json:"quantity"`
	Description string          `json:"description" validate:"required,max=200"`
	ProductCode string          `json:"product_code" validate:"max=50"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// OrderLineResponse línea con cantidades recibida y pendiente (con signo).
type OrderLineResponse struct {
	ID          string          `json:"id"`
	Quantity    int64           `json:"quantity"`
	Description string          `json:"description"`
	ProductCode string          `json:"product_code,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	Received    int64           `json:"received"`
	Pending     int64           `json:"pending"`
}

// OrderResponse salida de una orden de compra.
type OrderResponse struct {
	ID           string              `json:"id"`
	Number       string              `json:"number"`
	QuoteNumber  string              `json:"quote_number,omitempty"`
	DeliverTo    string              `json:"deliver_to,omitempty"`
	Company      string              `json:"company"`
	SupplierID   string              `json:"supplier_id"`
	Charge       string              `json:"charge"`
	PaymentTerms string              `json:"payment_terms"`
	DeliveryTerm string              `json:"delivery_term"`
	Comments     string              `json:"comments,omitempty"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	NetTotal     decimal.Decimal     `json:"net_total"`
	VAT          decimal.Decimal     `json:"vat"`
	Total        decimal.Decimal     `json:"total"`
	Lines        []OrderLineResponse `json:"lines"`
}

// OrderStatusResponse resultado de recalcular el estado de una orden.
type OrderStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// SweepResponse resultado de la revisión de órdenes inactivas.
type SweepResponse struct {
	AsOf    time.Time `json:"as_of"`
	Updated int64     `json:"updated"`
}

// IdentifierResponse número asignado por la secuencia de una partición.
type IdentifierResponse struct {
	Partition  string `json:"partition"`
	Identifier string `json:"identifier"`
}
