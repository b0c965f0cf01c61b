package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de una orden de compra.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pendiente"
	OrderStatusPartial  OrderStatus = "items pendientes"
	OrderStatusComplete OrderStatus = "completa"
	OrderStatusInactive OrderStatus = "inactiva"
)

// VATRate IVA aplicado al total neto de la orden.
var VATRate = decimal.RequireFromString("0.19")

// PurchaseOrder orden de compra emitida por una empresa a un proveedor.
// Number es correlativo por empresa (ver purchasing.Partition).
type PurchaseOrder struct {
	ID           string
	Number       string
	QuoteNumber  string
	DeliverTo    string // mercadería puesta en
	Company      string
	SupplierID   string
	Charge       string // cargo
	PaymentTerms string
	DeliveryTerm string
	Comments     string
	Status       OrderStatus
	CreatedAt    time.Time
	Lines        []OrderLine
}

// OrderLine línea de una orden de compra.
type OrderLine struct {
	ID          string
	OrderID     string
	Position    int
	Quantity    int64
	Description string // texto contra el que se comparan las recepciones
	ProductCode string
	UnitPrice   decimal.Decimal
	Received    int64
}

// Pending cantidad ordenada menos recibida. Puede ser negativa si hubo sobre-recepción.
func (l OrderLine) Pending() int64 {
	return l.Quantity - l.Received
}

// Total cantidad * precio unitario.
func (l OrderLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// NetTotal suma de los totales de línea.
func (o *PurchaseOrder) NetTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range o.Lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// VAT IVA sobre el total neto.
func (o *PurchaseOrder) VAT() decimal.Decimal {
	return o.NetTotal().Mul(VATRate)
}

// GrandTotal total neto más IVA.
func (o *PurchaseOrder) GrandTotal() decimal.Decimal {
	return o.NetTotal().Add(o.VAT())
}
