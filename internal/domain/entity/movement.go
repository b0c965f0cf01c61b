package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento.
const (
	MovementKindReceipt = "entrada"
	MovementKindIssue   = "salida"
)

// Motivos de entrada.
const (
	ReceiptReasonPurchase = "compra"
	ReceiptReasonReturn   = "devolucion"
	ReceiptReasonOrder    = "recepcion_oc"
)

// Cargos de salida.
const (
	IssueChargeMachinery  = "maquinaria"
	IssueChargeWorkshop   = "taller"
	IssueChargeWarehouse  = "bodega"
	IssueChargeManagement = "gerencia"
	IssueChargeSupplies   = "insumos"
	IssueChargeOther      = "otros"
)

// ValidReceiptReason indica si r es un motivo de entrada conocido.
func ValidReceiptReason(r string) bool {
	switch r {
	case ReceiptReasonPurchase, ReceiptReasonReturn, ReceiptReasonOrder:
		return true
	}
	return false
}

// ValidIssueCharge indica si c es un cargo de salida conocido.
func ValidIssueCharge(c string) bool {
	switch c {
	case IssueChargeMachinery, IssueChargeWorkshop, IssueChargeWarehouse,
		IssueChargeManagement, IssueChargeSupplies, IssueChargeOther:
		return true
	}
	return false
}

// Movement registro de una entrada o salida de bodega.
// OrderID solo aplica a entradas ligadas a una orden de compra.
type Movement struct {
	ID        string
	Kind      string
	ProductID string
	Quantity  int64 // siempre positiva; Kind define el sentido
	UnitCost  decimal.Decimal
	Reason    string // entradas
	Charge    string // salidas
	OrderID   string
	Comment   string
	CreatedBy string
	CreatedAt time.Time

	// Resultado observable de la operación (no persistido en movements).
	StockAfter int64
}

// Total cantidad * costo unitario.
func (m *Movement) Total() decimal.Decimal {
	return m.UnitCost.Mul(decimal.NewFromInt(m.Quantity))
}
