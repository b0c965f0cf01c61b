package entity

import "time"

// RequestStatus estado de una solicitud de materiales.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pendiente"
	RequestStatusApproved RequestStatus = "aprobada"
	RequestStatusRejected RequestStatus = "rechazada"
)

// Request solicitud de compra de materiales e insumos.
type Request struct {
	ID             string
	Number         string
	Folio          string
	QuoteNumber    string
	RequesterName  string
	WarehouseStock string
	CreatedBy      string
	Status         RequestStatus
	Comment        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Lines          []RequestLine
}

// RequestLine línea de una solicitud; Product es texto libre.
type RequestLine struct {
	ID             string
	RequestID      string
	Product        string
	Quantity       int64
	Reason         string
	WarehouseStock int64
}
