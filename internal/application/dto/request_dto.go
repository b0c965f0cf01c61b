package dto

import "time"

// CreateRequestRequest body para POST /api/requests.
type CreateRequestRequest struct {
	Folio          string                     `json:"folio" validate:"max=20"`
	QuoteNumber    string                     `json:"quote_number" validate:"max=20"`
	RequesterName  string                     `json:"requester_name" validate:"required,max=100"`
	WarehouseStock string                     `json:"warehouse_stock" validate:"max=50"`
	Comment        string                     `json:"comment"`
	Lines          []CreateRequestLineRequest `json:"lines" validate:"dive"`
}

// CreateRequestLineRequest línea de solicitud (producto en texto libre).
type CreateRequestLineRequest struct {
	Product        string `json:"product" validate:"required,max=200"`
	Quantity       int64  `json:"quantity"`
	Reason         string `json:"reason" validate:"required,max=200"`
	WarehouseStock int64  `json:"warehouse_stock" validate:"min=0"`
}

// RequestLineResponse línea de solicitud.
type RequestLineResponse struct {
	ID             string `json:"id"`
	Product        string `json:"product"`
	Quantity       int64  `json:"quantity"`
	Reason         string `json:"reason"`
	WarehouseStock int64  `json:"warehouse_stock"`
}

// RequestResponse salida de una solicitud.
type RequestResponse struct {
	ID             string                `json:"id"`
	Number         string                `json:"number"`
	Folio          string                `json:"folio,omitempty"`
	QuoteNumber    string                `json:"quote_number,omitempty"`
	RequesterName  string                `json:"requester_name"`
	WarehouseStock string                `json:"warehouse_stock,omitempty"`
	CreatedBy      string                `json:"created_by"`
	Status         string                `json:"status"`
	Comment        string                `json:"comment,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Lines          []RequestLineResponse `json:"lines"`
}
