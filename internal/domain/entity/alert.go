package entity

import "time"

// Tipos de alerta.
const (
	AlertTypeHighValueIssue = "salida_alta"
	AlertTypeStaleOrder     = "orden_no_actualizada"
	AlertTypeStaleRequest   = "solicitud_no_actualizada"
	AlertTypeLowStock       = "stock_bajo"
)

// AlertStatus estado de una alerta.
type AlertStatus string

const (
	AlertStatusPending  AlertStatus = "pendiente"
	AlertStatusResolved AlertStatus = "resuelta"
	AlertStatusRejected AlertStatus = "rechazada"
)

// Alert alerta operacional ligada opcionalmente a un objeto origen (orden, solicitud, producto).
type Alert struct {
	ID                string
	Type              string
	Message           string
	Status            AlertStatus
	OriginID          string
	ResolutionComment string
	ResolvedBy        string
	CreatedAt         time.Time
	ResolvedAt        *time.Time
}
