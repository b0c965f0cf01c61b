package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor a cero")
	ErrInvalidPartition  = errors.New("partición de numeración desconocida")
	ErrInvalidState      = errors.New("transición de estado no permitida")
	ErrConcurrentUpdate  = errors.New("conflicto de actualización concurrente")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)
