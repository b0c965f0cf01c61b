// Package alerts revisa órdenes, solicitudes y stock en busca de situaciones que requieren atención.
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// Plazos por defecto de las revisiones.
const (
	DefaultOrderAfter   = 10 * 24 * time.Hour
	DefaultRequestAfter = 5 * 24 * time.Hour
)

// Config plazos de revisión. Valores <= 0 usan los por defecto.
type Config struct {
	OrderAfter   time.Duration
	RequestAfter time.Duration
}

// UseCase revisiones y resolución de alertas.
type UseCase struct {
	alerts   repository.AlertRepository
	orders   repository.PurchaseOrderRepository
	requests repository.RequestRepository
	products repository.ProductRepository
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	alerts repository.AlertRepository,
	orders repository.PurchaseOrderRepository,
	requests repository.RequestRepository,
	products repository.ProductRepository,
	cfg Config,
	log zerolog.Logger,
) *UseCase {
	if cfg.OrderAfter <= 0 {
		cfg.OrderAfter = DefaultOrderAfter
	}
	if cfg.RequestAfter <= 0 {
		cfg.RequestAfter = DefaultRequestAfter
	}
	return &UseCase{
		alerts:   alerts,
		orders:   orders,
		requests: requests,
		products: products,
		cfg:      cfg,
		log:      log.With().Str("component", "alerts").Logger(),
		now:      time.Now,
	}
}

// SetClock reemplaza el reloj (tests).
func (uc *UseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Scan ejecuta las tres revisiones y devuelve cuántas alertas nuevas creó cada una.
func (uc *UseCase) Scan(ctx context.Context) (*dto.AlertScanResponse, error) {
	orders, err := uc.ScanStaleOrders(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := uc.ScanStaleRequests(ctx)
	if err != nil {
		return nil, err
	}
	low, err := uc.ScanLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AlertScanResponse{StaleOrders: orders, StaleRequests: requests, LowStock: low}, nil
}

// ScanStaleOrders alerta las OC pendientes o con ítems pendientes más antiguas que OrderAfter.
func (uc *UseCase) ScanStaleOrders(ctx context.Context) (int, error) {
	limit := uc.now().Add(-uc.cfg.OrderAfter)
	list, err := uc.orders.List(ctx, repository.OrderFilter{
		Statuses:      []entity.OrderStatus{entity.OrderStatusPending, entity.OrderStatusPartial},
		CreatedBefore: &limit,
	})
	if err != nil {
		return 0, err
	}
	days := int(uc.cfg.OrderAfter.Hours() / 24)
	created := 0
	for _, o := range list {
		msg := fmt.Sprintf("La OC %s no ha cambiado a 'completa' en %d días.", o.Number, days)
		ok, err := uc.raise(ctx, entity.AlertTypeStaleOrder, o.ID, msg)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// ScanStaleRequests alerta las solicitudes pendientes más antiguas que RequestAfter.
func (uc *UseCase) ScanStaleRequests(ctx context.Context) (int, error) {
	limit := uc.now().Add(-uc.cfg.RequestAfter)
	list, err := uc.requests.List(ctx, repository.RequestFilter{
		Status:        entity.RequestStatusPending,
		CreatedBefore: &limit,
	})
	if err != nil {
		return 0, err
	}
	days := int(uc.cfg.RequestAfter.Hours() / 24)
	created := 0
	for _, r := range list {
		msg := fmt.Sprintf("La solicitud %s no ha cambiado de estado en %d días.", r.Number, days)
		ok, err := uc.raise(ctx, entity.AlertTypeStaleRequest, r.ID, msg)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// ScanLowStock alerta los productos con stock bajo el mínimo.
func (uc *UseCase) ScanLowStock(ctx context.Context) (int, error) {
	list, err := uc.products.ListBelowMinimum(ctx)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, p := range list {
		msg := fmt.Sprintf("El producto %s (código %s) tiene stock bajo.", p.Name, p.Code)
		ok, err := uc.raise(ctx, entity.AlertTypeLowStock, p.ID, msg)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// raise crea la alerta salvo que ya exista una pendiente del mismo tipo para el origen.
func (uc *UseCase) raise(ctx context.Context, alertType, originID, msg string) (bool, error) {
	exists, err := uc.alerts.ExistsPending(ctx, alertType, originID)
	if err != nil || exists {
		return false, err
	}
	a := &entity.Alert{
		ID:        uuid.New().String(),
		Type:      alertType,
		Message:   msg,
		Status:    entity.AlertStatusPending,
		OriginID:  originID,
		CreatedAt: uc.now(),
	}
	if err := uc.alerts.Create(ctx, a); err != nil {
		return false, err
	}
	uc.log.Info().Str("type", alertType).Str("origin", originID).Msg("alerta creada")
	return true, nil
}

// Resolve cierra una alerta pendiente como resuelta o rechazada.
func (uc *UseCase) Resolve(ctx context.Context, id, userID string, in dto.ResolveAlertRequest) (*dto.AlertResponse, error) {
	status := entity.AlertStatus(in.Status)
	if status != entity.AlertStatusResolved && status != entity.AlertStatusRejected {
		return nil, domain.ErrInvalidInput
	}
	a, err := uc.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: alerta %s", domain.ErrNotFound, id)
	}
	if a.Status != entity.AlertStatusPending {
		return nil, fmt.Errorf("%w: alerta %s", domain.ErrInvalidState, a.Status)
	}
	now := uc.now()
	a.Status = status
	a.ResolutionComment = in.Comment
	a.ResolvedBy = userID
	a.ResolvedAt = &now
	if err := uc.alerts.Resolve(ctx, a); err != nil {
		return nil, err
	}
	return ToAlertResponse(a), nil
}

// List lista alertas, más nuevas primero, filtradas por fecha de creación.
func (uc *UseCase) List(ctx context.Context, from, to *time.Time) ([]dto.AlertResponse, error) {
	list, err := uc.alerts.List(ctx, repository.AlertFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *ToAlertResponse(a))
	}
	return out, nil
}

// ToAlertResponse mapea la entidad al DTO de salida.
func ToAlertResponse(a *entity.Alert) *dto.AlertResponse {
	return &dto.AlertResponse{
		ID:                a.ID,
		Type:              a.Type,
		Message:           a.Message,
		Status:            string(a.Status),
		OriginID:          a.OriginID,
		ResolutionComment: a.ResolutionComment,
		ResolvedBy:        a.ResolvedBy,
		CreatedAt:         a.CreatedAt,
		ResolvedAt:        a.ResolvedAt,
	}
}
