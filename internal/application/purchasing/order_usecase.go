package purchasing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/txretry"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	rules "github.com/jhoicas/bodega-api/internal/domain/purchasing"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// OrderUseCase casos de uso de órdenes de compra y su máquina de estados.
type OrderUseCase struct {
	txRunner   TxRunner
	orders     repository.PurchaseOrderRepository
	suppliers  repository.SupplierRepository
	allocator  *SequenceAllocator
	log        zerolog.Logger
	now        func() time.Time
	staleAfter time.Duration
	attempts   int
}

// NewOrderUseCase construye el caso de uso. staleAfter <= 0 usa rules.DefaultStaleAfter.
func NewOrderUseCase(
	txRunner TxRunner,
	orders repository.PurchaseOrderRepository,
	suppliers repository.SupplierRepository,
	allocator *SequenceAllocator,
	staleAfter time.Duration,
	log zerolog.Logger,
) *OrderUseCase {
	if staleAfter <= 0 {
		staleAfter = rules.DefaultStaleAfter
	}
	return &OrderUseCase{
		txRunner:   txRunner,
		orders:     orders,
		suppliers:  suppliers,
		allocator:  allocator,
		log:        log.With().Str("component", "orders").Logger(),
		now:        time.Now,
		staleAfter: staleAfter,
		attempts:   txretry.DefaultAttempts,
	}
}

// SetClock reemplaza el reloj (tests).
func (uc *OrderUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Create registra una OC numerada con el correlativo de la empresa, en estado pendiente.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if !uc.allocator.Partitions().IsOrderPartition(in.Company) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPartition, in.Company)
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if !l.UnitPrice.IsPositive() {
			return nil, fmt.Errorf("%w: precio unitario debe ser mayor a cero", domain.ErrInvalidInput)
		}
	}
	supplier, err := uc.suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
	}

	var order *entity.PurchaseOrder
	err = txretry.Do(ctx, uc.attempts, func() error {
		order = newOrder(in, uc.now())
		return uc.txRunner.RunPurchasing(ctx, func(
			seqRepo repository.SequenceRepository,
			orderRepo repository.PurchaseOrderRepository,
			_ repository.RequestRepository,
		) error {
			number, err := uc.allocator.Allocate(ctx, seqRepo, in.Company)
			if err != nil {
				return err
			}
			order.Number = number
			if err := orderRepo.Create(ctx, order); err != nil {
				// El número asignado ya existe: otra transacción ganó la carrera.
				if errors.Is(err, domain.ErrDuplicate) {
					return fmt.Errorf("%w: oc %s", domain.ErrConcurrentUpdate, number)
				}
				return err
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company", order.Company).Str("number", order.Number).Msg("orden de compra creada")
	return ToOrderResponse(order), nil
}

func newOrder(in dto.CreateOrderRequest, now time.Time) *entity.PurchaseOrder {
	id := uuid.New().String()
	o := &entity.PurchaseOrder{
		ID:           id,
		QuoteNumber:  in.QuoteNumber,
		DeliverTo:    in.DeliverTo,
		Company:      in.Company,
		SupplierID:   in.SupplierID,
		Charge:       in.Charge,
		PaymentTerms: in.PaymentTerms,
		DeliveryTerm: in.DeliveryTerm,
		Comments:     in.Comments,
		Status:       entity.OrderStatusPending,
		CreatedAt:    now,
		Lines:        make([]entity.OrderLine, 0, len(in.Lines)),
	}
	for i, l := range in.Lines {
		o.Lines = append(o.Lines, entity.OrderLine{
			ID:          uuid.New().String(),
			OrderID:     id,
			Position:    i + 1,
			Quantity:    l.Quantity,
			Description: l.Description,
			ProductCode: l.ProductCode,
			UnitPrice:   l.UnitPrice,
		})
	}
	return o
}

// Get devuelve la orden con sus líneas y pendientes por línea.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
	}
	return ToOrderResponse(o), nil
}

// List revisa primero las órdenes inactivas y luego lista de la más nueva a la más antigua.
func (uc *OrderUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.OrderResponse, error) {
	if _, err := uc.SweepStale(ctx, uc.now()); err != nil {
		return nil, err
	}
	page.DefaultPage()
	return uc.list(ctx, repository.OrderFilter{Limit: page.Limit, Offset: page.Offset})
}

// ListPending lista las órdenes pendientes o con ítems pendientes.
func (uc *OrderUseCase) ListPending(ctx context.Context, page dto.PageRequest) ([]dto.OrderResponse, error) {
	page.DefaultPage()
	return uc.list(ctx, repository.OrderFilter{
		Statuses: []entity.OrderStatus{entity.OrderStatusPending, entity.OrderStatusPartial},
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
}

func (uc *OrderUseCase) list(ctx context.Context, filter repository.OrderFilter) ([]dto.OrderResponse, error) {
	list, err := uc.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *ToOrderResponse(o))
	}
	return out, nil
}

// RecomputeStatus recalcula el estado a partir de las cantidades recibidas.
// Una orden inactiva conserva su estado.
func (uc *OrderUseCase) RecomputeStatus(ctx context.Context, id string) (entity.OrderStatus, error) {
	var status entity.OrderStatus
	err := txretry.Do(ctx, uc.attempts, func() error {
		return uc.txRunner.RunPurchasing(ctx, func(
			_ repository.SequenceRepository,
			orderRepo repository.PurchaseOrderRepository,
			_ repository.RequestRepository,
		) error {
			o, err := orderRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if o == nil {
				return fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
			}
			status = rules.Recompute(o.Status, o.Lines)
			if status == o.Status {
				return nil
			}
			if err := orderRepo.UpdateStatus(ctx, o.ID, status); err != nil {
				return err
			}
			uc.log.Info().
				Str("order", o.Number).
				Str("from", string(o.Status)).
				Str("to", string(status)).
				Msg("estado de OC actualizado")
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// SweepStale pasa a inactiva toda orden pendiente creada antes de asOf - staleAfter.
func (uc *OrderUseCase) SweepStale(ctx context.Context, asOf time.Time) (int64, error) {
	n, err := uc.orders.MarkStale(ctx, rules.StaleCutoff(asOf, uc.staleAfter))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.log.Info().Int64("orders", n).Time("as_of", asOf).Msg("órdenes marcadas inactivas")
	}
	return n, nil
}

// ToOrderResponse mapea la entidad al DTO de salida.
func ToOrderResponse(o *entity.PurchaseOrder) *dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ID:          l.ID,
			Quantity:    l.Quantity,
			Description: l.Description,
			ProductCode: l.ProductCode,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total(),
			Received:    l.Received,
			Pending:     l.Pending(),
		})
	}
	return &dto.OrderResponse{
		ID:           o.ID,
		Number:       o.Number,
		QuoteNumber:  o.QuoteNumber,
		DeliverTo:    o.DeliverTo,
		Company:      o.Company,
		SupplierID:   o.SupplierID,
		Charge:       o.Charge,
		PaymentTerms: o.PaymentTerms,
		DeliveryTerm: o.DeliveryTerm,
		Comments:     o.Comments,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		NetTotal:     o.NetTotal(),
		VAT:          o.VAT(),
		Total:        o.GrandTotal(),
		Lines:        lines,
	}
}
