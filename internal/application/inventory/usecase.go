package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/application/txretry"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/purchasing"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// MovementUseCase registra entradas y salidas de bodega de forma transaccional.
// Las entradas ligadas a una OC concilian sus líneas y recalculan el estado de la orden
// dentro de la misma transacción (SELECT FOR UPDATE sobre producto y orden).
type MovementUseCase struct {
	txRunner           TxRunner
	movRepo            repository.MovementRepository
	log                zerolog.Logger
	now                func() time.Time
	allowNegativeStock bool
	attempts           int
}

// Option configura el caso de uso.
type Option func(*MovementUseCase)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *MovementUseCase) { uc.now = now }
}

// WithNegativeStock permite (true) o rechaza (false) salidas que dejen el stock bajo cero.
func WithNegativeStock(allow bool) Option {
	return func(uc *MovementUseCase) { uc.allowNegativeStock = allow }
}

// NewMovementUseCase construye el caso de uso. Por defecto se permiten salidas con stock negativo.
func NewMovementUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	log zerolog.Logger,
	opts ...Option,
) *MovementUseCase {
	uc := &MovementUseCase{
		txRunner:           txRunner,
		movRepo:            movRepo,
		log:                log.With().Str("component", "inventory").Logger(),
		now:                time.Now,
		allowNegativeStock: true,
		attempts:           txretry.DefaultAttempts,
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// ReceiptInput entrada de bodega (GoodsReceiptEvent).
type ReceiptInput struct {
	ProductID   string
	Quantity    int64
	UnitCost    decimal.Decimal
	OrderID     string // opcional
	UpdatePrice bool
	Reason      string // compra | devolucion | recepcion_oc
	Comment     string
	UserID      string
}

// IssueInput salida de bodega.
type IssueInput struct {
	ProductID string
	Quantity  int64
	Charge    string
	Comment   string
	UserID    string
}

func (in *ReceiptInput) validate() error {
	if in.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if in.ProductID == "" || in.UnitCost.IsNegative() {
		return domain.ErrInvalidInput
	}
	if in.Reason == "" {
		in.Reason = entity.ReceiptReasonPurchase
		if in.OrderID != "" {
			in.Reason = entity.ReceiptReasonOrder
		}
	}
	if !entity.ValidReceiptReason(in.Reason) {
		return domain.ErrInvalidInput
	}
	return nil
}

func (in *IssueInput) validate() error {
	if in.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if in.ProductID == "" || !entity.ValidIssueCharge(in.Charge) {
		return domain.ErrInvalidInput
	}
	return nil
}

// ApplyReceipt aplica una entrada: concilia la OC (si viene), suma stock y registra el movimiento.
func (uc *MovementUseCase) ApplyReceipt(ctx context.Context, in ReceiptInput) (*entity.Movement, error) {
	movs, err := uc.ApplyReceipts(ctx, []ReceiptInput{in})
	if err != nil {
		return nil, err
	}
	return movs[0], nil
}

// ApplyReceipts aplica varias entradas en una sola transacción (todo o nada).
// Toda validación ocurre antes de abrir la transacción.
func (uc *MovementUseCase) ApplyReceipts(ctx context.Context, inputs []ReceiptInput) ([]*entity.Movement, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for i := range inputs {
		if err := inputs[i].validate(); err != nil {
			return nil, err
		}
	}

	var out []*entity.Movement
	err := txretry.Do(ctx, uc.attempts, func() error {
		out = make([]*entity.Movement, 0, len(inputs))
		now := uc.now()
		return uc.txRunner.Run(ctx, func(
			movRepo repository.MovementRepository,
			productRepo repository.ProductRepository,
			orderRepo repository.PurchaseOrderRepository,
		) error {
			for _, in := range inputs {
				mov, err := uc.receive(ctx, movRepo, productRepo, orderRepo, in, now)
				if err != nil {
					return err
				}
				out = append(out, mov)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// receive: bloquea producto (y orden), concilia líneas, recalcula estado, suma stock, guarda movimiento.
func (uc *MovementUseCase) receive(
	ctx context.Context,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.PurchaseOrderRepository,
	in ReceiptInput,
	now time.Time,
) (*entity.Movement, error) {
	product, err := productRepo.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}

	if in.OrderID != "" {
		order, err := orderRepo.GetForUpdate(ctx, in.OrderID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, in.OrderID)
		}
		if err := uc.reconcile(ctx, orderRepo, order, product, in.Quantity); err != nil {
			return nil, err
		}
	}

	stock, err := productRepo.AdjustStock(ctx, product.ID, in.Quantity)
	if err != nil {
		return nil, err
	}
	if in.UpdatePrice {
		if err := productRepo.UpdatePurchasePrice(ctx, product.ID, in.UnitCost); err != nil {
			return nil, err
		}
	}

	mov := &entity.Movement{
		ID:         uuid.New().String(),
		Kind:       entity.MovementKindReceipt,
		ProductID:  product.ID,
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		Reason:     in.Reason,
		OrderID:    in.OrderID,
		Comment:    in.Comment,
		CreatedBy:  in.UserID,
		CreatedAt:  now,
		StockAfter: stock,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// reconcile suma la cantidad recibida a cada línea coincidente y persiste el nuevo estado de la orden.
func (uc *MovementUseCase) reconcile(
	ctx context.Context,
	orderRepo repository.PurchaseOrderRepository,
	order *entity.PurchaseOrder,
	product *entity.Product,
	qty int64,
) error {
	for _, i := range purchasing.MatchLines(product, order.Lines) {
		line := &order.Lines[i]
		received, err := orderRepo.AddReceived(ctx, line.ID, qty)
		if err != nil {
			return err
		}
		uc.log.Debug().
			Str("order", order.Number).
			Str("line", line.Description).
			Int64("ordered", line.Quantity).
			Int64("received_before", line.Received).
			Int64("received", received).
			Int64("pending", line.Quantity-received).
			Msg("línea de OC actualizada")
		line.Received = received
	}

	status := purchasing.Recompute(order.Status, order.Lines)
	if status == order.Status {
		return nil
	}
	if err := orderRepo.UpdateStatus(ctx, order.ID, status); err != nil {
		return err
	}
	uc.log.Info().
		Str("order", order.Number).
		Str("from", string(order.Status)).
		Str("to", string(status)).
		Msg("estado de OC actualizado")
	order.Status = status
	return nil
}

// ApplyIssue aplica una salida: resta stock (sin interacción con OC) y registra el movimiento.
func (uc *MovementUseCase) ApplyIssue(ctx context.Context, in IssueInput) (*entity.Movement, error) {
	movs, err := uc.ApplyIssues(ctx, []IssueInput{in})
	if err != nil {
		return nil, err
	}
	return movs[0], nil
}

// ApplyIssues aplica varias salidas en una sola transacción (todo o nada).
func (uc *MovementUseCase) ApplyIssues(ctx context.Context, inputs []IssueInput) ([]*entity.Movement, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for i := range inputs {
		if err := inputs[i].validate(); err != nil {
			return nil, err
		}
	}

	var out []*entity.Movement
	err := txretry.Do(ctx, uc.attempts, func() error {
		out = make([]*entity.Movement, 0, len(inputs))
		now := uc.now()
		return uc.txRunner.Run(ctx, func(
			movRepo repository.MovementRepository,
			productRepo repository.ProductRepository,
			_ repository.PurchaseOrderRepository,
		) error {
			for _, in := range inputs {
				mov, err := uc.issue(ctx, movRepo, productRepo, in, now)
				if err != nil {
					return err
				}
				out = append(out, mov)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *MovementUseCase) issue(
	ctx context.Context,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	in IssueInput,
	now time.Time,
) (*entity.Movement, error) {
	product, err := productRepo.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	if !uc.allowNegativeStock && product.Stock < in.Quantity {
		return nil, domain.ErrInsufficientStock
	}

	stock, err := productRepo.AdjustStock(ctx, product.ID, -in.Quantity)
	if err != nil {
		return nil, err
	}
	if stock < 0 {
		uc.log.Warn().
			Str("product", product.Code).
			Int64("stock", stock).
			Msg("salida deja stock negativo")
	}

	// Las salidas se valorizan al precio de compra vigente.
	mov := &entity.Movement{
		ID:         uuid.New().String(),
		Kind:       entity.MovementKindIssue,
		ProductID:  product.ID,
		Quantity:   in.Quantity,
		UnitCost:   product.PurchasePrice,
		Charge:     in.Charge,
		Comment:    in.Comment,
		CreatedBy:  in.UserID,
		CreatedAt:  now,
		StockAfter: stock,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// List lista entradas o salidas según el filtro.
func (uc *MovementUseCase) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Kind != entity.MovementKindReceipt && filter.Kind != entity.MovementKindIssue {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = 200
	}
	return uc.movRepo.List(ctx, filter)
}
