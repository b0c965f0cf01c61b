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

// RequestUseCase casos de uso de solicitudes de materiales.
type RequestUseCase struct {
	txRunner  TxRunner
	requests  repository.RequestRepository
	allocator *SequenceAllocator
	log       zerolog.Logger
	now       func() time.Time
	attempts  int
}

// NewRequestUseCase construye el caso de uso.
func NewRequestUseCase(txRunner TxRunner, requests repository.RequestRepository, allocator *SequenceAllocator, log zerolog.Logger) *RequestUseCase {
	return &RequestUseCase{
		txRunner:  txRunner,
		requests:  requests,
		allocator: allocator,
		log:       log.With().Str("component", "requests").Logger(),
		now:       time.Now,
		attempts:  txretry.DefaultAttempts,
	}
}

// SetClock reemplaza el reloj (tests).
func (uc *RequestUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// Create registra una solicitud pendiente numerada con la partición global de solicitudes.
func (uc *RequestUseCase) Create(ctx context.Context, userID string, in dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	}

	var req *entity.Request
	err := txretry.Do(ctx, uc.attempts, func() error {
		req = newRequest(userID, in, uc.now())
		return uc.txRunner.RunPurchasing(ctx, func(
			seqRepo repository.SequenceRepository,
			_ repository.PurchaseOrderRepository,
			requestRepo repository.RequestRepository,
		) error {
			number, err := uc.allocator.Allocate(ctx, seqRepo, rules.PartitionRequests)
			if err != nil {
				return err
			}
			req.Number = number
			if err := requestRepo.Create(ctx, req); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					return fmt.Errorf("%w: solicitud %s", domain.ErrConcurrentUpdate, number)
				}
				return err
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("number", req.Number).Str("user", userID).Msg("solicitud creada")
	return ToRequestResponse(req), nil
}

func newRequest(userID string, in dto.CreateRequestRequest, now time.Time) *entity.Request {
	id := uuid.New().String()
	r := &entity.Request{
		ID:             id,
		Folio:          in.Folio,
		QuoteNumber:    in.QuoteNumber,
		RequesterName:  in.RequesterName,
		WarehouseStock: in.WarehouseStock,
		CreatedBy:      userID,
		Status:         entity.RequestStatusPending,
		Comment:        in.Comment,
		CreatedAt:      now,
		UpdatedAt:      now,
		Lines:          make([]entity.RequestLine, 0, len(in.Lines)),
	}
	for _, l := range in.Lines {
		r.Lines = append(r.Lines, entity.RequestLine{
			ID:             uuid.New().String(),
			RequestID:      id,
			Product:        l.Product,
			Quantity:       l.Quantity,
			Reason:         l.Reason,
			WarehouseStock: l.WarehouseStock,
		})
	}
	return r
}

// Get devuelve una solicitud con sus líneas.
func (uc *RequestUseCase) Get(ctx context.Context, id string) (*dto.RequestResponse, error) {
	r, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}
	return ToRequestResponse(r), nil
}

// List lista solicitudes de la más nueva a la más antigua.
func (uc *RequestUseCase) List(ctx context.Context, status entity.RequestStatus, page dto.PageRequest) ([]dto.RequestResponse, error) {
	page.DefaultPage()
	list, err := uc.requests.List(ctx, repository.RequestFilter{Status: status, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *ToRequestResponse(r))
	}
	return out, nil
}

// Approve aprueba una solicitud pendiente.
func (uc *RequestUseCase) Approve(ctx context.Context, id, userID string) (*dto.RequestResponse, error) {
	return uc.transition(ctx, id, userID, entity.RequestStatusApproved)
}

// Reject rechaza una solicitud pendiente.
func (uc *RequestUseCase) Reject(ctx context.Context, id, userID string) (*dto.RequestResponse, error) {
	return uc.transition(ctx, id, userID, entity.RequestStatusRejected)
}

// transition solo se permite desde pendiente; aprobada y rechazada son finales.
func (uc *RequestUseCase) transition(ctx context.Context, id, userID string, to entity.RequestStatus) (*dto.RequestResponse, error) {
	var req *entity.Request
	err := txretry.Do(ctx, uc.attempts, func() error {
		return uc.txRunner.RunPurchasing(ctx, func(
			_ repository.SequenceRepository,
			_ repository.PurchaseOrderRepository,
			requestRepo repository.RequestRepository,
		) error {
			r, err := requestRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
			}
			if r.Status != entity.RequestStatusPending {
				return fmt.Errorf("%w: solicitud %s está %s", domain.ErrInvalidState, r.Number, r.Status)
			}
			now := uc.now()
			if err := requestRepo.UpdateStatus(ctx, r.ID, to, now); err != nil {
				return err
			}
			r.Status, r.UpdatedAt = to, now
			req = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("number", req.Number).Str("status", string(to)).Str("user", userID).Msg("solicitud actualizada")
	return ToRequestResponse(req), nil
}

// ToRequestResponse mapea la entidad al DTO de salida.
func ToRequestResponse(r *entity.Request) *dto.RequestResponse {
	lines := make([]dto.RequestLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, dto.RequestLineResponse{
			ID:             l.ID,
			Product:        l.Product,
			Quantity:       l.Quantity,
			Reason:         l.Reason,
			WarehouseStock: l.WarehouseStock,
		})
	}
	return &dto.RequestResponse{
		ID:             r.ID,
		Number:         r.Number,
		Folio:          r.Folio,
		QuoteNumber:    r.QuoteNumber,
		RequesterName:  r.RequesterName,
		WarehouseStock: r.WarehouseStock,
		CreatedBy:      r.CreatedBy,
		Status:         string(r.Status),
		Comment:        r.Comment,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Lines:          lines,
	}
}
