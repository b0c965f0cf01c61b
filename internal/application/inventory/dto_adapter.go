package inventory

import (
	"context"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// RegisterReceipts adapta el body HTTP de entradas al caso de uso.
func (uc *MovementUseCase) RegisterReceipts(ctx context.Context, userID string, req dto.RegisterReceiptsRequest) ([]dto.MovementResponse, error) {
	inputs := make([]ReceiptInput, 0, len(req.Items))
	for _, it := range req.Items {
		inputs = append(inputs, ReceiptInput{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			OrderID:     it.OrderID,
			UpdatePrice: it.UpdatePrice,
			Reason:      it.Reason,
			Comment:     it.Comment,
			UserID:      userID,
		})
	}
	movs, err := uc.ApplyReceipts(ctx, inputs)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movs, true), nil
}

// RegisterIssues adapta el body HTTP de salidas al caso de uso.
func (uc *MovementUseCase) RegisterIssues(ctx context.Context, userID string, req dto.RegisterIssuesRequest) ([]dto.MovementResponse, error) {
	inputs := make([]IssueInput, 0, len(req.Items))
	for _, it := range req.Items {
		inputs = append(inputs, IssueInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Charge:    it.Charge,
			Comment:   req.Comment,
			UserID:    userID,
		})
	}
	movs, err := uc.ApplyIssues(ctx, inputs)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movs, true), nil
}

// ListMovements lista movimientos como DTO.
func (uc *MovementUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]dto.MovementResponse, error) {
	movs, err := uc.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movs, false), nil
}

func toMovementResponses(movs []*entity.Movement, withStock bool) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		r := dto.MovementResponse{
			ID:        m.ID,
			Kind:      m.Kind,
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
			UnitCost:  m.UnitCost,
			Total:     m.Total(),
			Reason:    m.Reason,
			Charge:    m.Charge,
			OrderID:   m.OrderID,
			Comment:   m.Comment,
			CreatedBy: m.CreatedBy,
			CreatedAt: m.CreatedAt,
		}
		if withStock {
			stock := m.StockAfter
			r.StockAfter = &stock
		}
		out = append(out, r)
	}
	return out
}
