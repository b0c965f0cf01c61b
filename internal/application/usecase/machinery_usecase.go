package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// MachineryUseCase registro de equipos de la flota.
type MachineryUseCase struct {
	repo repository.MachineryRepository
}

// NewMachineryUseCase construye el caso de uso.
func NewMachineryUseCase(repo repository.MachineryRepository) *MachineryUseCase {
	return &MachineryUseCase{repo: repo}
}

// Create registra un equipo. El número es único (domain.ErrDuplicate); la patente se guarda en mayúsculas.
func (uc *MachineryUseCase) Create(ctx context.Context, in dto.CreateMachineryRequest) (*dto.MachineryResponse, error) {
	m := &entity.Machinery{
		ID:     uuid.New().String(),
		Number: strings.TrimSpace(in.Number),
		Type:   strings.TrimSpace(in.Type),
		Plate:  strings.ToUpper(strings.TrimSpace(in.Plate)),
	}
	if m.Number == "" || m.Plate == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidMachineryType(m.Type) {
		return nil, fmt.Errorf("%w: tipo de equipo %q", domain.ErrInvalidInput, in.Type)
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMachineryResponse(m), nil
}

// GetByID obtiene un equipo.
func (uc *MachineryUseCase) GetByID(ctx context.Context, id string) (*dto.MachineryResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: equipo %s", domain.ErrNotFound, id)
	}
	return toMachineryResponse(m), nil
}

// List lista equipos por número.
func (uc *MachineryUseCase) List(ctx context.Context) ([]dto.MachineryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MachineryResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMachineryResponse(m))
	}
	return out, nil
}

func toMachineryResponse(m *entity.Machinery) *dto.MachineryResponse {
	return &dto.MachineryResponse{ID: m.ID, Number: m.Number, Type: m.Type, Plate: m.Plate}
}
