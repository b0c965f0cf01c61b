package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

const (
	productSearchLimit  = 25
	productDefaultLimit = 10
)

// ProductUseCase casos de uso CRUD para productos. Stock se maneja vía movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. Stock inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" || in.PurchasePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: código %s", domain.ErrDuplicate, code)
	}
	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		Code:            code,
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		Category:        in.Category,
		Type:            in.Type,
		PurchasePrice:   in.PurchasePrice,
		MinStock:        in.MinStock,
		Consignment:     in.Consignment,
		ConsignmentName: in.ConsignmentName,
		Location:        in.Location,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return ToProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar Stock (se maneja vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Type != nil {
		product.Type = *in.Type
	}
	if in.PurchasePrice != nil {
		if in.PurchasePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.Consignment != nil {
		product.Consignment = *in.Consignment
	}
	if in.ConsignmentName != nil {
		product.ConsignmentName = *in.ConsignmentName
	}
	if in.Location != nil {
		product.Location = *in.Location
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List busca por código o nombre (máx. 25). Sin búsqueda devuelve los primeros 10 por código.
func (uc *ProductUseCase) List(ctx context.Context, search string) ([]dto.ProductResponse, error) {
	filter := repository.ProductFilter{Search: strings.TrimSpace(search), Limit: productDefaultLimit}
	if filter.Search != "" {
		filter.Limit = productSearchLimit
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return items, nil
}

// ToProductResponse mapea la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		Code:            p.Code,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		Type:            p.Type,
		PurchasePrice:   p.PurchasePrice,
		Stock:           p.Stock,
		MinStock:        p.MinStock,
		Consignment:     p.Consignment,
		ConsignmentName: p.ConsignmentName,
		Location:        p.Location,
		TotalValue:      p.TotalValue(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
