package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/papeleria-api/internal/application/dto"
	"github.com/jhoicas/papeleria-api/internal/domain"
	"github.com/jhoicas/papeleria-api/internal/domain/entity"
	"github.com/jhoicas/papeleria-api/internal/domain/repository"
)

// CategoryUseCase alta, listado y baja de categorías.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, products repository.ProductRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, products: products}
}

// Create crea una categoría. domain.ErrDuplicate si el nombre ya existe en el tenant.
func (uc *CategoryUseCase) Create(ctx context.Context, tenantID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	c := &entity.Category{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        name,
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// List devuelve las categorías del tenant por nombre.
func (uc *CategoryUseCase) List(ctx context.Context, tenantID string) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Delete elimina la categoría; domain.ErrConflict mientras algún producto la use.
func (uc *CategoryUseCase) Delete(ctx context.Context, tenantID, id string) error {
	c, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	n, err := uc.products.CountByCategory(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, tenantID, id)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}
