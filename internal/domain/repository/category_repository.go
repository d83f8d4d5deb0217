package repository

import (
	"context"

	"github.com/jhoicas/papeleria-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Category, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Category, error)
	Delete(ctx context.Context, tenantID, id string) error
}
