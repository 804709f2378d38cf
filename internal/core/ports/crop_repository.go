package ports

import (
	"context"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

// CropRepository defines persistence for crop listings.
type CropRepository interface {
	Create(ctx context.Context, crop *domain.Crop) error
	// FindAll returns every crop in insertion order.
	FindAll(ctx context.Context) ([]domain.Crop, error)
	FindByID(ctx context.Context, id string) (*domain.Crop, error)
}
