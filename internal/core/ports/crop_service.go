package ports

import (
	"context"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

// CreateCropInput carries the listing fields submitted by a farmer.
type CreateCropInput struct {
	Owner          domain.Identity
	Name           string
	Description    string
	Location       string
	Price          float64
	Quantity       float64
	Image          *ImageUpload // optional
	IdempotencyKey string
}

// CreateCropResult is returned after a listing is stored.
type CreateCropResult struct {
	Crop domain.Crop
	// AlreadyExisted is true when the Idempotency-Key matched an earlier listing.
	AlreadyExisted bool
}

// CropService defines the crop catalog use cases.
type CropService interface {
	CreateCrop(ctx context.Context, input CreateCropInput) (*CreateCropResult, error)
	ListCrops(ctx context.Context) ([]domain.Crop, error)
}
