package jsonfile

import (
	"context"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

const cropsCollection = "crops"

type CropRepository struct {
	crops *Collection[domain.Crop]
}

func NewCropRepository(store *Store) *CropRepository {
	return &CropRepository{crops: NewCollection[domain.Crop](store, cropsCollection)}
}

// Create appends crop to the end of the collection.
func (r *CropRepository) Create(ctx context.Context, crop *domain.Crop) error {
	return r.crops.Update(ctx, func(crops []domain.Crop) ([]domain.Crop, error) {
		return append(crops, *crop), nil
	})
}

func (r *CropRepository) FindAll(ctx context.Context) ([]domain.Crop, error) {
	return r.crops.LoadAll(ctx)
}

func (r *CropRepository) FindByID(ctx context.Context, id string) (*domain.Crop, error) {
	crops, err := r.crops.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range crops {
		if crops[i].ID == id {
			return &crops[i], nil
		}
	}
	return nil, domain.ErrCropNotFound
}
