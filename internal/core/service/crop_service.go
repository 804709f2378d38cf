package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayam04/Contract-Farming/internal/api/metrics"
	"github.com/ayam04/Contract-Farming/internal/core/domain"
	"github.com/ayam04/Contract-Farming/internal/core/ports"
)

type CropService struct {
	crops       ports.CropRepository
	users       ports.UserRepository
	images      ports.ImageStore
	idempotency ports.IdempotencyStore // nil disables replay detection
	now         func() time.Time
	newID       func() string
	logger      zerolog.Logger
}

func NewCropService(
	crops ports.CropRepository,
	users ports.UserRepository,
	images ports.ImageStore,
	idempotency ports.IdempotencyStore,
	logger zerolog.Logger,
) *CropService {
	return &CropService{
		crops:       crops,
		users:       users,
		images:      images,
		idempotency: idempotency,
		now:         time.Now,
		newID:       uuid.NewString,
		logger:      logger,
	}
}

// CreateCrop stores a new listing owned by input.Owner. If the owner already
// used input.IdempotencyKey, the crop created under that key is returned
// without side effects; a key whose first request is still running yields
// ErrIdempotencyConflict.
func (s *CropService) CreateCrop(ctx context.Context, input ports.CreateCropInput) (*ports.CreateCropResult, error) {
	if !input.Owner.Role.Can(domain.CapCreateCrop) {
		return nil, fmt.Errorf("create crop: %w: only farmers can upload crops", domain.ErrForbidden)
	}
	if err := validateCropInput(input); err != nil {
		return nil, err
	}

	owner, err := s.users.FindByUsername(ctx, input.Owner.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("create crop: %w: unknown farmer %q", domain.ErrForbidden, input.Owner.Username)
		}
		return nil, fmt.Errorf("create crop: %w", err)
	}
	if owner.Role != domain.RoleFarmer {
		return nil, fmt.Errorf("create crop: %w: %q is not a farmer", domain.ErrForbidden, owner.Username)
	}

	reserved, existing, err := s.reserve(ctx, owner.Username, input.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ports.CreateCropResult{Crop: *existing, AlreadyExisted: true}, nil
	}

	crop, err := s.store(ctx, owner.Username, input)
	if err != nil {
		if reserved {
			s.release(ctx, owner.Username, input.IdempotencyKey)
		}
		return nil, err
	}

	if reserved {
		if err := s.idempotency.Complete(ctx, owner.Username, input.IdempotencyKey, crop.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	metrics.CropsCreatedTotal.Inc()
	s.logger.Info().Str("crop_id", crop.ID).Str("farmer", crop.Farmer).Msg("crop created")

	return &ports.CreateCropResult{Crop: crop}, nil
}

// store saves the image and the crop record, removing the image again when
// the record cannot be written.
func (s *CropService) store(ctx context.Context, username string, input ports.CreateCropInput) (domain.Crop, error) {
	crop := domain.Crop{
		ID:          s.newID(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		Price:       input.Price,
		Quantity:    input.Quantity,
		Farmer:      username,
		CreatedAt:   s.now().UTC(),
	}

	if input.Image != nil {
		ref, err := s.images.Save(ctx, *input.Image)
		if err != nil {
			metrics.UploadsRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
			return domain.Crop{}, fmt.Errorf("create crop: %w", err)
		}
		crop.Image = ref
	}

	if err := s.crops.Create(ctx, &crop); err != nil {
		s.logger.Error().Err(err).Str("crop_id", crop.ID).Msg("failed to create crop")
		if crop.Image != "" {
			if rmErr := s.images.Remove(ctx, crop.Image); rmErr != nil {
				s.logger.Warn().Err(rmErr).Str("image", crop.Image).Msg("failed to remove orphaned image")
			}
		}
		return domain.Crop{}, fmt.Errorf("create crop: %w", err)
	}
	return crop, nil
}

// ListCrops returns every crop regardless of who asks.
func (s *CropService) ListCrops(ctx context.Context) ([]domain.Crop, error) {
	crops, err := s.crops.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}
	if crops == nil {
		crops = []domain.Crop{}
	}
	return crops, nil
}

// reserve claims the owner's idempotency key before anything is written.
// It reports reserved=true when the caller must Complete or release the key,
// or returns the crop an earlier request created under it. Store outages are
// logged and the create proceeds without replay protection.
func (s *CropService) reserve(ctx context.Context, username, key string) (bool, *domain.Crop, error) {
	if key == "" || s.idempotency == nil {
		return false, nil, nil
	}
	cropID, reserved, err := s.idempotency.Reserve(ctx, username, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency reserve failed, creating anyway")
		return false, nil, nil
	}
	if reserved {
		return true, nil, nil
	}
	if cropID == "" {
		return false, nil, fmt.Errorf("create crop: %w: a request with this key is still in progress", domain.ErrIdempotencyConflict)
	}

	existing, err := s.crops.FindByID(ctx, cropID)
	if err != nil {
		s.logger.Warn().Err(err).Str("crop_id", cropID).Msg("idempotency key points at missing crop")
		return false, nil, fmt.Errorf("create crop: %w: key already used", domain.ErrIdempotencyConflict)
	}
	if existing.Farmer != username {
		return false, nil, fmt.Errorf("create crop: %w: key already used", domain.ErrIdempotencyConflict)
	}
	s.logger.Info().Str("idempotency_key", key).Str("crop_id", cropID).Msg("idempotent replay")
	return false, existing, nil
}

func (s *CropService) release(ctx context.Context, username, key string) {
	if err := s.idempotency.Release(ctx, username, key); err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
	}
}

func validateCropInput(in ports.CreateCropInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	case strings.TrimSpace(in.Location) == "":
		return fmt.Errorf("%w: location is required", domain.ErrValidation)
	case !nonNegative(in.Price):
		return fmt.Errorf("%w: price must be a non-negative number", domain.ErrValidation)
	case !nonNegative(in.Quantity):
		return fmt.Errorf("%w: quantity must be a non-negative number", domain.ErrValidation)
	}
	return nil
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedImage):
		return "unsupported_type"
	case errors.Is(err, domain.ErrImageTooLarge):
		return "too_large"
	default:
		return "storage"
	}
}
