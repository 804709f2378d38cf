package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayam04/Contract-Farming/internal/api/metrics"
	"github.com/ayam04/Contract-Farming/internal/core/domain"
	"github.com/ayam04/Contract-Farming/internal/core/ports"
)

// ContractService assembles agreements from stored crops.
type ContractService struct {
	crops    ports.CropRepository
	renderer ports.ContractRenderer
	now      func() time.Time
	logger   zerolog.Logger
}

func NewContractService(crops ports.CropRepository, renderer ports.ContractRenderer, logger zerolog.Logger) *ContractService {
	return &ContractService{crops: crops, renderer: renderer, now: time.Now, logger: logger}
}

// GenerateContract renders the whole document in memory so that a missing crop
// or a rendering failure is reported before any byte reaches the client.
func (s *ContractService) GenerateContract(ctx context.Context, cropID string, buyer domain.Identity) (*ports.ContractDocument, error) {
	if !buyer.Role.Can(domain.CapGenerateContract) {
		return nil, fmt.Errorf("generate contract: %w", domain.ErrForbidden)
	}

	crop, err := s.crops.FindByID(ctx, cropID)
	if err != nil {
		result := "error"
		if errors.Is(err, domain.ErrCropNotFound) {
			result = "not_found"
		}
		metrics.ContractsGeneratedTotal.WithLabelValues(result).Inc()
		return nil, fmt.Errorf("generate contract: %w", err)
	}

	contract := domain.Contract{
		Crop:        *crop,
		Buyer:       buyer.Username,
		GeneratedAt: s.now(),
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, contract); err != nil {
		metrics.ContractsGeneratedTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Str("crop_id", crop.ID).Msg("contract rendering failed")
		return nil, fmt.Errorf("generate contract: render: %w", err)
	}

	metrics.ContractsGeneratedTotal.WithLabelValues("ok").Inc()
	s.logger.Info().
		Str("crop_id", crop.ID).
		Str("buyer", buyer.Username).
		Str("farmer", crop.Farmer).
		Int("bytes", buf.Len()).
		Msg("contract generated")

	return &ports.ContractDocument{
		Filename:    "contract-" + crop.ID + s.renderer.Extension(),
		ContentType: s.renderer.ContentType(),
		Content:     buf.Bytes(),
	}, nil
}
