package ports

import (
	"context"
	"io"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

// ContractDocument is a fully rendered agreement ready to be sent.
type ContractDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ContractRenderer writes a contract in a concrete document format.
type ContractRenderer interface {
	ContentType() string
	Extension() string
	Render(w io.Writer, contract domain.Contract) error
}

// ContractService generates agreements for a crop on behalf of a buyer.
type ContractService interface {
	GenerateContract(ctx context.Context, cropID string, buyer domain.Identity) (*ContractDocument, error)
}
