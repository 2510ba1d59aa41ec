package interfaces

import (
	"context"

	"github.com/zsol/python-dotslash/pkg/domain/model"
)

// GenerateUseCase defines descriptor generation
type GenerateUseCase interface {
	// Generate builds descriptors for the requested versions and writes
	// them to the output directory when one is set
	Generate(ctx context.Context, req *model.GenerateRequest) (*model.GenerateResult, error)
}

// VerifyUseCase defines descriptor verification
type VerifyUseCase interface {
	// Verify checks previously generated descriptor files
	Verify(ctx context.Context, req *model.VerifyRequest) (*model.VerifyResult, error)
}
