package driving

import (
	"context"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
)

// ProcessService manages stored processes and their step records
type ProcessService interface {
	// Get retrieves a process with its steps in ordinal order
	Get(ctx context.Context, id string) (*domain.ProcessWithSteps, error)

	// List retrieves processes, most recently updated first
	List(ctx context.Context, limit, offset int) ([]*domain.Process, error)

	// Delete removes a process, its steps and any cached diagram
	Delete(ctx context.Context, id string) error
}
