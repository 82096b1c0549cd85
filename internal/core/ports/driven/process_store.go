package driven

import (
	"context"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
)

// ProcessStore handles process persistence (PostgreSQL)
type ProcessStore interface {
	// Save creates or updates a process
	Save(ctx context.Context, process *domain.Process) error

	// Get retrieves a process by ID
	Get(ctx context.Context, id string) (*domain.Process, error)

	// List retrieves all processes, most recently updated first
	List(ctx context.Context, limit, offset int) ([]*domain.Process, error)

	// Delete deletes a process and its steps
	Delete(ctx context.Context, id string) error

	// Count returns the total number of processes
	Count(ctx context.Context) (int, error)
}

// StepStore handles step record persistence (PostgreSQL)
type StepStore interface {
	// SaveBatch stores all steps of one process atomically, replacing any
	// steps already stored for that process. Ordinal order is preserved.
	SaveBatch(ctx context.Context, processID string, steps []*domain.ProcessStep) error

	// ListByProcess retrieves the steps of a process in ordinal order
	ListByProcess(ctx context.Context, processID string) ([]*domain.ProcessStep, error)

	// Get retrieves a single step by ID
	Get(ctx context.Context, id string) (*domain.ProcessStep, error)

	// DeleteByProcess removes all steps of a process
	DeleteByProcess(ctx context.Context, processID string) error
}
