package driving

import (
	"context"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
)

// ImportService turns narrative workshop text into stored step records
type ImportService interface {
	// ImportText parses a document and stores the resulting process and
	// steps synchronously. Returns ErrNoStepsFound or ErrEmptyImport when
	// nothing can be imported.
	ImportText(ctx context.Context, requestedBy, text, nameOverride string) (*domain.ImportResult, error)

	// EnqueueImport queues a document for background import and returns
	// the task handle for status polling.
	EnqueueImport(ctx context.Context, requestedBy, text, nameOverride string) (*domain.Task, error)

	// GetTask retrieves an import task by ID
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)
}
