package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driven"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driving"
	"github.com/procmap-labs/procmap-core/internal/parser"
)

// Ensure importService implements ImportService
var _ driving.ImportService = (*importService)(nil)

// importService turns workshop documents into stored step records.
// Parsing itself is pure; this service owns id assignment, persistence
// and cache invalidation.
type importService struct {
	processStore driven.ProcessStore
	stepStore    driven.StepStore
	taskQueue    driven.TaskQueue
	diagramCache driven.DiagramCache
	labels       parser.LabelSet
	logger       *slog.Logger
}

// ImportServiceConfig holds dependencies for the import service.
// TaskQueue and DiagramCache are optional: without a queue async imports
// are rejected, without a cache invalidation is a no-op.
type ImportServiceConfig struct {
	ProcessStore driven.ProcessStore
	StepStore    driven.StepStore
	TaskQueue    driven.TaskQueue
	DiagramCache driven.DiagramCache
	Labels       parser.LabelSet
	Logger       *slog.Logger
}

// NewImportService creates a new ImportService
func NewImportService(cfg ImportServiceConfig) driving.ImportService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &importService{
		processStore: cfg.ProcessStore,
		stepStore:    cfg.StepStore,
		taskQueue:    cfg.TaskQueue,
		diagramCache: cfg.DiagramCache,
		labels:       cfg.Labels,
		logger:       logger,
	}
}

// ImportText parses a document and stores the resulting process and steps
func (s *importService) ImportText(ctx context.Context, requestedBy, text, nameOverride string) (*domain.ImportResult, error) {
	if text == "" {
		return nil, domain.ErrInvalidInput
	}

	doc, err := parser.Parse(text, s.labels)
	if err != nil {
		return nil, err
	}

	for _, ordinal := range doc.SkippedOrdinals {
		s.logger.Warn("skipping step block without description",
			"block", ordinal, "requested_by", requestedBy)
	}

	now := time.Now()
	process := &domain.Process{
		ID:                uuid.NewString(),
		Name:              processName(doc.Metadata.Name, nameOverride),
		Category:          doc.Metadata.Category,
		FrequencyPerMonth: doc.Metadata.FrequencyPerMonth,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	for _, step := range doc.Steps {
		step.ID = uuid.NewString()
		step.ProcessID = process.ID
		step.CreatedAt = now
	}

	if err := s.processStore.Save(ctx, process); err != nil {
		return nil, err
	}
	if err := s.stepStore.SaveBatch(ctx, process.ID, doc.Steps); err != nil {
		return nil, err
	}

	if s.diagramCache != nil {
		if err := s.diagramCache.Invalidate(ctx, process.ID); err != nil {
			s.logger.Warn("failed to invalidate diagram cache",
				"process_id", process.ID, "error", err)
		}
	}

	s.logger.Info("document imported",
		"process_id", process.ID,
		"process_name", process.Name,
		"steps", len(doc.Steps),
		"skipped_blocks", len(doc.SkippedOrdinals))

	return &domain.ImportResult{
		Process:       process,
		Steps:         doc.Steps,
		SkippedBlocks: len(doc.SkippedOrdinals),
	}, nil
}

// EnqueueImport queues a document for background import
func (s *importService) EnqueueImport(ctx context.Context, requestedBy, text, nameOverride string) (*domain.Task, error) {
	if text == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.taskQueue == nil {
		return nil, domain.ErrInvalidInput
	}

	task := domain.NewImportTextTask(requestedBy, text, nameOverride)
	if err := s.taskQueue.Enqueue(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("import task enqueued", "task_id", task.ID, "requested_by", requestedBy)
	return task, nil
}

// GetTask retrieves an import task by ID
func (s *importService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	if s.taskQueue == nil {
		return nil, domain.ErrNotFound
	}
	return s.taskQueue.GetTask(ctx, taskID)
}

// processName resolves the stored process name: an explicit override wins
// over the name declared in the document, and an unnamed document gets a
// visible placeholder rather than an empty string.
func processName(declared, override string) string {
	if override != "" {
		return override
	}
	if declared != "" {
		return declared
	}
	return "Processo senza nome"
}
