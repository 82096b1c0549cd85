package services

import (
	"context"
	"log/slog"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driven"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driving"
)

// Ensure processService implements ProcessService
var _ driving.ProcessService = (*processService)(nil)

// processService implements the ProcessService interface
type processService struct {
	processStore driven.ProcessStore
	stepStore    driven.StepStore
	diagramCache driven.DiagramCache
	logger       *slog.Logger
}

// NewProcessService creates a new ProcessService
func NewProcessService(
	processStore driven.ProcessStore,
	stepStore driven.StepStore,
	diagramCache driven.DiagramCache,
	logger *slog.Logger,
) driving.ProcessService {
	if logger == nil {
		logger = slog.Default()
	}
	return &processService{
		processStore: processStore,
		stepStore:    stepStore,
		diagramCache: diagramCache,
		logger:       logger,
	}
}

// Get retrieves a process with its steps in ordinal order
func (s *processService) Get(ctx context.Context, id string) (*domain.ProcessWithSteps, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	process, err := s.processStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	steps, err := s.stepStore.ListByProcess(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.ProcessWithSteps{Process: process, Steps: steps}, nil
}

// List retrieves processes, most recently updated first
func (s *processService) List(ctx context.Context, limit, offset int) ([]*domain.Process, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.processStore.List(ctx, limit, offset)
}

// Delete removes a process, its steps and any cached diagram
func (s *processService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}

	if _, err := s.processStore.Get(ctx, id); err != nil {
		return err
	}
	if err := s.stepStore.DeleteByProcess(ctx, id); err != nil {
		return err
	}
	if err := s.processStore.Delete(ctx, id); err != nil {
		return err
	}

	if s.diagramCache != nil {
		if err := s.diagramCache.Invalidate(ctx, id); err != nil {
			s.logger.Warn("failed to invalidate diagram cache", "process_id", id, "error", err)
		}
	}

	s.logger.Info("process deleted", "process_id", id)
	return nil
}
