package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"

	"github.com/procmap-labs/procmap-core/internal/bpmn"
	"github.com/procmap-labs/procmap-core/internal/core/domain"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driven"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driving"
	"github.com/procmap-labs/procmap-core/internal/parser"
)

// Ensure diagramService implements DiagramService
var _ driving.DiagramService = (*diagramService)(nil)

// diagramService compiles stored records into BPMN XML. Compilation is
// cheap but repeated downloads of large unchanged processes are common,
// so compiled XML is cached keyed by a fingerprint of the records.
type diagramService struct {
	processStore driven.ProcessStore
	stepStore    driven.StepStore
	cache        driven.DiagramCache
	labels       parser.LabelSet
	logger       *slog.Logger
}

// NewDiagramService creates a new DiagramService. Cache is optional.
func NewDiagramService(
	processStore driven.ProcessStore,
	stepStore driven.StepStore,
	cache driven.DiagramCache,
	labels parser.LabelSet,
	logger *slog.Logger,
) driving.DiagramService {
	if logger == nil {
		logger = slog.Default()
	}
	return &diagramService{
		processStore: processStore,
		stepStore:    stepStore,
		cache:        cache,
		labels:       labels,
		logger:       logger,
	}
}

// Export returns the BPMN XML for a stored process
func (s *diagramService) Export(ctx context.Context, processID string) (string, error) {
	if processID == "" {
		return "", domain.ErrInvalidInput
	}

	process, err := s.processStore.Get(ctx, processID)
	if err != nil {
		return "", err
	}
	steps, err := s.stepStore.ListByProcess(ctx, processID)
	if err != nil {
		return "", err
	}

	fingerprint := stepFingerprint(process, steps)
	if s.cache != nil {
		xml, ok, err := s.cache.Get(ctx, processID, fingerprint)
		if err != nil {
			s.logger.Warn("diagram cache read failed", "process_id", processID, "error", err)
		} else if ok {
			return xml, nil
		}
	}

	xml := bpmn.Compile(process, steps)

	if s.cache != nil {
		if err := s.cache.Set(ctx, processID, fingerprint, xml); err != nil {
			s.logger.Warn("diagram cache write failed", "process_id", processID, "error", err)
		}
	}
	return xml, nil
}

// Preview compiles a document text into BPMN XML without storing anything
func (s *diagramService) Preview(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", domain.ErrInvalidInput
	}

	doc, err := parser.Parse(text, s.labels)
	if err != nil {
		return "", err
	}

	process := &domain.Process{
		Name:              processName(doc.Metadata.Name, ""),
		Category:          doc.Metadata.Category,
		FrequencyPerMonth: doc.Metadata.FrequencyPerMonth,
	}
	// Unpersisted records have no ids; the compiler falls back to ordinals.
	return bpmn.Compile(process, doc.Steps), nil
}

// Layout returns the diagram document for a stored process
func (s *diagramService) Layout(ctx context.Context, processID string) (*domain.DiagramDocument, error) {
	if processID == "" {
		return nil, domain.ErrInvalidInput
	}

	process, err := s.processStore.Get(ctx, processID)
	if err != nil {
		return nil, err
	}
	steps, err := s.stepStore.ListByProcess(ctx, processID)
	if err != nil {
		return nil, err
	}
	return bpmn.BuildDiagram(process, steps), nil
}

// stepFingerprint hashes everything that influences the compiled XML.
// Any change to the process or its records produces a new fingerprint,
// which makes stale cache entries unreachable rather than deleted.
func stepFingerprint(process *domain.Process, steps []*domain.ProcessStep) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(process)
	for _, step := range steps {
		_ = enc.Encode(step)
	}
	return hex.EncodeToString(h.Sum(nil))
}
