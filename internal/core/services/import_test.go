package services

import (
	"context"
	"errors"
	"testing"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driven/mocks"
	"github.com/procmap-labs/procmap-core/internal/parser"
)

const importTranscript = "Quale processo sto mappando? Fatturazione\n" +
	"Categoria: Amministrazione\n" +
	"Frequenza: mensile\n" +
	"step 1\n" +
	"Cosa faccio: Controllo le fatture in arrivo\n" +
	"Che tool uso: Excel, SAP\n" +
	"Quanto tempo impiego: 2 ore\n" +
	"step 2\n" +
	"Cosa faccio: Registro i pagamenti\n" +
	"Quanto tempo impiego: 30 minuti"

func newImportFixture() (*mocks.MockProcessStore, *mocks.MockStepStore, *mocks.MockTaskQueue, *mocks.MockDiagramCache, *importService) {
	processStore := mocks.NewMockProcessStore()
	stepStore := mocks.NewMockStepStore()
	queue := mocks.NewMockTaskQueue()
	cache := mocks.NewMockDiagramCache()

	svc := NewImportService(ImportServiceConfig{
		ProcessStore: processStore,
		StepStore:    stepStore,
		TaskQueue:    queue,
		DiagramCache: cache,
		Labels:       parser.DefaultLabelSet(),
	}).(*importService)

	return processStore, stepStore, queue, cache, svc
}

func TestImportText_Success(t *testing.T) {
	processStore, stepStore, _, _, svc := newImportFixture()
	ctx := context.Background()

	result, err := svc.ImportText(ctx, "user-1", importTranscript, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Process.Name != "Fatturazione" {
		t.Errorf("expected process name Fatturazione, got %q", result.Process.Name)
	}
	if result.Process.Category != "Amministrazione" {
		t.Errorf("expected category Amministrazione, got %q", result.Process.Category)
	}
	if result.Process.FrequencyPerMonth != 12 {
		t.Errorf("expected frequency 12, got %d", result.Process.FrequencyPerMonth)
	}
	if len(result.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(result.Steps))
	}
	if result.SkippedBlocks != 0 {
		t.Errorf("expected 0 skipped blocks, got %d", result.SkippedBlocks)
	}

	// Persisted records carry assigned ids.
	for _, step := range result.Steps {
		if step.ID == "" {
			t.Error("step was stored without an id")
		}
		if step.ProcessID != result.Process.ID {
			t.Errorf("step %d not linked to process", step.Ordinal)
		}
	}

	stored, err := processStore.Get(ctx, result.Process.ID)
	if err != nil || stored == nil {
		t.Fatal("process was not persisted")
	}
	steps, _ := stepStore.ListByProcess(ctx, result.Process.ID)
	if len(steps) != 2 {
		t.Errorf("expected 2 persisted steps, got %d", len(steps))
	}
	if steps[0].DurationMinutes != 120 || steps[1].DurationMinutes != 30 {
		t.Errorf("expected durations 120 and 30, got %d and %d",
			steps[0].DurationMinutes, steps[1].DurationMinutes)
	}
}

func TestImportText_NameOverride(t *testing.T) {
	_, _, _, _, svc := newImportFixture()

	result, err := svc.ImportText(context.Background(), "user-1", importTranscript, "Fatture Q3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Process.Name != "Fatture Q3" {
		t.Errorf("expected override name, got %q", result.Process.Name)
	}
}

func TestImportText_NoMarkers(t *testing.T) {
	processStore, _, _, _, svc := newImportFixture()

	_, err := svc.ImportText(context.Background(), "user-1", "testo libero senza struttura", "")
	if !errors.Is(err, domain.ErrNoStepsFound) {
		t.Fatalf("expected ErrNoStepsFound, got %v", err)
	}
	if n, _ := processStore.Count(context.Background()); n != 0 {
		t.Error("nothing must be persisted on a failed import")
	}
}

func TestImportText_AllBlocksSkipped(t *testing.T) {
	processStore, _, _, _, svc := newImportFixture()

	_, err := svc.ImportText(context.Background(), "user-1", "step 1\nChe tool uso: Excel", "")
	if !errors.Is(err, domain.ErrEmptyImport) {
		t.Fatalf("expected ErrEmptyImport, got %v", err)
	}
	if n, _ := processStore.Count(context.Background()); n != 0 {
		t.Error("nothing must be persisted on a failed import")
	}
}

func TestImportText_CountsSkippedBlocks(t *testing.T) {
	_, _, _, _, svc := newImportFixture()

	text := "step 1\nChe tool uso: Excel\n" +
		"step 2\nCosa faccio: Unica attività valida"
	result, err := svc.ImportText(context.Background(), "user-1", text, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SkippedBlocks != 1 {
		t.Errorf("expected 1 skipped block, got %d", result.SkippedBlocks)
	}
	if len(result.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(result.Steps))
	}
	if result.Steps[0].Ordinal != 1 {
		t.Errorf("accepted step must be renumbered to 1, got %d", result.Steps[0].Ordinal)
	}
}

func TestImportText_EmptyInput(t *testing.T) {
	_, _, _, _, svc := newImportFixture()

	_, err := svc.ImportText(context.Background(), "user-1", "", "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestImportText_StoreFailure(t *testing.T) {
	processStore, _, _, _, svc := newImportFixture()
	processStore.SaveErr = errors.New("connection refused")

	_, err := svc.ImportText(context.Background(), "user-1", importTranscript, "")
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestEnqueueImport(t *testing.T) {
	_, _, queue, _, svc := newImportFixture()
	ctx := context.Background()

	task, err := svc.EnqueueImport(ctx, "user-1", importTranscript, "Fatture")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != domain.TaskStatusPending {
		t.Errorf("expected pending task, got %s", task.Status)
	}
	if task.Text() != importTranscript || task.NameOverride() != "Fatture" {
		t.Error("task payload does not round-trip")
	}
	if queue.PendingCount() != 1 {
		t.Errorf("expected 1 pending task, got %d", queue.PendingCount())
	}

	got, err := svc.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != task.ID {
		t.Error("GetTask returned a different task")
	}
}

func TestEnqueueImport_EmptyText(t *testing.T) {
	_, _, _, _, svc := newImportFixture()

	_, err := svc.EnqueueImport(context.Background(), "user-1", "", "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProcessName(t *testing.T) {
	if got := processName("Onboarding", "Override"); got != "Override" {
		t.Errorf("override must win, got %q", got)
	}
	if got := processName("Onboarding", ""); got != "Onboarding" {
		t.Errorf("declared name expected, got %q", got)
	}
	if got := processName("", ""); got != "Processo senza nome" {
		t.Errorf("placeholder expected, got %q", got)
	}
}
