package features

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driven/mocks"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driving"
	"github.com/procmap-labs/procmap-core/internal/core/services"
	"github.com/procmap-labs/procmap-core/internal/parser"
)

// importWorld holds the state of one scenario.
type importWorld struct {
	importer driving.ImportService
	diagrams driving.DiagramService

	transcript string
	result     *domain.ImportResult
	importErr  error
	xml        string
}

func newImportWorld() *importWorld {
	processStore := mocks.NewMockProcessStore()
	stepStore := mocks.NewMockStepStore()
	labels := parser.DefaultLabelSet()

	return &importWorld{
		importer: services.NewImportService(services.ImportServiceConfig{
			ProcessStore: processStore,
			StepStore:    stepStore,
			Labels:       labels,
		}),
		diagrams: services.NewDiagramService(processStore, stepStore, nil, labels, nil),
	}
}

func (w *importWorld) aWorkshopTranscript(doc *godog.DocString) error {
	w.transcript = doc.Content
	return nil
}

func (w *importWorld) iImportTheTranscript(ctx context.Context) error {
	w.result, w.importErr = w.importer.ImportText(ctx, "facilitator", w.transcript, "")
	return nil
}

func (w *importWorld) theProcessIsNamed(name string) error {
	if w.importErr != nil {
		return fmt.Errorf("import failed: %w", w.importErr)
	}
	if w.result.Process.Name != name {
		return fmt.Errorf("expected process name %q, got %q", name, w.result.Process.Name)
	}
	return nil
}

func (w *importWorld) theProcessCategoryIs(category string) error {
	if w.importErr != nil {
		return fmt.Errorf("import failed: %w", w.importErr)
	}
	if w.result.Process.Category != category {
		return fmt.Errorf("expected category %q, got %q", category, w.result.Process.Category)
	}
	return nil
}

func (w *importWorld) itContainsSteps(count int) error {
	if w.importErr != nil {
		return fmt.Errorf("import failed: %w", w.importErr)
	}
	if len(w.result.Steps) != count {
		return fmt.Errorf("expected %d steps, got %d", count, len(w.result.Steps))
	}
	return nil
}

func (w *importWorld) stepLastsMinutes(ordinal, minutes int) error {
	for _, step := range w.result.Steps {
		if step.Ordinal == ordinal {
			if step.DurationMinutes != minutes {
				return fmt.Errorf("step %d: expected %d minutes, got %d",
					ordinal, minutes, step.DurationMinutes)
			}
			return nil
		}
	}
	return fmt.Errorf("no step with ordinal %d", ordinal)
}

func (w *importWorld) blocksAreSkipped(count int) error {
	if w.result.SkippedBlocks != count {
		return fmt.Errorf("expected %d skipped blocks, got %d", count, w.result.SkippedBlocks)
	}
	return nil
}

func (w *importWorld) theImportFailsWithNoStepsFound() error {
	if !errors.Is(w.importErr, domain.ErrNoStepsFound) {
		return fmt.Errorf("expected ErrNoStepsFound, got %v", w.importErr)
	}
	return nil
}

func (w *importWorld) iExportTheDiagram(ctx context.Context) error {
	if w.importErr != nil {
		return fmt.Errorf("import failed: %w", w.importErr)
	}
	var err error
	w.xml, err = w.diagrams.Export(ctx, w.result.Process.ID)
	return err
}

func (w *importWorld) theDiagramContainsTasks(count int) error {
	got := strings.Count(w.xml, "<bpmn:task ")
	if got != count {
		return fmt.Errorf("expected %d tasks in diagram, got %d", count, got)
	}
	return nil
}

func (w *importWorld) theDiagramHasStartAndEnd() error {
	if !strings.Contains(w.xml, "<bpmn:startEvent ") {
		return errors.New("diagram has no start event")
	}
	if !strings.Contains(w.xml, "<bpmn:endEvent ") {
		return errors.New("diagram has no end event")
	}
	return nil
}

func InitializeScenario(sc *godog.ScenarioContext) {
	w := newImportWorld()

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*w = *newImportWorld()
		return ctx, nil
	})

	sc.Given(`^a workshop transcript:$`, w.aWorkshopTranscript)
	sc.When(`^I import the transcript$`, w.iImportTheTranscript)
	sc.When(`^I export the diagram$`, w.iExportTheDiagram)
	sc.Then(`^the process is named "([^"]*)"$`, w.theProcessIsNamed)
	sc.Then(`^the process category is "([^"]*)"$`, w.theProcessCategoryIs)
	sc.Then(`^it contains (\d+) steps?$`, w.itContainsSteps)
	sc.Then(`^step (\d+) lasts (\d+) minutes$`, w.stepLastsMinutes)
	sc.Then(`^(\d+) blocks? (?:is|are) skipped$`, w.blocksAreSkipped)
	sc.Then(`^the import fails with no steps found$`, w.theImportFailsWithNoStepsFound)
	sc.Then(`^the diagram contains (\d+) tasks$`, w.theDiagramContainsTasks)
	sc.Then(`^the diagram has a start and an end event$`, w.theDiagramHasStartAndEnd)
}

func TestImportFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"import.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("acceptance scenarios failed")
	}
}
