package driving

import (
	"context"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
)

// DiagramService compiles stored step records into BPMN 2.0 XML
type DiagramService interface {
	// Export returns the BPMN XML for a stored process, serving from
	// cache when the records have not changed since the last compile.
	Export(ctx context.Context, processID string) (string, error)

	// Preview compiles a document text into BPMN XML without storing
	// anything. Used for dry-run rendering before a real import.
	Preview(ctx context.Context, text string) (string, error)

	// Layout returns the diagram document (elements, flows, geometry)
	// for a stored process without serializing it to XML.
	Layout(ctx context.Context, processID string) (*domain.DiagramDocument, error)
}
