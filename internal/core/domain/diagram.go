package domain

import "fmt"

// DiagramElementKind identifies the role of a diagram node
type DiagramElementKind string

const (
	ElementStart DiagramElementKind = "start"
	ElementTask  DiagramElementKind = "task"
	ElementEnd   DiagramElementKind = "end"
)

// DiagramElement is one node of a compiled diagram. The ID is a pure
// function of the source record, so recompilation is reproducible.
type DiagramElement struct {
	ID            string             `json:"id"`
	Kind          DiagramElementKind `json:"kind"`
	Label         string             `json:"label"`
	Documentation string             `json:"documentation,omitempty"`
	X             int                `json:"x"`
	Y             int                `json:"y"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
}

// DiagramFlow is a directed edge between two diagram elements.
type DiagramFlow struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// DiagramDocument is a complete linear-chain diagram. It is a leaf
// artifact: regenerated wholesale on demand, never mutated in place.
type DiagramDocument struct {
	ProcessID   string           `json:"process_id"`
	ProcessName string           `json:"process_name"`
	Elements    []DiagramElement `json:"elements"`
	Flows       []DiagramFlow    `json:"flows"`
}

// Validate checks the structural invariants: unique element ids, every
// flow endpoint resolvable, exactly one start and one end.
func (d *DiagramDocument) Validate() error {
	ids := make(map[string]struct{}, len(d.Elements))
	var starts, ends int
	for _, el := range d.Elements {
		if _, dup := ids[el.ID]; dup {
			return fmt.Errorf("duplicate element id %q", el.ID)
		}
		ids[el.ID] = struct{}{}
		switch el.Kind {
		case ElementStart:
			starts++
		case ElementEnd:
			ends++
		}
	}
	if starts != 1 {
		return fmt.Errorf("expected exactly one start element, got %d", starts)
	}
	if ends != 1 {
		return fmt.Errorf("expected exactly one end element, got %d", ends)
	}
	for _, f := range d.Flows {
		if _, ok := ids[f.SourceID]; !ok {
			return fmt.Errorf("flow %q references unknown source %q", f.ID, f.SourceID)
		}
		if _, ok := ids[f.TargetID]; !ok {
			return fmt.Errorf("flow %q references unknown target %q", f.ID, f.TargetID)
		}
	}
	return nil
}
