package bpmn

import (
	"fmt"
	"strings"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
)

// Element id prefixes. Ids are pure functions of the record identity so
// recompiling the same records is byte-identical; there is no counter.
const (
	startEventID = "StartEvent_1"
	endEventID   = "EndEvent_1"
	taskPrefix   = "Task_"
	flowPrefix   = "Flow_"
)

// taskID derives the diagram id for one step record. The persistent
// step id is preferred; unpersisted records (previews) fall back to the
// ordinal, which is unique within one document.
func taskID(step *domain.ProcessStep) string {
	ref := step.ID
	if ref == "" {
		ref = fmt.Sprintf("%d", step.Ordinal)
	}
	return taskPrefix + sanitizeID(ref)
}

// flowID derives the id of the edge between two elements.
func flowID(sourceID, targetID string) string {
	return flowPrefix + sourceID + "_" + targetID
}

// sanitizeID maps an arbitrary store id onto the NCName-safe alphabet
// accepted by diagram viewers. The mapping is deterministic, so derived
// ids stay reproducible.
func sanitizeID(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
