// Package bpmn compiles canonical step records into BPMN 2.0 documents.
// Compilation is a pure, stateless, single-pass function of its input:
// no counters, no timestamps, no I/O, so the same records always yield
// byte-identical XML. Only linear chains are produced; branching and
// merging topologies are out of scope.
package bpmn

import (
	"fmt"
	"strings"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
)

// Fixed chain layout. No collision avoidance, no variable sizing.
const (
	startX    = 80
	startY    = 100
	eventSize = 36

	taskBaseX  = 160
	taskStride = 150
	taskY      = 78
	taskWidth  = 100
	taskHeight = 80

	endY = 100
)

// BuildDiagram lays out the ordered records as start → task… → end.
// Zero records yield the canonical empty diagram: start linked directly
// to end.
func BuildDiagram(proc *domain.Process, steps []*domain.ProcessStep) *domain.DiagramDocument {
	doc := &domain.DiagramDocument{}
	category := domain.DefaultCategory
	if proc != nil {
		doc.ProcessID = proc.ID
		doc.ProcessName = proc.Name
		if proc.Category != "" {
			category = proc.Category
		}
	}

	doc.Elements = append(doc.Elements, domain.DiagramElement{
		ID:     startEventID,
		Kind:   domain.ElementStart,
		Label:  "Inizio",
		X:      startX,
		Y:      startY,
		Width:  eventSize,
		Height: eventSize,
	})

	prev := startEventID
	for i, step := range steps {
		id := taskID(step)
		doc.Elements = append(doc.Elements, domain.DiagramElement{
			ID:            id,
			Kind:          domain.ElementTask,
			Label:         step.Title,
			Documentation: taskDocumentation(category, step),
			X:             taskBaseX + i*taskStride,
			Y:             taskY,
			Width:         taskWidth,
			Height:        taskHeight,
		})
		doc.Flows = append(doc.Flows, domain.DiagramFlow{
			ID:       flowID(prev, id),
			SourceID: prev,
			TargetID: id,
		})
		prev = id
	}

	doc.Elements = append(doc.Elements, domain.DiagramElement{
		ID:     endEventID,
		Kind:   domain.ElementEnd,
		Label:  "Fine",
		X:      taskBaseX + len(steps)*taskStride,
		Y:      endY,
		Width:  eventSize,
		Height: eventSize,
	})
	doc.Flows = append(doc.Flows, domain.DiagramFlow{
		ID:       flowID(prev, endEventID),
		SourceID: prev,
		TargetID: endEventID,
	})

	return doc
}

// Compile is the one-call form: layout plus serialization.
func Compile(proc *domain.Process, steps []*domain.ProcessStep) string {
	return RenderXML(BuildDiagram(proc, steps))
}

// taskDocumentation assembles the human-readable block shown by viewers
// when a task is inspected. The pain-points line is omitted entirely
// when empty.
func taskDocumentation(category string, step *domain.ProcessStep) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fase: %s\n", category)
	fmt.Fprintf(&b, "%s\n", step.Description)
	fmt.Fprintf(&b, "Durata: %d min\n", step.DurationMinutes)
	fmt.Fprintf(&b, "Frequenza: %d/mese\n", step.FrequencyPerMonth)
	fmt.Fprintf(&b, "Tool: %s\n", strings.Join(step.Tools, ", "))
	fmt.Fprintf(&b, "Input: %s\n", strings.Join(step.Inputs, ", "))
	fmt.Fprintf(&b, "Output: %s", strings.Join(step.Outputs, ", "))
	if step.PainPoints != "" {
		fmt.Fprintf(&b, "\nCriticità: %s", step.PainPoints)
	}
	return b.String()
}

// RenderXML serializes a diagram document into BPMN 2.0 interchange
// XML: one definitions element holding the process semantics and the
// diagram section with one shape per node and one edge per flow.
func RenderXML(doc *domain.DiagramDocument) string {
	procRef := sanitizeID(doc.ProcessID)
	if procRef == "" {
		procRef = "1"
	}
	processID := "Process_" + procRef

	// Index flows by endpoint for the incoming/outgoing child elements.
	incoming := make(map[string][]string)
	outgoing := make(map[string][]string)
	for _, f := range doc.Flows {
		outgoing[f.SourceID] = append(outgoing[f.SourceID], f.ID)
		incoming[f.TargetID] = append(incoming[f.TargetID], f.ID)
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL"` +
		` xmlns:bpmndi="http://www.omg.org/spec/BPMN/20100524/DI"` +
		` xmlns:dc="http://www.omg.org/spec/DD/20100524/DC"` +
		` xmlns:di="http://www.omg.org/spec/DD/20100524/DI"` +
		` id="Definitions_` + procRef + `"` +
		` targetNamespace="http://bpmn.io/schema/bpmn">` + "\n")

	fmt.Fprintf(&b, `  <bpmn:process id="%s" name="%s" isExecutable="false">`+"\n",
		processID, Escape(doc.ProcessName))

	for _, el := range doc.Elements {
		tag := ""
		switch el.Kind {
		case domain.ElementStart:
			tag = "startEvent"
		case domain.ElementEnd:
			tag = "endEvent"
		default:
			tag = "task"
		}

		fmt.Fprintf(&b, `    <bpmn:%s id="%s" name="%s">`+"\n", tag, el.ID, Escape(el.Label))
		if el.Documentation != "" {
			fmt.Fprintf(&b, "      <bpmn:documentation>%s</bpmn:documentation>\n", Escape(el.Documentation))
		}
		for _, id := range incoming[el.ID] {
			fmt.Fprintf(&b, "      <bpmn:incoming>%s</bpmn:incoming>\n", id)
		}
		for _, id := range outgoing[el.ID] {
			fmt.Fprintf(&b, "      <bpmn:outgoing>%s</bpmn:outgoing>\n", id)
		}
		fmt.Fprintf(&b, "    </bpmn:%s>\n", tag)
	}

	for _, f := range doc.Flows {
		fmt.Fprintf(&b, `    <bpmn:sequenceFlow id="%s" sourceRef="%s" targetRef="%s" />`+"\n",
			f.ID, f.SourceID, f.TargetID)
	}
	b.WriteString("  </bpmn:process>\n")

	// Diagram interchange section: shapes carry bounds, edges carry the
	// two waypoints of the straight connector.
	b.WriteString(`  <bpmndi:BPMNDiagram id="BPMNDiagram_1">` + "\n")
	fmt.Fprintf(&b, `    <bpmndi:BPMNPlane id="BPMNPlane_1" bpmnElement="%s">`+"\n", processID)

	byID := make(map[string]domain.DiagramElement, len(doc.Elements))
	for _, el := range doc.Elements {
		byID[el.ID] = el
		fmt.Fprintf(&b, `      <bpmndi:BPMNShape id="%s_di" bpmnElement="%s">`+"\n", el.ID, el.ID)
		fmt.Fprintf(&b, `        <dc:Bounds x="%d" y="%d" width="%d" height="%d" />`+"\n",
			el.X, el.Y, el.Width, el.Height)
		b.WriteString("      </bpmndi:BPMNShape>\n")
	}

	for _, f := range doc.Flows {
		src, dst := byID[f.SourceID], byID[f.TargetID]
		fmt.Fprintf(&b, `      <bpmndi:BPMNEdge id="%s_di" bpmnElement="%s">`+"\n", f.ID, f.ID)
		fmt.Fprintf(&b, `        <di:waypoint x="%d" y="%d" />`+"\n", src.X+src.Width, src.Y+src.Height/2)
		fmt.Fprintf(&b, `        <di:waypoint x="%d" y="%d" />`+"\n", dst.X, dst.Y+dst.Height/2)
		b.WriteString("      </bpmndi:BPMNEdge>\n")
	}

	b.WriteString("    </bpmndi:BPMNPlane>\n")
	b.WriteString("  </bpmndi:BPMNDiagram>\n")
	b.WriteString("</bpmn:definitions>\n")
	return b.String()
}
