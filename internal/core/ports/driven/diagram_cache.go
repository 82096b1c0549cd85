package driven

import "context"

// DiagramCache stores compiled BPMN documents keyed by process, so
// repeated downloads of an unchanged process skip recompilation (Redis).
// Entries are tagged with a fingerprint of the compiled records; a
// fingerprint mismatch is treated as a miss.
type DiagramCache interface {
	// Get retrieves the cached XML for a process if the fingerprint
	// still matches. Returns "", false on miss.
	Get(ctx context.Context, processID, fingerprint string) (string, bool, error)

	// Set stores compiled XML under the process and fingerprint,
	// replacing any previous entry for the process.
	Set(ctx context.Context, processID, fingerprint, xml string) error

	// Invalidate drops the cached entry for a process
	Invalidate(ctx context.Context, processID string) error
}
