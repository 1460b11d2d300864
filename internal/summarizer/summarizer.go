// Package summarizer is the opaque text-summarization collaborator used by
// the review aggregation path.
package summarizer

import "context"

// Summarizer produces a short description for a cafe from its accumulated
// review signals. An empty string with a nil error means "nothing to say";
// callers keep the previous summary in that case.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// HealthPinger is optionally implemented to expose a liveness probe.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
