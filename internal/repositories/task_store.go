package repositories

import (
	"context"
)

// TaskStore persists the ordered save lines of a task list. WriteLines
// replaces the whole contents; a partial write must never be observable.
// Implementations wrap failures in *model.IOError.
type TaskStore interface {
	ReadLines(ctx context.Context) ([]string, error)
	WriteLines(ctx context.Context, lines []string) error
	// Backend names the implementation for logs and metrics.
	Backend() string
}

// RejectSink is implemented by stores that can keep a record of lines
// dropped during a load, so a later rewrite does not lose them for good.
type RejectSink interface {
	RecordRejected(ctx context.Context, lines []string) error
}
