package gateway

import (
	"context"
)

// Gateway is the external language-model service invoked for AI commands.
// Implementations must be safe for concurrent use.
type Gateway interface {
	// Complete issues one request and returns the full completion.
	Complete(ctx context.Context, prompt string) (string, error)

	// Stream issues one request and returns the completion as a sequence of
	// incremental text fragments.
	Stream(ctx context.Context, prompt string) (Stream, error)
}

// Stream yields the incremental fragments of one completion.
type Stream interface {
	// Recv returns the next non-empty fragment. It returns io.EOF when the
	// fragment sequence has ended normally.
	Recv() (string, error)

	// Close releases the underlying response.
	Close() error
}
