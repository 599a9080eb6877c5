package llm

import (
	"context"
	"fmt"
)

// Client is one configured text-generation model. Implementations make a
// single network call per Generate and return the raw model text.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// RetryableError indicates a transient provider failure (rate limit or
// server error) that is worth retrying.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
