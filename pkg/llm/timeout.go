package llm

import (
	"context"
	"time"
)

// timeoutClient applies the per-call completion deadline to a wrapped
// client. The deadline covers one Complete call only; a reasoning loop
// as a whole carries no overall deadline.
type timeoutClient struct {
	Client
	timeout time.Duration
}

// WithCallTimeout bounds every Complete call on the client with its own
// deadline. A non-positive timeout returns the client unchanged.
func WithCallTimeout(c Client, timeout time.Duration) Client {
	if timeout <= 0 {
		return c
	}
	return &timeoutClient{Client: c, timeout: timeout}
}

func (c *timeoutClient) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.Client.Complete(ctx, req)
}
