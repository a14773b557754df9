package extractor

import "context"

// Response is the raw reply of the keyword-extraction service.
// A non-zero ReturnCode means the service reported an error in Error.
type Response struct {
	ReturnCode int
	Output     string
	Error      string
}

// Service sends a single prompt to the external service.
// An error means the call itself could not be made.
type Service interface {
	Query(ctx context.Context, prompt string) (Response, error)
}

// ServiceFunc adapts a function to the Service interface.
type ServiceFunc func(ctx context.Context, prompt string) (Response, error)

// Query calls f(ctx, prompt).
func (f ServiceFunc) Query(ctx context.Context, prompt string) (Response, error) {
	return f(ctx, prompt)
}
