package llm

import (
	"context"
	"errors"
)

// StreamClient abstracts LLM providers for cover letter generation. The
// returned Stream yields text chunks as the provider produces them.
type StreamClient interface {
	Generate(ctx context.Context, input GenerateInput) (Stream, error)
}

// Stream is a sequence of text chunks. Recv returns io.EOF after the last
// chunk; Close releases the underlying connection and is safe to call more
// than once.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// GenerateInput captures the inputs for cover letter generation.
type GenerateInput struct {
	JobTitle        string
	Company         string
	JobNotes        string
	ResumeText      string
	TemplateContent string
	PromptVersion   string
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation used when no provider is
// configured.
type PlaceholderClient struct{}

// Generate returns ErrNotImplemented.
func (PlaceholderClient) Generate(ctx context.Context, input GenerateInput) (Stream, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}
