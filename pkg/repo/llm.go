package repo

import "context"

type LLMRepo interface {
	// Enabled reports whether a provider is configured.
	Enabled() bool
	Complete(ctx context.Context, system string, prompt string) (string, error)
}
