package llm

import "context"

type Provider interface {
	// Generate answers the question using only contextBlock; the concrete
	// providers carry the grounding system instruction.
	Generate(ctx context.Context, question string, contextBlock string) (string, error)
}
