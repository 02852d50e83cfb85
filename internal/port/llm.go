package port

import "context"

// LLM is a single text-completion capability. The same capability is used
// for classification, decomposition, and synthesis, each with its own
// prompt contract.
type LLM interface {
	// Complete generates text from system instructions and a user payload.
	Complete(ctx context.Context, system, user string) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
