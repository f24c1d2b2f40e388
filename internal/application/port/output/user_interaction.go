package output

import "context"

type PromptPort interface {
	// Ask returns true when the run should continue.
	Ask(ctx context.Context, question string, seconds int) (bool, error)
}
