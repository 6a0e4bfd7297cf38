package provider

import "context"

// Generator is the text-generation backend: given a prompt, return generated
// text or fail. Empty responses are reported as errors so callers have a
// single failure path to degrade from.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
