// Package llm wraps the external text-generation API behind a small
// interface so services can be tested against a fake.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResult is returned when the API call succeeds but yields no
// text. Callers treat it the same as a failed call for fallback
// purposes.
var ErrEmptyResult = errors.New("llm: empty generation result")

// Client issues one text-generation call against a named model.
type Client interface {
	Generate(ctx context.Context, model, prompt string, maxTokens int, temperature float64) (string, error)
}
