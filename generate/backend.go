// Package generate holds the LLM backends that translate source code
// between languages. Backends produce raw code text; validation and
// sandboxed execution of the result happen elsewhere.
package generate

import (
	"context"
	"fmt"
	"strings"
)

// ConvertOptions describes one conversion call.
type ConvertOptions struct {
	Code           string
	SourceLanguage string
	TargetLanguage string
	AddComments    bool
}

// StreamFunc receives the accumulated text so far after each chunk, so a
// caller can render a growing preview rather than stitch deltas itself.
type StreamFunc func(accumulated string)

// Backend is a code-conversion model.
type Backend interface {
	Name() string

	// Convert returns the converted code as a single response.
	Convert(ctx context.Context, opts ConvertOptions) (string, error)

	// ConvertStream streams the conversion, invoking fn after each chunk,
	// and returns the final accumulated text.
	ConvertStream(ctx context.Context, opts ConvertOptions, fn StreamFunc) (string, error)

	// Available reports whether the backend is configured to make calls.
	Available() bool
}

// UnavailableError marks a call against a backend that has no credentials.
type UnavailableError struct {
	Backend string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s API key is required but not provided", e.Backend)
}

// CallError wraps a failed backend API call.
type CallError struct {
	Backend string
	Err     error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s API call failed: %s", e.Backend, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// CleanResponse strips a single markdown code fence wrapping the model
// output. Models are instructed to answer with bare code but sometimes
// fence it anyway.
func CleanResponse(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	lines := strings.Split(cleaned, "\n")
	if len(lines) < 2 {
		return cleaned
	}

	// Drop the opening fence with its optional language tag.
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
