package lang

import (
	"fmt"
	"strings"
)

// PreparationError means the source could not be mapped to a valid
// per-language file or project, e.g. Java code with no class declaration.
type PreparationError struct {
	Language string
	Reason   string
}

func (e *PreparationError) Error() string {
	return fmt.Sprintf("failed to prepare %s code: %s", e.Language, e.Reason)
}

// UnsupportedLanguageError is returned by the factory for languages with no
// registered strategy. It carries the supported set for the caller's message.
type UnsupportedLanguageError struct {
	Language  string
	Supported []string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %s. Supported: %s",
		e.Language, strings.Join(e.Supported, ", "))
}
