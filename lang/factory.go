package lang

import (
	"sort"
	"strings"

	"codeport/config"
)

// strategies is the fixed registry of language constructors. Adding a
// language means adding one strategy type and one entry here.
var strategies = map[string]func(config.LanguageConfig) Strategy{
	"c++":  newCppStrategy,
	"java": newJavaStrategy,
	"c#":   newCsharpStrategy,
}

// NewStrategy builds the strategy for a language (case-insensitive).
// Unregistered languages yield an UnsupportedLanguageError.
func NewStrategy(language string, cfg config.LanguageConfig) (Strategy, error) {
	constructor, ok := strategies[strings.ToLower(language)]
	if !ok {
		return nil, &UnsupportedLanguageError{
			Language:  language,
			Supported: SupportedLanguages(),
		}
	}
	return constructor(cfg), nil
}

// SupportedLanguages returns the registered language identifiers, sorted.
func SupportedLanguages() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
