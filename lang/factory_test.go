package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeport/config"
)

func TestNewStrategy(t *testing.T) {
	t.Run("CaseInsensitive", func(t *testing.T) {
		s, err := NewStrategy("C++", cppConfig())
		require.NoError(t, err)
		assert.IsType(t, &CppStrategy{}, s)
	})

	t.Run("AllRegisteredLanguages", func(t *testing.T) {
		for _, name := range SupportedLanguages() {
			s, err := NewStrategy(name, config.LanguageConfig{Image: "img"})
			require.NoError(t, err)
			assert.Equal(t, "img", s.Image())
		}
	})

	t.Run("UnknownLanguage", func(t *testing.T) {
		_, err := NewStrategy("rust", config.LanguageConfig{})
		require.Error(t, err)
		var unsupported *UnsupportedLanguageError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, "rust", unsupported.Language)
		assert.Contains(t, err.Error(), "c#, c++, java")
	})
}

func TestSupportedLanguagesSorted(t *testing.T) {
	assert.Equal(t, []string{"c#", "c++", "java"}, SupportedLanguages())
}
