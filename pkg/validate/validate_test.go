package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoSnippet(t *testing.T) {
	t.Run("FullProgram", func(t *testing.T) {
		assert.NoError(t, GoSnippet("package main\n\nfunc main() {}\n"))
	})

	t.Run("BareSnippetWrapped", func(t *testing.T) {
		assert.NoError(t, GoSnippet("func add(a, b int) int { return a + b }"))
	})

	t.Run("SyntaxError", func(t *testing.T) {
		err := GoSnippet("func main() {")
		assert.ErrorContains(t, err, "invalid Go code")
	})
}

func TestNonEmptyCode(t *testing.T) {
	assert.NoError(t, NonEmptyCode("x := 1"))
	assert.Error(t, NonEmptyCode(""))
	assert.Error(t, NonEmptyCode("   \n\t"))
}

func TestAPIKey(t *testing.T) {
	assert.NoError(t, APIKey("AIzaSyD-examplekey1234567890"))
	assert.ErrorContains(t, APIKey(""), "must not be empty")
	assert.ErrorContains(t, APIKey("short"), "too short")
	assert.ErrorContains(t, APIKey(" AIzaSyD-examplekey1234567890 "), "whitespace")
}
