package interp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSubprocessRunner(t *testing.T) {
	r := NewSubprocessRunner(zaptest.NewLogger(t))
	if !r.Available() {
		t.Skip("go toolchain not on PATH")
	}

	t.Run("HelloWorld", func(t *testing.T) {
		result := r.Run(context.Background(), `package main

import "fmt"

func main() {
	fmt.Println("from subprocess")
}
`)
		require.True(t, result.Success, "error: %s", result.Error)
		assert.Contains(t, result.Output, "from subprocess")
	})

	t.Run("StderrChatterDoesNotTaintSuccess", func(t *testing.T) {
		result := r.Run(context.Background(), `package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "progress note")
	fmt.Println("done")
}
`)
		require.True(t, result.Success, "error: %s", result.Error)
		assert.Contains(t, result.Output, "done")
		assert.Empty(t, result.Error)
	})

	t.Run("CompileErrorInStderr", func(t *testing.T) {
		result := r.Run(context.Background(), "package main\n\nfunc main() { undefined() }\n")
		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "undefined")
	})
}
