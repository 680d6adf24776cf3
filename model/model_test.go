package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatResult(t *testing.T) {
	t.Run("SuccessIncludesVerbatimOutput", func(t *testing.T) {
		r := ExecutionResult{
			Success:       true,
			Output:        "hello world\n42",
			ExecutionTime: 1.2345,
		}

		out := r.FormatResult()
		assert.Contains(t, out, "Execution Time: 1.234s")
		assert.Contains(t, out, "Execution Successful")
		assert.Contains(t, out, "hello world\n42")
	})

	t.Run("SuccessWithoutOutput", func(t *testing.T) {
		r := ExecutionResult{Success: true}

		out := r.FormatResult()
		assert.Contains(t, out, "Execution Successful")
		assert.Contains(t, out, "(no output produced)")
	})

	t.Run("FailureIncludesVerbatimError", func(t *testing.T) {
		r := ExecutionResult{
			Success: false,
			Error:   "segmentation fault (core dumped)",
		}

		out := r.FormatResult()
		assert.Contains(t, out, "Execution Failed")
		assert.Contains(t, out, "segmentation fault (core dumped)")
		assert.NotContains(t, out, "Execution Successful")
	})
}
