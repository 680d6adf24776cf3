package executor

import (
	"fmt"
	"strings"
)

// EngineUnavailableMsg is the fixed diagnostic returned when the isolation
// runtime could not be reached at startup.
const EngineUnavailableMsg = "Docker is not available. Please ensure Docker is installed and running."

// classifyError maps raw runtime errors onto operator-friendly diagnostics
// so failures can be triaged without inspecting Docker exceptions.
func classifyError(err error) string {
	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(msg, "No such container"):
		return "Container was removed unexpectedly. This might be a Docker configuration issue."
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "deadline exceeded"):
		return "Execution timed out. Your code might be running an infinite loop or taking too long."
	case strings.Contains(lower, "permission denied"):
		return "Permission denied. Check Docker permissions and file access rights."
	case strings.Contains(lower, "no space left"):
		return "No disk space available for code execution."
	default:
		return fmt.Sprintf("Execution failed: %s", msg)
	}
}
