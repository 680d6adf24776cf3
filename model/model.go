package model

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ExecutionResult is the uniform outcome record for any code execution,
// whether it ran in a container or in the in-process interpreter.
// Constructed once and never mutated; Success implies Error is empty.
type ExecutionResult struct {
	Success       bool    `json:"success"`
	Output        string  `json:"output"`
	Error         string  `json:"error,omitempty"`
	ExecutionTime float64 `json:"execution_time"`
}

// FormatResult renders the result as a human-readable multi-line summary.
// The literal output or error text is included verbatim.
func (r ExecutionResult) FormatResult() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Execution Time: %.3fs\n\n", r.ExecutionTime)

	if r.Success {
		b.WriteString(color.GreenString("Execution Successful"))
		b.WriteString("\n\n")
		if r.Output != "" {
			fmt.Fprintf(&b, "Output:\n%s\n", r.Output)
		} else {
			b.WriteString("Output: (no output produced)\n")
		}
	} else {
		b.WriteString(color.RedString("Execution Failed"))
		b.WriteString("\n\n")
		if r.Error != "" {
			fmt.Fprintf(&b, "Error:\n%s\n", r.Error)
		}
	}

	return b.String()
}

// LanguageInfo describes one configured target language, used by callers
// to pre-flight a request before committing to an execution.
type LanguageInfo struct {
	Language      string `json:"language"`
	Image         string `json:"image"`
	WorkingDir    string `json:"working_dir"`
	Timeout       int    `json:"timeout"`
	FileExtension string `json:"file_extension"`
	ProjectBased  bool   `json:"project_based"`
}

// ConvertRequest asks the service to translate source code into a target language.
type ConvertRequest struct {
	Code           string `json:"code"`
	TargetLanguage string `json:"target_language"`
	AddComments    bool   `json:"add_comments,omitempty"`
}

// ConvertResponse carries the converted code or a failure diagnostic.
type ConvertResponse struct {
	Code          string `json:"code,omitempty"`
	Error         string `json:"error,omitempty"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}

// ExecuteRequest asks the service to run source code in a sandbox.
type ExecuteRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// ExecuteResponse wraps an ExecutionResult for the wire.
type ExecuteResponse struct {
	Output        string  `json:"output"`
	Error         string  `json:"error,omitempty"`
	StatusMessage string  `json:"status_message"`
	Success       bool    `json:"success"`
	ExecutionTime float64 `json:"execution_time,omitempty"`
}
