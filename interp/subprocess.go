package interp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"codeport/model"
	"codeport/pkg/fileutil"
)

// SubprocessRunner executes Go snippets through a local toolchain as a
// `go run` child process. Unlike the in-process interpreter it supports the
// full standard library and is preemptible, but it requires go on PATH.
type SubprocessRunner struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewSubprocessRunner builds a toolchain-backed runner with the default
// 30s timeout.
func NewSubprocessRunner(logger *zap.Logger) *SubprocessRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubprocessRunner{
		timeout: defaultTimeout,
		logger:  logger,
	}
}

// Available reports whether a go toolchain is on PATH.
func (r *SubprocessRunner) Available() bool {
	_, err := exec.LookPath("go")
	return err == nil
}

// Run writes the snippet to a temp file, executes it with `go run`, and
// removes the file regardless of outcome.
func (r *SubprocessRunner) Run(ctx context.Context, code string) model.ExecutionResult {
	start := time.Now()

	if !r.Available() {
		return model.ExecutionResult{
			Success: false,
			Error:   "go toolchain not found on PATH",
		}
	}

	source := wrapInMainPackage(code)

	path, err := fileutil.TempFile(source, ".go")
	if err != nil {
		return model.ExecutionResult{
			Success:       false,
			Error:         err.Error(),
			ExecutionTime: time.Since(start).Seconds(),
		}
	}
	defer fileutil.CleanupTempFile(path)

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, "go", "run", path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	elapsed := time.Since(start).Seconds()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return model.ExecutionResult{
			Success:       false,
			Output:        stdout.String(),
			Error:         fmt.Sprintf("execution timed out after %v", r.timeout),
			ExecutionTime: elapsed,
		}
	}
	if err != nil {
		msg := stderr.String()
		if msg == "" {
			msg = err.Error()
		}
		return model.ExecutionResult{
			Success:       false,
			Output:        stdout.String(),
			Error:         msg,
			ExecutionTime: elapsed,
		}
	}

	return model.ExecutionResult{
		Success:       true,
		Output:        stdout.String(),
		ExecutionTime: elapsed,
	}
}
