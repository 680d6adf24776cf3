// Package interp runs Go snippets on the host, either in-process through
// the yaegi interpreter with a restricted import surface, or as a `go run`
// subprocess. It is a convenience path for quickly checking converted Go
// output; the container sandbox remains the isolation boundary for
// untrusted code.
package interp

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/token"
	"sort"
	"strings"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"

	"codeport/model"
)

const defaultTimeout = 30 * time.Second

// allowedPackages is the import allow-list for in-process interpretation.
// Filesystem, process, network, and unsafe access stay blocked; the snippet
// runs inside this process, so the restriction is best effort rather than a
// hard boundary.
var allowedPackages = map[string]bool{
	"bufio":           true,
	"bytes":           true,
	"container/heap":  true,
	"container/list":  true,
	"container/ring":  true,
	"encoding/base64": true,
	"encoding/csv":    true,
	"encoding/hex":    true,
	"encoding/json":   true,
	"errors":          true,
	"fmt":             true,
	"math":            true,
	"math/big":        true,
	"math/bits":       true,
	"math/cmplx":      true,
	"math/rand":       true,
	"regexp":          true,
	"sort":            true,
	"strconv":         true,
	"strings":         true,
	"time":            true,
	"unicode":         true,
	"unicode/utf8":    true,
}

// Interpreter evaluates Go code in-process with yaegi.
type Interpreter struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewInterpreter builds an in-process runner with the default 30s timeout.
func NewInterpreter(logger *zap.Logger) *Interpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{
		timeout: defaultTimeout,
		logger:  logger,
	}
}

// Available always reports true: the interpreter ships with the binary.
func (it *Interpreter) Available() bool {
	return true
}

// Run evaluates the snippet and captures its stdout and stderr. Evaluating
// a main package runs its main function. The snippet cannot be preempted
// once started; on timeout the goroutine is abandoned and a timeout result
// is returned.
func (it *Interpreter) Run(code string) model.ExecutionResult {
	start := time.Now()

	source := wrapInMainPackage(code)

	if err := validateImports(source); err != nil {
		return model.ExecutionResult{
			Success:       false,
			Error:         err.Error(),
			ExecutionTime: time.Since(start).Seconds(),
		}
	}

	var stdout, stderr bytes.Buffer
	i := interp.New(interp.Options{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err := i.Use(restrictedSymbols()); err != nil {
		return model.ExecutionResult{
			Success:       false,
			Error:         fmt.Sprintf("failed to load interpreter symbols: %s", err),
			ExecutionTime: time.Since(start).Seconds(),
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := i.Eval(source)
		done <- err
	}()

	select {
	case err := <-done:
		elapsed := time.Since(start).Seconds()
		if err != nil {
			msg := err.Error()
			if stderr.Len() > 0 {
				msg = fmt.Sprintf("%s\n%s", msg, stderr.String())
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

	case <-time.After(it.timeout):
		it.logger.Warn("Interpreted execution timed out", zap.Duration("timeout", it.timeout))
		return model.ExecutionResult{
			Success:       false,
			Output:        stdout.String(),
			Error:         fmt.Sprintf("execution timed out after %v", it.timeout),
			ExecutionTime: time.Since(start).Seconds(),
		}
	}
}

// restrictedSymbols filters the yaegi stdlib export table down to the
// allow-listed packages. Symbol keys are "<import path>/<package name>".
func restrictedSymbols() interp.Exports {
	filtered := make(interp.Exports)
	for key, symbols := range stdlib.Symbols {
		idx := strings.LastIndex(key, "/")
		if idx < 0 {
			continue
		}
		if allowedPackages[key[:idx]] {
			filtered[key] = symbols
		}
	}
	return filtered
}

// validateImports parses the snippet's import declarations and rejects
// anything outside the allow-list before evaluation starts.
func validateImports(source string) error {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "snippet.go", source, parser.ImportsOnly)
	if err != nil {
		return fmt.Errorf("failed to parse code: %w", err)
	}

	var forbidden []string
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		if !allowedPackages[path] {
			forbidden = append(forbidden, path)
		}
	}
	if len(forbidden) > 0 {
		return fmt.Errorf("forbidden imports: %s (allowed: %s)",
			strings.Join(forbidden, ", "), strings.Join(allowedList(), ", "))
	}
	return nil
}

func allowedList() []string {
	names := make([]string, 0, len(allowedPackages))
	for name := range allowedPackages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// wrapInMainPackage prefixes bare snippets with a package clause so yaegi
// treats them as a runnable program.
func wrapInMainPackage(code string) string {
	if strings.Contains(code, "package main") {
		return code
	}
	return "package main\n\n" + code
}
