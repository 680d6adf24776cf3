// Package lang holds the per-language build/run strategies used by the
// sandboxed executor. A strategy knows how to materialize source code into
// a workspace and which single shell command builds and runs it.
package lang

import (
	"strings"
	"time"

	"codeport/config"
)

// PreparedExecution is the transient product of a Prepare call: the files
// written into the workspace and the resolved command templates. It lives
// for one execution and is discarded once the container finishes.
type PreparedExecution struct {
	Files      []string
	ClassName  string
	CompileCmd string
	RunCmd     string
}

// Strategy is the per-language policy for preparing source code and
// producing a build+run command.
type Strategy interface {
	// Prepare writes the source into the workspace using language-appropriate
	// naming and returns what was written plus the resolved commands.
	Prepare(code, workspace string) (*PreparedExecution, error)

	// Command returns a single shell command that builds and runs the
	// prepared code as one atomic step, so both phases' output interleaves
	// in the container log.
	Command(prep *PreparedExecution) string

	Image() string
	WorkingDir() string
	Timeout() time.Duration
}

// base provides the config-backed accessors shared by all strategies.
type base struct {
	cfg config.LanguageConfig
}

func (b base) Image() string {
	return b.cfg.Image
}

func (b base) WorkingDir() string {
	return b.cfg.WorkDir()
}

func (b base) Timeout() time.Duration {
	return b.cfg.TimeoutDuration()
}

// joinBuildRun combines a compile and a run command into one atomic shell
// step. An empty compile command yields just the run command.
func joinBuildRun(compileCmd, runCmd string) string {
	if strings.TrimSpace(compileCmd) == "" {
		return runCmd
	}
	return compileCmd + " && " + runCmd
}
