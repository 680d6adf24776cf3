package lang

import (
	"os"
	"path/filepath"

	"codeport/config"
)

const cppFilename = "code.cpp"

// CppStrategy compiles and runs a single C++ source file.
type CppStrategy struct {
	base
}

func newCppStrategy(cfg config.LanguageConfig) Strategy {
	return &CppStrategy{base{cfg: cfg}}
}

func (s *CppStrategy) Prepare(code, workspace string) (*PreparedExecution, error) {
	path := filepath.Join(workspace, cppFilename)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return nil, &PreparationError{Language: "c++", Reason: err.Error()}
	}

	return &PreparedExecution{
		Files:      []string{cppFilename},
		CompileCmd: s.cfg.CompileCommand,
		RunCmd:     s.cfg.RunCommand,
	}, nil
}

func (s *CppStrategy) Command(prep *PreparedExecution) string {
	return joinBuildRun(prep.CompileCmd, prep.RunCmd)
}
