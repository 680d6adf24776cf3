package lang

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"codeport/config"
)

var (
	publicClassRe = regexp.MustCompile(`public\s+class\s+(\w+)`)
	anyClassRe    = regexp.MustCompile(`class\s+(\w+)`)
)

const classNamePlaceholder = "{class_name}"

// JavaStrategy writes the source under the name of its entry class and
// resolves the {class_name} placeholder in the command templates.
type JavaStrategy struct {
	base
}

func newJavaStrategy(cfg config.LanguageConfig) Strategy {
	return &JavaStrategy{base{cfg: cfg}}
}

func (s *JavaStrategy) Prepare(code, workspace string) (*PreparedExecution, error) {
	className := extractClassName(code)
	if className == "" {
		return nil, &PreparationError{
			Language: "java",
			Reason:   "could not determine entry type: code contains no class declaration",
		}
	}

	filename := className + ".java"
	if err := os.WriteFile(filepath.Join(workspace, filename), []byte(code), 0o644); err != nil {
		return nil, &PreparationError{Language: "java", Reason: err.Error()}
	}

	return &PreparedExecution{
		Files:      []string{filename},
		ClassName:  className,
		CompileCmd: strings.ReplaceAll(s.cfg.CompileCommand, classNamePlaceholder, className),
		RunCmd:     strings.ReplaceAll(s.cfg.RunCommand, classNamePlaceholder, className),
	}, nil
}

func (s *JavaStrategy) Command(prep *PreparedExecution) string {
	return joinBuildRun(prep.CompileCmd, prep.RunCmd)
}

// extractClassName scans Java source for a public class first, falling back
// to any class declaration. Returns "" when no class is found.
func extractClassName(code string) string {
	if m := publicClassRe.FindStringSubmatch(code); m != nil {
		return m[1]
	}
	if m := anyClassRe.FindStringSubmatch(code); m != nil {
		return m[1]
	}
	return ""
}
