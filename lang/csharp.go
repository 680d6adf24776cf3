package lang

import (
	"os"
	"path/filepath"
	"strings"

	"codeport/config"
)

const (
	csharpSourceFile  = "Program.cs"
	csharpProjectFile = "Program.csproj"
)

const csprojContent = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <OutputType>Exe</OutputType>
    <TargetFramework>net8.0</TargetFramework>
    <ImplicitUsings>enable</ImplicitUsings>
    <Nullable>enable</Nullable>
  </PropertyGroup>
</Project>
`

// CsharpStrategy is project-based: it writes Program.cs plus a minimal
// generated project manifest, wrapping bare snippets in an entry point.
type CsharpStrategy struct {
	base
}

func newCsharpStrategy(cfg config.LanguageConfig) Strategy {
	return &CsharpStrategy{base{cfg: cfg}}
}

func (s *CsharpStrategy) Prepare(code, workspace string) (*PreparedExecution, error) {
	source := wrapCsharpCode(code)

	if err := os.WriteFile(filepath.Join(workspace, csharpSourceFile), []byte(source), 0o644); err != nil {
		return nil, &PreparationError{Language: "c#", Reason: err.Error()}
	}
	if err := os.WriteFile(filepath.Join(workspace, csharpProjectFile), []byte(csprojContent), 0o644); err != nil {
		return nil, &PreparationError{Language: "c#", Reason: err.Error()}
	}

	return &PreparedExecution{
		Files:  []string{csharpSourceFile, csharpProjectFile},
		RunCmd: s.cfg.RunCommand,
	}, nil
}

// Command runs the project; `dotnet run` restores, builds, and executes as
// one step, so no separate compile phase is needed.
func (s *CsharpStrategy) Command(prep *PreparedExecution) string {
	return joinBuildRun(prep.CompileCmd, prep.RunCmd)
}

// wrapCsharpCode leaves code that already declares an entry point or a class
// untouched; bare statement snippets are embedded verbatim inside a
// generated Main with fixed usings.
func wrapCsharpCode(code string) string {
	if strings.Contains(code, "static void Main") || strings.Contains(code, "class ") {
		return code
	}

	var b strings.Builder
	b.WriteString("using System;\n")
	b.WriteString("using System.Collections.Generic;\n")
	b.WriteString("using System.Linq;\n\n")
	b.WriteString("namespace Program\n{\n")
	b.WriteString("    class Program\n    {\n")
	b.WriteString("        static void Main(string[] args)\n        {\n")
	b.WriteString(indentCode(code, 12))
	b.WriteString("\n        }\n    }\n}\n")
	return b.String()
}

// indentCode indents every non-blank line by the given number of spaces.
func indentCode(code string, spaces int) string {
	indent := strings.Repeat(" ", spaces)
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}
