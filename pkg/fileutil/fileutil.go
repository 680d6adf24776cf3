// Package fileutil provides small file helpers for persisting converted
// code and staging temporary snippets.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var extensions = map[string]string{
	"python": ".py",
	"go":     ".go",
	"c#":     ".cs",
	"c++":    ".cpp",
	"java":   ".java",
}

const defaultBaseName = "converted_code"

// Extension returns the file extension for a language, ".txt" when unknown.
func Extension(language string) string {
	if ext, ok := extensions[strings.ToLower(language)]; ok {
		return ext
	}
	return ".txt"
}

// SaveCode writes code to disk under a language-appropriate extension and
// returns the absolute path. An empty filename gets a default name; a
// filename missing the extension gets it appended. An empty dir writes into
// the working directory.
func SaveCode(code, language, filename, dir string) (string, error) {
	ext, ok := extensions[strings.ToLower(language)]
	if !ok {
		return "", fmt.Errorf("unsupported language: %s", language)
	}

	if filename == "" {
		filename = defaultBaseName + ext
	} else if !strings.HasSuffix(filename, ext) {
		filename += ext
	}

	path := filename
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to save file: %w", err)
		}
		path = filepath.Join(dir, filename)
	}

	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// TempFile writes code to a fresh temp file with the given extension and
// returns its path. The caller owns removal.
func TempFile(code, extension string) (string, error) {
	f, err := os.CreateTemp("", "codeport-*"+extension)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.WriteString(code); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return f.Name(), nil
}

// CleanupTempFile removes a temp file if present; best effort.
func CleanupTempFile(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err == nil {
		os.Remove(path)
	}
}
