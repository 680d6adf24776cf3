// Package validate holds lightweight input checks shared by the service
// layer and the transports.
package validate

import (
	"fmt"
	"go/parser"
	"go/token"
	"strings"
)

// GoSnippet checks that a Go snippet parses. Bare snippets without a
// package clause are wrapped in a main package before parsing, matching
// how the runners treat them.
func GoSnippet(code string) error {
	source := code
	if !strings.Contains(source, "package ") {
		source = "package main\n\n" + source
	}

	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, "snippet.go", source, parser.AllErrors); err != nil {
		return fmt.Errorf("invalid Go code: %w", err)
	}
	return nil
}

// NonEmptyCode rejects blank or whitespace-only submissions before they
// reach a backend or the sandbox.
func NonEmptyCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("code must not be empty")
	}
	return nil
}

// APIKey performs a shape check only; real validation happens on first use.
func APIKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return fmt.Errorf("API key must not be empty")
	}
	if len(trimmed) < 16 {
		return fmt.Errorf("API key looks too short")
	}
	if trimmed != key {
		return fmt.Errorf("API key has surrounding whitespace")
	}
	return nil
}
