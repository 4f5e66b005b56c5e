// Package scanners holds the finding extractors run over every artifact.
// Scanners are stateless per call; configuration is fixed at construction.
package scanners

import (
	"unicode/utf8"

	"github.com/ragfw/ragfw/internal/types"
)

// Scanner types as they appear in findings and configuration.
const (
	TypeInjection = "regex_injection"
	TypePII       = "pii"
	TypeSecrets   = "secrets"
	TypeEncoded   = "encoded"
	TypeURL       = "url"
	TypeConflict  = "conflict"
)

// Scanner extracts findings from an artifact's text and metadata. Built-in
// scanners never fail; the error return exists for custom implementations.
type Scanner interface {
	Name() string
	Scan(text string, meta map[string]any) ([]types.Finding, error)
}

// Types lists the built-in scanner types in pipeline order.
func Types() []string {
	return []string{TypeInjection, TypePII, TypeSecrets, TypeEncoded, TypeURL, TypeConflict}
}

// Defaults returns every built-in scanner with default parameters.
func Defaults() []Scanner {
	inj, _ := NewInjection(nil)
	sec, _ := NewSecrets(nil)
	return []Scanner{
		inj,
		PII{},
		sec,
		NewEncoded(0, 0),
		NewURL(nil, nil),
		NewConflict(0),
	}
}

type funcScanner struct {
	name string
	fn   func(string, map[string]any) ([]types.Finding, error)
}

func (f funcScanner) Name() string { return f.name }

func (f funcScanner) Scan(text string, meta map[string]any) ([]types.Finding, error) {
	return f.fn(text, meta)
}

// FromFunc adapts a plain function into a Scanner.
func FromFunc(name string, fn func(text string, meta map[string]any) ([]types.Finding, error)) Scanner {
	return funcScanner{name: name, fn: fn}
}

// truncate caps s at n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
