package scanners

import (
	"fmt"
	"regexp"

	"github.com/ragfw/ragfw/internal/types"
)

const maxInjectionMatch = 120

// DefaultInjectionPatterns cover common instruction-override phrasings.
var DefaultInjectionPatterns = []string{
	`(?i)ignore (all|previous) instructions`,
	`(?i)reveal (the )?system prompt`,
	`(?i)disregard all rules`,
}

// Injection flags prompt-injection phrasing with one finding per matching pattern.
type Injection struct {
	patterns []*regexp.Regexp
}

// NewInjection compiles patterns, falling back to DefaultInjectionPatterns
// when none are given.
func NewInjection(patterns []string) (*Injection, error) {
	if len(patterns) == 0 {
		patterns = DefaultInjectionPatterns
	}
	s := &Injection{}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("injection pattern %q: %w", p, err)
		}
		s.patterns = append(s.patterns, re)
	}
	return s, nil
}

func (s *Injection) Name() string { return TypeInjection }

func (s *Injection) Scan(text string, _ map[string]any) ([]types.Finding, error) {
	var out []types.Finding
	for _, re := range s.patterns {
		if m := re.FindString(text); m != "" {
			out = append(out, types.Finding{
				Scanner:  TypeInjection,
				Match:    truncate(m, maxInjectionMatch),
				Severity: types.SevHigh,
			})
		}
	}
	return out, nil
}
