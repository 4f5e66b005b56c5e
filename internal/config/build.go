package config

import (
	"fmt"

	"github.com/ragfw/ragfw/internal/graph"
	"github.com/ragfw/ragfw/internal/policy"
	"github.com/ragfw/ragfw/internal/scanners"
	"github.com/ragfw/ragfw/internal/types"
)

// Built is the runtime form of a FileConfig.
type Built struct {
	Scanners []scanners.Scanner
	Rules    []policy.Rule
	Schema   graph.Schema
}

func knownScanner(t string) bool {
	for _, k := range scanners.Types() {
		if k == t {
			return true
		}
	}
	return false
}

// Build validates fc and constructs its scanners and rules. A config without
// a scanners section gets every built-in scanner with default parameters.
func Build(fc FileConfig) (Built, error) {
	var b Built
	if err := fc.Validate(); err != nil {
		return b, err
	}
	if fc.Scanners == nil {
		b.Scanners = scanners.Defaults()
	}
	for i, sc := range fc.Scanners {
		s, err := buildScanner(sc)
		if err != nil {
			return Built{}, fmt.Errorf("scanners[%d]: %w", i, err)
		}
		if s != nil {
			b.Scanners = append(b.Scanners, s)
		}
	}
	for _, rc := range fc.Policies {
		b.Rules = append(b.Rules, policy.Rule{
			Name:   rc.Name,
			Match:  rc.Match,
			Action: types.Action(rc.Action),
			Weight: policy.Weights(rc.Weight),
		})
	}
	if _, err := policy.NewEngine(b.Rules); err != nil {
		return Built{}, err
	}
	if fc.Graph != nil {
		b.Schema = *fc.Graph
	}
	return b, nil
}

// buildScanner returns nil for a disabled scanner.
func buildScanner(sc ScannerConfig) (scanners.Scanner, error) {
	switch sc.Type {
	case scanners.TypeInjection:
		return scanners.NewInjection(sc.Patterns)
	case scanners.TypePII:
		if sc.Enabled != nil && !*sc.Enabled {
			return nil, nil
		}
		return scanners.PII{}, nil
	case scanners.TypeSecrets:
		return scanners.NewSecrets(sc.ExtraPatterns)
	case scanners.TypeEncoded:
		// explicit zeros are honored; only unset values take the defaults
		enc := scanners.NewEncoded(0, 0)
		if sc.MinLen != nil {
			enc.MinLen = *sc.MinLen
		}
		if sc.RatioThreshold != nil {
			enc.RatioThreshold = *sc.RatioThreshold
		}
		return enc, nil
	case scanners.TypeURL:
		return scanners.NewURL(sc.Allowlist, sc.Denylist), nil
	case scanners.TypeConflict:
		c := scanners.NewConflict(0)
		if sc.StaleDays != nil {
			c.StaleDays = *sc.StaleDays
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownScanner, sc.Type)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
