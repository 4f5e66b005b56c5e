package policy

import (
	"errors"
	"fmt"
	"math"

	"github.com/ragfw/ragfw/internal/types"
)

// ErrInvalidRule marks configuration faults in a rule list.
var ErrInvalidRule = errors.New("invalid policy rule")

// Rerank score components.
const (
	ComponentRecency    = "recency"
	ComponentProvenance = "provenance"
	ComponentRelevance  = "relevance"
)

// Weights maps score components to their coefficients. Missing components
// weigh zero.
type Weights map[string]float64

// Rule is a declarative match condition plus action. Match keys are dotted
// paths resolved against {metadata, context, findings}; all pairs must hold
// and an empty Match always holds.
type Rule struct {
	Name   string         `json:"name" yaml:"name"`
	Match  map[string]any `json:"match,omitempty" yaml:"match,omitempty"`
	Action types.Action   `json:"action" yaml:"action"`
	Weight Weights        `json:"weight,omitempty" yaml:"weight,omitempty"`
}

func (r Rule) validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidRule)
	}
	switch r.Action {
	case types.ActionAllow, types.ActionDeny, types.ActionRerank:
	default:
		return fmt.Errorf("%w: %s: unknown action %q", ErrInvalidRule, r.Name, r.Action)
	}
	for k, w := range r.Weight {
		switch k {
		case ComponentRecency, ComponentProvenance, ComponentRelevance:
		default:
			return fmt.Errorf("%w: %s: unknown weight component %q", ErrInvalidRule, r.Name, k)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: %s: weight %s is not finite", ErrInvalidRule, r.Name, k)
		}
	}
	return nil
}

func (r Rule) matches(env map[string]any) bool {
	for path, want := range r.Match {
		if !Matches(Resolve(env, path), want) {
			return false
		}
	}
	return true
}
