// Package policy turns findings, artifact metadata and caller context into a
// single decision through ordered rule matching.
package policy

import (
	"fmt"
	"time"

	"github.com/ragfw/ragfw/internal/scanners"
	"github.com/ragfw/ragfw/internal/types"
)

const autoDenyReason = "scanner:auto-deny"

// Engine evaluates an immutable rule list. It is safe for concurrent use.
type Engine struct {
	rules []Rule
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewEngine validates rules and fixes their order.
func NewEngine(rules []Rule) (*Engine, error) {
	for i, r := range rules {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return &Engine{rules: append([]Rule(nil), rules...)}, nil
}

// Rules returns a copy of the configured rules.
func (e *Engine) Rules() []Rule { return append([]Rule(nil), e.rules...) }

type state struct {
	action   types.Action
	score    float64
	reasons  []string
	policy   string
	autoDeny bool
}

type input struct {
	env       map[string]any
	meta      map[string]any
	findings  []types.Finding
	baseScore float64
	now       time.Time
}

// Evaluate applies the auto-deny floor then folds the rules in order. The
// first matching deny rule is terminal; allow and rerank rules accumulate.
func (e *Engine) Evaluate(a types.Artifact, findings []types.Finding, caller map[string]any, baseScore float64) types.Decision {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	in := input{
		env:       Env(a.Metadata, caller, findings),
		meta:      a.Metadata,
		findings:  findings,
		baseScore: baseScore,
		now:       now(),
	}

	st := state{action: types.ActionAllow, score: baseScore, reasons: []string{}}
	if autoDeny(findings) {
		st.action = types.ActionDeny
		st.autoDeny = true
		st.reasons = append(st.reasons, autoDenyReason)
	}
	for _, r := range e.rules {
		var stop bool
		st, stop = step(st, r, in)
		if stop {
			break
		}
	}
	return types.Decision{Action: st.action, Score: st.score, Reasons: st.reasons, Policy: st.policy}
}

// step applies one rule and reports whether evaluation must stop.
func step(st state, r Rule, in input) (state, bool) {
	if !r.matches(in.env) {
		return st, false
	}
	st.policy = r.Name
	switch r.Action {
	case types.ActionDeny:
		st.action = types.ActionDeny
		st.reasons = append(st.reasons, "policy:"+r.Name)
		return st, true
	case types.ActionRerank:
		st.score = Rerank(r.Weight, in.meta, in.findings, in.baseScore, in.now)
		st.reasons = append(st.reasons, "policy:"+r.Name+":rerank")
	case types.ActionAllow:
		// auto-deny is a floor that allow rules cannot lift
		if !st.autoDeny {
			st.action = types.ActionAllow
		}
		st.reasons = append(st.reasons, "policy:"+r.Name+":allow")
	}
	return st, false
}

func autoDeny(findings []types.Finding) bool {
	for _, f := range findings {
		if (f.Scanner == scanners.TypeInjection || f.Scanner == scanners.TypeSecrets) && f.Severity.AtLeastHigh() {
			return true
		}
	}
	return false
}
