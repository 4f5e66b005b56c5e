package policy

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragfw/ragfw/internal/types"
)

var fixedNow = time.Unix(1_760_000_000, 0)

func newEngine(t *testing.T, rules ...Rule) *Engine {
	t.Helper()
	e, err := NewEngine(rules)
	require.NoError(t, err)
	e.Now = func() time.Time { return fixedNow }
	return e
}

func doc(meta map[string]any) types.Artifact {
	if meta == nil {
		meta = map[string]any{"timestamp": float64(fixedNow.Unix())}
	}
	return types.Artifact{Text: "x", Metadata: meta}
}

func TestEvaluate_FindingsScannerAny(t *testing.T) {
	findings := []types.Finding{
		{Scanner: "pii", Match: "email", Severity: types.SevMed},
		{Scanner: "secrets", Match: "aws_access_key", Severity: types.SevHigh},
	}
	e := newEngine(t,
		Rule{Name: "deny_secrets", Match: map[string]any{"findings.scanner": "secrets"}, Action: types.ActionDeny},
		Rule{Name: "allow_default", Action: types.ActionAllow},
	)
	d := e.Evaluate(doc(nil), findings, nil, 1.0)
	assert.Equal(t, types.ActionDeny, d.Action)
	assert.Equal(t, "deny_secrets", d.Policy)
	assert.Equal(t, []string{"scanner:auto-deny", "policy:deny_secrets"}, d.Reasons)
}

func TestEvaluate_FindingsSeverityAny(t *testing.T) {
	findings := []types.Finding{{Scanner: "pii", Match: "ssn", Severity: types.SevHigh}}
	e := newEngine(t,
		Rule{Name: "deny_high", Match: map[string]any{"findings.severity": "high"}, Action: types.ActionDeny},
		Rule{Name: "allow_default", Action: types.ActionAllow},
	)
	d := e.Evaluate(doc(nil), findings, nil, 1.0)
	assert.Equal(t, types.ActionDeny, d.Action)
	assert.Equal(t, "deny_high", d.Policy)
}

func TestEvaluate_NestedURLReason(t *testing.T) {
	findings := []types.Finding{{
		Scanner: "url", Match: "evil.example.com", Severity: types.SevHigh,
		Details: map[string]any{"url": map[string]any{"reason": "denylist_domain"}},
	}}
	e := newEngine(t,
		Rule{Name: "block_denylisted_urls", Match: map[string]any{"findings.url.reason": "denylist_domain"}, Action: types.ActionDeny},
		Rule{Name: "allow_default", Action: types.ActionAllow},
	)
	d := e.Evaluate(doc(nil), findings, nil, 1.0)
	assert.Equal(t, types.ActionDeny, d.Action)
	assert.Equal(t, "block_denylisted_urls", d.Policy)
}

func TestEvaluate_AllowWhenNoDenyMatches(t *testing.T) {
	findings := []types.Finding{{Scanner: "pii", Match: "email", Severity: types.SevMed}}
	e := newEngine(t,
		Rule{Name: "deny_secrets", Match: map[string]any{"findings.scanner": "secrets"}, Action: types.ActionDeny},
		Rule{Name: "allow_default", Action: types.ActionAllow},
	)
	d := e.Evaluate(doc(nil), findings, nil, 1.0)
	assert.Equal(t, types.ActionAllow, d.Action)
	assert.Equal(t, "allow_default", d.Policy)
	assert.Equal(t, []string{"policy:allow_default:allow"}, d.Reasons)
}

func TestEvaluate_NoRulesFallsThrough(t *testing.T) {
	d := newEngine(t).Evaluate(doc(nil), nil, nil, 0.7)
	assert.Equal(t, types.Decision{Action: types.ActionAllow, Score: 0.7, Reasons: []string{}}, d)
}

func TestEvaluate_MetadataSensitivityDeny(t *testing.T) {
	e := newEngine(t, Rule{Name: "block_high_sensitivity", Match: map[string]any{"metadata.sensitivity": "high"}, Action: types.ActionDeny})
	d := e.Evaluate(doc(map[string]any{"sensitivity": "high"}), nil, nil, 1.0)
	assert.Equal(t, types.ActionDeny, d.Action)
	assert.Equal(t, "block_high_sensitivity", d.Policy)
}

func TestEvaluate_ContextMatch(t *testing.T) {
	e := newEngine(t, Rule{Name: "no_payroll_queries", Match: map[string]any{"context.query": "payroll"}, Action: types.ActionDeny})
	assert.True(t, e.Evaluate(doc(nil), nil, map[string]any{"query": "payroll"}, 1).Denied())
	assert.False(t, e.Evaluate(doc(nil), nil, map[string]any{"query": "mission"}, 1).Denied())
}

func TestEvaluate_ConjunctionRequiresAllPairs(t *testing.T) {
	e := newEngine(t, Rule{
		Name:   "both",
		Match:  map[string]any{"metadata.sensitivity": "high", "metadata.team": "hr"},
		Action: types.ActionDeny,
	})
	assert.False(t, e.Evaluate(doc(map[string]any{"sensitivity": "high"}), nil, nil, 1).Denied())
	assert.True(t, e.Evaluate(doc(map[string]any{"sensitivity": "high", "team": "hr"}), nil, nil, 1).Denied())
}

func TestEvaluate_FirstDenyIsTerminal(t *testing.T) {
	e := newEngine(t,
		Rule{Name: "first", Action: types.ActionDeny},
		Rule{Name: "second", Action: types.ActionDeny},
		Rule{Name: "later_allow", Action: types.ActionAllow},
		Rule{Name: "later_rerank", Action: types.ActionRerank, Weight: Weights{"relevance": 0.1}},
	)
	d := e.Evaluate(doc(nil), nil, nil, 1.0)
	assert.Equal(t, "first", d.Policy)
	assert.Equal(t, []string{"policy:first"}, d.Reasons)
	assert.Equal(t, 1.0, d.Score)
}

func TestEvaluate_AutoDenyFloor(t *testing.T) {
	injection := []types.Finding{{Scanner: "regex_injection", Match: "ignore previous instructions", Severity: types.SevHigh}}
	e := newEngine(t,
		Rule{Name: "prefer_recent", Action: types.ActionRerank, Weight: Weights{"recency": 0.6, "relevance": 0.4}},
		Rule{Name: "allow_all", Action: types.ActionAllow},
	)
	d := e.Evaluate(doc(nil), injection, nil, 1.0)
	assert.Equal(t, types.ActionDeny, d.Action, "allow rules cannot lift auto-deny")
	assert.Equal(t, []string{"scanner:auto-deny", "policy:prefer_recent:rerank", "policy:allow_all:allow"}, d.Reasons)

	critical := []types.Finding{{Scanner: "secrets", Match: "private_key", Severity: types.SevCritical}}
	assert.True(t, e.Evaluate(doc(nil), critical, nil, 1.0).Denied())
}

// High-severity PII is deliberately outside the auto-deny floor; only rules
// can deny it.
func TestEvaluate_AutoDenyExcludesPII(t *testing.T) {
	ssn := []types.Finding{{Scanner: "pii", Match: "ssn", Severity: types.SevHigh}}
	d := newEngine(t).Evaluate(doc(nil), ssn, nil, 1.0)
	assert.Equal(t, types.ActionAllow, d.Action)
	assert.Empty(t, d.Reasons)
}

func TestEvaluate_RerankFormula(t *testing.T) {
	e := newEngine(t, Rule{
		Name:   "weights",
		Action: types.ActionRerank,
		Weight: Weights{"recency": 0.5, "provenance": 0.2, "relevance": 0.3},
	})
	meta := map[string]any{"timestamp": float64(fixedNow.Add(-30 * 24 * time.Hour).Unix()), "source": "git://kb"}
	d := e.Evaluate(doc(meta), nil, nil, 0.5)
	// recency 1/(1+30/30)=0.5, provenance 1.0, relevance 0.5
	assert.InDelta(t, 0.5*0.5+0.2*1.0+0.3*0.5, d.Score, 1e-9)
	assert.Equal(t, types.ActionAllow, d.Action)
	assert.Equal(t, []string{"policy:weights:rerank"}, d.Reasons)
}

func TestEvaluate_RerankDefaultsAndClamp(t *testing.T) {
	e := newEngine(t, Rule{Name: "only_recency", Action: types.ActionRerank, Weight: Weights{"recency": 0.1}})
	findings := []types.Finding{
		{Scanner: "encoded", Match: "suspicious_base64_blob", Severity: types.SevHigh},
		{Scanner: "conflict", Match: "stale", Severity: types.SevMed},
	}
	// no timestamp: recency 1.0, so 0.1 - 0.3 clamps to zero
	d := e.Evaluate(doc(map[string]any{}), findings, nil, 1.0)
	assert.Equal(t, 0.0, d.Score)
}

func TestPenaltyMonotonic(t *testing.T) {
	w := Weights{"recency": 0.6, "relevance": 0.4}
	meta := map[string]any{}
	var findings []types.Finding
	prev := Rerank(w, meta, findings, 1.0, fixedNow)
	extra := []types.Finding{
		{Scanner: "url", Severity: types.SevLow},
		{Scanner: "url", Severity: types.SevHigh},
		{Scanner: "conflict", Severity: types.SevMed},
		{Scanner: "encoded", Severity: types.SevHigh},
		{Scanner: "conflict", Severity: types.SevMed},
	}
	for _, f := range extra {
		findings = append(findings, f)
		got := Rerank(w, meta, findings, 1.0, fixedNow)
		assert.LessOrEqual(t, got, prev)
		prev = got
	}
	assert.InDelta(t, 0.7, prev, 1e-9)
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := newEngine(t, Rule{Name: "r", Action: types.ActionRerank, Weight: Weights{"recency": 1}})
	meta := map[string]any{"timestamp": float64(fixedNow.Add(-48 * time.Hour).Unix())}
	a := e.Evaluate(doc(meta), nil, nil, 1)
	b := e.Evaluate(doc(types.CloneMetadata(meta)), nil, nil, 1)
	assert.Equal(t, a, b)
}

func TestNewEngine_RejectsBadRules(t *testing.T) {
	bad := []Rule{
		{Action: types.ActionAllow},
		{Name: "x", Action: "block"},
		{Name: "y", Action: types.ActionRerank, Weight: Weights{"freshness": 1}},
	}
	for _, r := range bad {
		_, err := NewEngine([]Rule{r})
		assert.True(t, errors.Is(err, ErrInvalidRule), "rule %+v: %v", r, err)
	}
}
