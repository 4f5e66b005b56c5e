package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ragfw/ragfw/internal/types"
)

func TestResolve(t *testing.T) {
	findings := []types.Finding{
		{Scanner: "pii", Match: "email", Severity: types.SevMed},
		{Scanner: "secrets", Match: "aws_access_key", Severity: types.SevHigh},
		{Scanner: "url", Match: "evil.example.com", Severity: types.SevHigh,
			Details: map[string]any{"url": map[string]any{"reason": "denylist_domain"}}},
	}
	env := Env(
		map[string]any{"sensitivity": "high", "tags": []any{"hr"}, "owner": map[string]any{"team": "payroll"}},
		map[string]any{"query": "salary"},
		findings,
	)

	tests := []struct {
		name     string
		path     string
		expected any
	}{
		{name: "metadata scalar", path: "metadata.sensitivity", expected: "high"},
		{name: "single-element list flattens", path: "metadata.tags", expected: "hr"},
		{name: "nested mapping", path: "metadata.owner.team", expected: "payroll"},
		{name: "caller context", path: "context.query", expected: "salary"},
		{name: "fan-out over findings", path: "findings.scanner", expected: []any{"pii", "secrets", "url"}},
		{name: "nested under fan-out", path: "findings.url.reason", expected: "denylist_domain"},
		{name: "missing key", path: "metadata.nope", expected: nil},
		{name: "missing root", path: "bogus.path", expected: nil},
		{name: "through scalar", path: "metadata.sensitivity.level", expected: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(env, tt.path))
		})
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches([]any{"pii", "secrets"}, "secrets"))
	assert.False(t, Matches([]any{"pii", "url"}, "secrets"))
	assert.True(t, Matches("high", "high"))
	assert.True(t, Matches(3, 3.0), "numbers compare by value")
	assert.True(t, Matches(true, true))
	assert.False(t, Matches(nil, "x"))
	assert.True(t, Matches(nil, nil), "absent path equals null")
}

func TestResolve_EmptyListYieldsNull(t *testing.T) {
	env := Env(map[string]any{"tags": []any{}}, nil, nil)
	assert.Nil(t, Resolve(env, "metadata.tags"))
	assert.Nil(t, Resolve(env, "findings.scanner"))
}
