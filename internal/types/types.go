package types

// Severity is a coarse-grained risk level for a finding.
type Severity string

const (
	SevLow      Severity = "low"
	SevMed      Severity = "medium"
	SevHigh     Severity = "high"
	SevCritical Severity = "critical"
)

// AtLeastHigh reports whether s is high or critical.
func (s Severity) AtLeastHigh() bool { return s == SevHigh || s == SevCritical }

// Finding is a structured detection emitted by one scanner for one artifact.
// Details carries scanner-specific fields; its keys are visible to policy
// matching next to the fixed ones (e.g. findings.url.reason).
type Finding struct {
	Scanner  string         `json:"scanner"`
	Match    string         `json:"match"`
	Severity Severity       `json:"severity,omitempty"`
	Reason   string         `json:"reason,omitempty"`
	Error    string         `json:"error,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// Fields flattens the finding into the mapping shape used by policy paths.
func (f Finding) Fields() map[string]any {
	out := make(map[string]any, 4+len(f.Details))
	for k, v := range f.Details {
		out[k] = v
	}
	out["scanner"] = f.Scanner
	out["match"] = f.Match
	if f.Severity != "" {
		out["severity"] = string(f.Severity)
	}
	if f.Reason != "" {
		out["reason"] = f.Reason
	}
	if f.Error != "" {
		out["error"] = f.Error
	}
	return out
}

// Action is the verdict or rule action.
type Action string

const (
	ActionAllow  Action = "allow"
	ActionDeny   Action = "deny"
	ActionRerank Action = "rerank"
)

// Artifact is one retrieved unit of content (a chunk, or a graph node or edge
// flattened to text).
type Artifact struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Clone returns a copy whose top-level metadata map is not shared with a.
func (a Artifact) Clone() Artifact {
	return Artifact{Text: a.Text, Metadata: CloneMetadata(a.Metadata)}
}

// Decision is the outcome of policy evaluation for one artifact.
type Decision struct {
	Action  Action   `json:"action"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
	Policy  string   `json:"policy,omitempty"`
}

// Denied reports whether the decision drops the artifact.
func (d Decision) Denied() bool { return d.Action == ActionDeny }

// VerdictKey is the reserved metadata key under which evaluated artifacts
// carry their Verdict.
const VerdictKey = "_ragfw"

// Verdict is the decision attached to an evaluated artifact so consumers can
// inspect it without scanning again.
type Verdict struct {
	Decision Action    `json:"decision"`
	Score    float64   `json:"score"`
	Reasons  []string  `json:"reasons"`
	Policy   string    `json:"policy,omitempty"`
	Findings []Finding `json:"findings"`
}

// VerdictOf returns the verdict attached to a, if any.
func VerdictOf(a Artifact) (Verdict, bool) {
	v, ok := a.Metadata[VerdictKey].(Verdict)
	return v, ok
}
