package policy

import (
	"math"
	"time"

	"github.com/ragfw/ragfw/internal/scanners"
	"github.com/ragfw/ragfw/internal/types"
)

const recencyHalfLifeDays = 30.0

// Recency decays with artifact age: 1/(1+age_days/30). Artifacts without a
// timestamp score 1.
func Recency(meta map[string]any, now time.Time) float64 {
	ts, ok := types.Timestamp(meta["timestamp"])
	if !ok {
		return 1.0
	}
	age := math.Max(0, now.Sub(ts).Hours()/24)
	return 1.0 / (1.0 + age/recencyHalfLifeDays)
}

// Provenance is 1 for artifacts with a known source, 0.8 otherwise.
func Provenance(meta map[string]any) float64 {
	if types.Present(meta, "source") {
		return 1.0
	}
	return 0.8
}

// Penalty accumulates 0.2 for high-severity encoded or URL findings and 0.1
// for any conflict finding.
func Penalty(findings []types.Finding) float64 {
	var highRisk, conflict bool
	for _, f := range findings {
		switch f.Scanner {
		case scanners.TypeEncoded, scanners.TypeURL:
			if f.Severity == types.SevHigh {
				highRisk = true
			}
		case scanners.TypeConflict:
			conflict = true
		}
	}
	p := 0.0
	if highRisk {
		p += 0.2
	}
	if conflict {
		p += 0.1
	}
	return p
}

// Rerank computes max(0, Σ weight·component − penalty).
func Rerank(w Weights, meta map[string]any, findings []types.Finding, baseScore float64, now time.Time) float64 {
	sum := w[ComponentRecency]*Recency(meta, now) +
		w[ComponentProvenance]*Provenance(meta) +
		w[ComponentRelevance]*baseScore
	return math.Max(0, sum-Penalty(findings))
}
