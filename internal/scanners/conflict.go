package scanners

import (
	"time"

	"github.com/ragfw/ragfw/internal/types"
)

const DefaultStaleDays = 180

// Conflict flags deprecated and stale artifacts from their metadata.
type Conflict struct {
	StaleDays float64
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewConflict(staleDays float64) Conflict {
	if staleDays <= 0 {
		staleDays = DefaultStaleDays
	}
	return Conflict{StaleDays: staleDays}
}

func (Conflict) Name() string { return TypeConflict }

func (s Conflict) Scan(_ string, meta map[string]any) ([]types.Finding, error) {
	var out []types.Finding
	if types.Truthy(meta["deprecated"]) || meta["status"] == "deprecated" {
		out = append(out, types.Finding{Scanner: TypeConflict, Match: "deprecated", Severity: types.SevMed})
	}
	if ts, ok := types.Timestamp(meta["timestamp"]); ok {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		ageDays := now().Sub(ts).Hours() / 24
		if ageDays > s.StaleDays {
			out = append(out, types.Finding{Scanner: TypeConflict, Match: "stale", Severity: types.SevMed})
		}
	}
	return out, nil
}
