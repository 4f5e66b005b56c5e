package scanners

import (
	"regexp"

	"github.com/ragfw/ragfw/internal/types"
)

var (
	reEmail = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	rePhone = regexp.MustCompile(`(?:\+?\d{1,3})?[\s.-]?(?:\(\d{2,4}\)|\d{2,4})[\s.-]?\d{3,4}[\s.-]?\d{3,4}`)
	reSSN   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
)

// PII reports at most one finding per category regardless of match count.
type PII struct{}

func (PII) Name() string { return TypePII }

func (PII) Scan(text string, _ map[string]any) ([]types.Finding, error) {
	var out []types.Finding
	if reEmail.MatchString(text) {
		out = append(out, types.Finding{Scanner: TypePII, Match: "email", Severity: types.SevMed})
	}
	if rePhone.MatchString(text) {
		out = append(out, types.Finding{Scanner: TypePII, Match: "phone", Severity: types.SevMed})
	}
	if reSSN.MatchString(text) {
		out = append(out, types.Finding{Scanner: TypePII, Match: "ssn", Severity: types.SevHigh})
	}
	return out, nil
}
