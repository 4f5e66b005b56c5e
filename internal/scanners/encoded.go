package scanners

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/ragfw/ragfw/internal/types"
)

const (
	DefaultEncodedMinLen = 200
	DefaultEncodedRatio  = 0.35
)

var reBase64Run = regexp.MustCompile(`[A-Za-z0-9+/]{40,}={0,2}`)

// Encoded flags obfuscated payloads. Length, base64 alphabet ratio and a
// contiguous base64 run must all hold.
type Encoded struct {
	MinLen         int
	RatioThreshold float64
}

// NewEncoded applies defaults for non-positive arguments.
func NewEncoded(minLen int, ratio float64) Encoded {
	if minLen <= 0 {
		minLen = DefaultEncodedMinLen
	}
	if ratio <= 0 {
		ratio = DefaultEncodedRatio
	}
	return Encoded{MinLen: minLen, RatioThreshold: ratio}
}

func (Encoded) Name() string { return TypeEncoded }

func (s Encoded) Scan(text string, _ map[string]any) ([]types.Finding, error) {
	if utf8.RuneCountInString(text) < s.MinLen {
		return nil, nil
	}
	if base64Ratio(text) < s.RatioThreshold || !reBase64Run.MatchString(text) {
		return nil, nil
	}
	return []types.Finding{{Scanner: TypeEncoded, Match: "suspicious_base64_blob", Severity: types.SevHigh}}, nil
}

// base64Ratio is the share of base64-alphabet characters in text once
// whitespace is removed.
func base64Ratio(text string) float64 {
	total, hits := 0, 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '/' || r == '=' {
			hits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
