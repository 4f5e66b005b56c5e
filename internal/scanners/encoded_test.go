package scanners

import (
	"strings"
	"testing"
)

func TestEncoded_FlagsBase64Blob(t *testing.T) {
	s := NewEncoded(120, 0.33)
	fs, _ := s.Scan(strings.Repeat("QmFzZTY0IGJsb2IgZm9yIGRldGVjdG9ycy4g", 6), nil)
	if len(fs) != 1 || fs[0].Scanner != TypeEncoded || fs[0].Match != "suspicious_base64_blob" {
		t.Fatalf("expected encoded finding, got %#v", fs)
	}
}

func TestEncoded_AllConditionsRequired(t *testing.T) {
	s := NewEncoded(120, 0.35)
	blob := strings.Repeat("QmFzZTY0IGJsb2IgZm9yIGRldGVjdG9ycy4g", 6)

	cases := map[string]string{
		"too short":   blob[:100],
		"no long run": strings.Repeat("plain words in prose ", 20),
		"low ratio":   strings.Repeat("!@#$%^&*() ", 40) + blob[:40],
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			if fs, _ := s.Scan(text, nil); len(fs) != 0 {
				t.Fatalf("expected no findings, got %#v", fs)
			}
		})
	}
}

func TestEncoded_Defaults(t *testing.T) {
	s := NewEncoded(0, 0)
	if s.MinLen != DefaultEncodedMinLen || s.RatioThreshold != DefaultEncodedRatio {
		t.Fatalf("unexpected defaults %#v", s)
	}
}
