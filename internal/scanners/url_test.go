package scanners

import (
	"testing"

	"github.com/ragfw/ragfw/internal/types"
)

func TestURL_AllowAndDenyLists(t *testing.T) {
	s := NewURL([]string{"good.example.com"}, []string{"evil.example.com"})
	fs, _ := s.Scan("See https://good.example.com/x and https://evil.example.com/y", nil)
	byHost := map[string]types.Finding{}
	for _, f := range fs {
		byHost[f.Match] = f
	}
	if f := byHost["good.example.com"]; f.Severity != types.SevLow || f.Reason != ReasonURLFound {
		t.Fatalf("good host: %#v", f)
	}
	if f := byHost["evil.example.com"]; f.Severity != types.SevHigh || f.Reason != ReasonDenylist {
		t.Fatalf("evil host: %#v", f)
	}
}

func TestURL_NonAllowlisted(t *testing.T) {
	s := NewURL([]string{"docs.myco.com"}, nil)
	fs, _ := s.Scan("Visit https://other.org/page", nil)
	if len(fs) != 1 || fs[0].Reason != ReasonNonAllowlisted || fs[0].Severity != types.SevHigh {
		t.Fatalf("expected non_allowlisted_domain, got %#v", fs)
	}
}

func TestURL_SubdomainMatches(t *testing.T) {
	s := NewURL([]string{"myco.com"}, nil)
	fs, _ := s.Scan("https://docs.myco.com/a https://notmyco.com/b", nil)
	if len(fs) != 2 {
		t.Fatalf("expected 2 findings, got %#v", fs)
	}
	if fs[0].Reason != ReasonURLFound {
		t.Fatalf("subdomain should be allowlisted: %#v", fs[0])
	}
	if fs[1].Reason != ReasonNonAllowlisted {
		t.Fatalf("suffix without dot must not match: %#v", fs[1])
	}
}

func TestURL_DenylistWinsOverAllowlist(t *testing.T) {
	s := NewURL([]string{"example.com"}, []string{"evil.example.com"})
	fs, _ := s.Scan("https://evil.example.com", nil)
	if len(fs) != 1 || fs[0].Reason != ReasonDenylist {
		t.Fatalf("expected denylist precedence, got %#v", fs)
	}
}

func TestURL_OneFindingPerOccurrence(t *testing.T) {
	fs, _ := NewURL(nil, nil).Scan("http://a.com http://a.com", nil)
	if len(fs) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(fs))
	}
	details, ok := fs[0].Fields()["url"].(map[string]any)
	if !ok || details["reason"] != ReasonURLFound {
		t.Fatalf("expected nested url details, got %#v", fs[0].Details)
	}
}
