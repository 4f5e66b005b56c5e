package scanners

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/ragfw/ragfw/internal/types"
)

var reURL = regexp.MustCompile(`(?i)https?://[\w\-\.:%#@/\?=~\+,&]+`)

// URL reasons.
const (
	ReasonDenylist       = "denylist_domain"
	ReasonNonAllowlisted = "non_allowlisted_domain"
	ReasonURLFound       = "url_found"
)

// URL classifies every http(s) URL against allow and deny domain lists.
// Entries match the host exactly or as a parent domain.
type URL struct {
	allow []string
	deny  []string
}

func NewURL(allowlist, denylist []string) URL {
	return URL{allow: normalizeDomains(allowlist), deny: normalizeDomains(denylist)}
}

func normalizeDomains(in []string) []string {
	var out []string
	for _, d := range in {
		d = strings.Trim(strings.ToLower(strings.TrimSpace(d)), ".")
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

func (URL) Name() string { return TypeURL }

func (s URL) Scan(text string, _ map[string]any) ([]types.Finding, error) {
	var out []types.Finding
	for _, raw := range reURL.FindAllString(text, -1) {
		host := ""
		if u, err := url.Parse(raw); err == nil {
			host = strings.ToLower(u.Hostname())
		}
		sev, reason := s.classify(host)
		match := host
		if match == "" {
			match = raw
		}
		out = append(out, types.Finding{
			Scanner:  TypeURL,
			Match:    match,
			Severity: sev,
			Reason:   reason,
			Details:  map[string]any{"url": map[string]any{"host": host, "reason": reason, "raw": raw}},
		})
	}
	return out, nil
}

func (s URL) classify(host string) (types.Severity, string) {
	if len(s.deny) > 0 && domainIn(host, s.deny) {
		return types.SevHigh, ReasonDenylist
	}
	if len(s.allow) > 0 && !domainIn(host, s.allow) {
		return types.SevHigh, ReasonNonAllowlisted
	}
	return types.SevLow, ReasonURLFound
}

func domainIn(host string, list []string) bool {
	for _, d := range list {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
