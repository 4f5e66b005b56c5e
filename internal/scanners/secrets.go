package scanners

import (
	"fmt"
	"regexp"

	"github.com/ragfw/ragfw/internal/types"
)

type secretPattern struct {
	re *regexp.Regexp
	id string
}

var builtinSecrets = []secretPattern{
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "aws_access_key"},
	{regexp.MustCompile(`ASIA[0-9A-Z]{16}`), "aws_temp_key"},
	{regexp.MustCompile(`(?i)aws(.{0,20})?(secret|key|access).{0,5}[:=].{0,2}[A-Za-z0-9/+=]{32,}`), "aws_secret_suspect"},
	{regexp.MustCompile(`ghp_[A-Za-z0-9]{36}`), "github_token"},
	{regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`), "google_api_key"},
	{regexp.MustCompile(`xox[abp]-\d{10,}-\d{10,}-[A-Za-z0-9-]{24,}`), "slack_token"},
	{regexp.MustCompile(`sk-[A-Za-z0-9]{32,}`), "generic_sk_token"},
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-_\.=]{20,}`), "bearer_token"},
	{regexp.MustCompile(`-----BEGIN (?:RSA|OPENSSH|EC) PRIVATE KEY-----`), "private_key"},
}

// CustomSecretID tags findings from caller-supplied patterns.
const CustomSecretID = "custom_secret"

// Secrets matches credential-shaped strings. Match carries the pattern ID,
// never the secret itself.
type Secrets struct {
	patterns []secretPattern
}

func NewSecrets(extra []string) (*Secrets, error) {
	s := &Secrets{patterns: append([]secretPattern(nil), builtinSecrets...)}
	for _, p := range extra {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("secret pattern %q: %w", p, err)
		}
		s.patterns = append(s.patterns, secretPattern{re: re, id: CustomSecretID})
	}
	return s, nil
}

// SecretIDs lists the built-in pattern IDs.
func SecretIDs() []string {
	ids := make([]string, 0, len(builtinSecrets))
	for _, p := range builtinSecrets {
		ids = append(ids, p.id)
	}
	return ids
}

func (s *Secrets) Name() string { return TypeSecrets }

func (s *Secrets) Scan(text string, _ map[string]any) ([]types.Finding, error) {
	var out []types.Finding
	for _, p := range s.patterns {
		if p.re.MatchString(text) {
			out = append(out, types.Finding{Scanner: TypeSecrets, Match: p.id, Severity: types.SevHigh})
		}
	}
	return out, nil
}
