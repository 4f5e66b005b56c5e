package firewall

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/ragfw/ragfw/internal/audit"
	"github.com/ragfw/ragfw/internal/policy"
	"github.com/ragfw/ragfw/internal/scanners"
	"github.com/ragfw/ragfw/internal/types"
	"golang.org/x/sync/errgroup"
)

// Derived metadata flags added before policy evaluation.
const (
	FlagHasSecrets      = "has_secrets"
	FlagHasHighFindings = "has_high_findings"
)

// ScannerError is the scanner name of synthetic findings recorded when a
// scanner fails.
const ScannerError = "error"

// Config wires scanners, rules and side channels into a Firewall.
type Config struct {
	Scanners []scanners.Scanner
	Rules    []policy.Rule
	// Audit defaults to audit.Nop.
	Audit  audit.Sink
	Logger *slog.Logger
	// Workers bounds Evaluate's parallelism; 0 means GOMAXPROCS.
	Workers int
	Now     func() time.Time
}

// Firewall is immutable after New and safe for concurrent use.
type Firewall struct {
	scanners []scanners.Scanner
	engine   *policy.Engine
	audit    audit.Sink
	log      *slog.Logger
	workers  int
	now      func() time.Time
}

func New(cfg Config) (*Firewall, error) {
	eng, err := policy.NewEngine(cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	for i, s := range cfg.Scanners {
		if s == nil {
			return nil, fmt.Errorf("scanner %d is nil", i)
		}
	}
	fw := &Firewall{
		scanners: append([]scanners.Scanner(nil), cfg.Scanners...),
		engine:   eng,
		audit:    cfg.Audit,
		log:      cfg.Logger,
		workers:  cfg.Workers,
		now:      cfg.Now,
	}
	if fw.audit == nil {
		fw.audit = audit.Nop{}
	}
	if fw.log == nil {
		fw.log = slog.Default().With(slog.String("component", "firewall"))
	}
	if fw.workers <= 0 {
		fw.workers = runtime.GOMAXPROCS(0)
	}
	if fw.now == nil {
		fw.now = time.Now
	}
	eng.Now = fw.now
	return fw, nil
}

// Scanners returns the configured scanner names in pipeline order.
func (fw *Firewall) Scanners() []string {
	out := make([]string, len(fw.scanners))
	for i, s := range fw.scanners {
		out[i] = s.Name()
	}
	return out
}

// Rules returns the configured policy rules.
func (fw *Firewall) Rules() []policy.Rule { return fw.engine.Rules() }

// Decide scans a, derives flags, evaluates policy and audits the outcome. The
// caller's artifact is not modified.
func (fw *Firewall) Decide(ctx context.Context, a types.Artifact, baseScore float64, caller map[string]any) (types.Decision, []types.Finding) {
	d, findings, _ := fw.decide(ctx, a, baseScore, caller)
	return d, findings
}

// decide additionally returns the enriched clone the policy saw.
func (fw *Firewall) decide(ctx context.Context, a types.Artifact, baseScore float64, caller map[string]any) (types.Decision, []types.Finding, types.Artifact) {
	findings := fw.scan(a)

	enriched := a.Clone()
	enriched.Metadata[FlagHasSecrets] = anyFinding(findings, func(f types.Finding) bool {
		return f.Scanner == scanners.TypeSecrets
	})
	enriched.Metadata[FlagHasHighFindings] = anyFinding(findings, func(f types.Finding) bool {
		return f.Severity == types.SevHigh
	})

	d := fw.engine.Evaluate(enriched, findings, caller, baseScore)
	fw.record(ctx, enriched, d, findings)
	observe(d, findings)
	fw.log.Debug("decision", "action", d.Action, "score", d.Score, "policy", d.Policy, "findings", len(findings))
	return d, findings, enriched
}

func (fw *Firewall) scan(a types.Artifact) []types.Finding {
	findings := []types.Finding{}
	for _, s := range fw.scanners {
		fs, err := runScanner(s, a)
		if err != nil {
			fw.log.Warn("scanner failed", "scanner", s.Name(), "err", err)
			scannerErrors.WithLabelValues(s.Name()).Inc()
			findings = append(findings, types.Finding{
				Scanner: ScannerError,
				Match:   s.Name(),
				Reason:  "scanner_failure",
				Error:   err.Error(),
			})
			continue
		}
		findings = append(findings, fs...)
	}
	return findings
}

// runScanner converts a panic into an error so one scanner cannot abort the
// pipeline.
func runScanner(s scanners.Scanner, a types.Artifact) (fs []types.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			fs, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Scan(a.Text, a.Metadata)
}

// record appends the audit event. Failures are logged and counted only.
func (fw *Firewall) record(ctx context.Context, a types.Artifact, d types.Decision, findings []types.Finding) {
	ev := audit.Event{
		ID:          uuid.NewString(),
		Timestamp:   fw.now().UTC(),
		ContentHash: contentHash(a.Metadata),
		Decision:    d.Action,
		Score:       d.Score,
		Reasons:     d.Reasons,
		Findings:    findings,
		Policy:      d.Policy,
	}
	if err := fw.audit.Append(ctx, ev); err != nil {
		auditFailures.Inc()
		fw.log.Warn("audit append failed", "err", err)
	}
}

func contentHash(meta map[string]any) string {
	for _, k := range []string{"hash", "content_hash"} {
		if s, ok := meta[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func anyFinding(fs []types.Finding, pred func(types.Finding) bool) bool {
	for _, f := range fs {
		if pred(f) {
			return true
		}
	}
	return false
}

// EvaluateOne decides a and returns an annotated copy carrying the verdict
// under types.VerdictKey next to the derived flags.
func (fw *Firewall) EvaluateOne(ctx context.Context, a types.Artifact, baseScore float64, caller map[string]any) types.Artifact {
	d, findings, out := fw.decide(ctx, a, baseScore, caller)
	out.Metadata[types.VerdictKey] = types.Verdict{
		Decision: d.Action,
		Score:    d.Score,
		Reasons:  d.Reasons,
		Policy:   d.Policy,
		Findings: findings,
	}
	return out
}

// Evaluate annotates every artifact and preserves input order. Artifacts are
// decided in parallel; the result is only returned once all are decided.
func (fw *Firewall) Evaluate(ctx context.Context, arts []types.Artifact, baseScore float64, caller map[string]any) ([]types.Artifact, error) {
	out := make([]types.Artifact, len(arts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fw.workers)
	for i := range arts {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = fw.EvaluateOne(gctx, arts[i], baseScore, caller)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
