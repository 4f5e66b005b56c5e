package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ragfw/ragfw/internal/policy"
	"github.com/ragfw/ragfw/internal/scanners"
	"github.com/ragfw/ragfw/internal/types"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

const fullConfig = `
scanners:
  - type: regex_injection
  - type: pii
    enabled: false
  - type: secrets
    extra_patterns: ["INTERNAL-[0-9]{6}"]
  - type: encoded
    min_len: 100
    ratio_threshold: 0.5
  - type: url
    allowlist: [example.com]
    denylist: [evil.example.com]
  - type: conflict
    stale_days: 30
policies:
  - name: block_high_sensitivity
    match: {metadata.sensitivity: high}
    action: deny
  - name: prefer_recent
    action: rerank
    weight: {recency: 0.6, relevance: 0.4}
graph:
  text_fields: {Meeting: [summary, minutes]}
  edge_text_fields: {has_note: [text]}
audit:
  path: /tmp/ragfw-audit.jsonl
provenance:
  backend: badger
  path: /tmp/prov
workers: 4
`

func TestLoadFile_Full(t *testing.T) {
	p := writeTemp(t, t.TempDir(), "ragfw.yaml", fullConfig)
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cfg.Scanners) != 6 || len(cfg.Policies) != 2 {
		t.Fatalf("unexpected sections: %d scanners, %d policies", len(cfg.Scanners), len(cfg.Policies))
	}
	if cfg.Scanners[3].MinLen == nil || *cfg.Scanners[3].MinLen != 100 {
		t.Fatalf("expected min_len=100, got %#v", cfg.Scanners[3].MinLen)
	}
	if cfg.Policies[1].Weight["recency"] != 0.6 {
		t.Fatalf("expected recency weight 0.6, got %v", cfg.Policies[1].Weight)
	}
	if cfg.WorkerCount() != 4 {
		t.Fatalf("expected workers=4, got %d", cfg.WorkerCount())
	}
	if cfg.AuditPath() != "/tmp/ragfw-audit.jsonl" {
		t.Fatalf("unexpected audit path %q", cfg.AuditPath())
	}
	backend, path := cfg.ProvenanceBackend()
	if backend != "badger" || path != "/tmp/prov" {
		t.Fatalf("unexpected provenance %s %s", backend, path)
	}
}

func TestBuild_Full(t *testing.T) {
	cfg, err := LoadFile(writeTemp(t, t.TempDir(), "ragfw.yaml", fullConfig))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	b, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var names []string
	for _, s := range b.Scanners {
		names = append(names, s.Name())
	}
	want := []string{"regex_injection", "secrets", "encoded", "url", "conflict"}
	if len(names) != len(want) {
		t.Fatalf("expected %v (pii disabled), got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
	if b.Rules[0].Action != types.ActionDeny || b.Rules[0].Match["metadata.sensitivity"] != "high" {
		t.Fatalf("unexpected first rule %#v", b.Rules[0])
	}
	if b.Rules[1].Weight[policy.ComponentRelevance] != 0.4 {
		t.Fatalf("unexpected weights %#v", b.Rules[1].Weight)
	}
	if got := b.Schema.NodeFields["Meeting"]; len(got) != 2 || got[0] != "summary" {
		t.Fatalf("unexpected schema %#v", b.Schema)
	}

	f, _ := b.Scanners[1].Scan("ticket INTERNAL-123456", nil)
	if len(f) != 1 || f[0].Match != scanners.CustomSecretID {
		t.Fatalf("expected custom secret finding, got %#v", f)
	}
}

func TestBuild_ExplicitZeroParameters(t *testing.T) {
	cfg, err := LoadFile(writeTemp(t, t.TempDir(), "ragfw.yaml", `
scanners:
  - type: encoded
    min_len: 0
    ratio_threshold: 0
  - type: conflict
    stale_days: 0
  - type: conflict
`))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	b, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	enc := b.Scanners[0].(scanners.Encoded)
	if enc.MinLen != 0 || enc.RatioThreshold != 0 {
		t.Fatalf("explicit zeros replaced by defaults: %+v", enc)
	}
	if got := b.Scanners[1].(scanners.Conflict).StaleDays; got != 0 {
		t.Fatalf("stale_days = %v, want 0", got)
	}
	if got := b.Scanners[2].(scanners.Conflict).StaleDays; got != scanners.DefaultStaleDays {
		t.Fatalf("unset stale_days = %v, want %v", got, scanners.DefaultStaleDays)
	}

	f, _ := b.Scanners[1].Scan("", map[string]any{"timestamp": time.Now().Add(-time.Hour).Unix()})
	if len(f) != 1 || f[0].Match != "stale" {
		t.Fatalf("stale_days 0 should flag any dated artifact, got %#v", f)
	}
}

func TestBuild_DefaultsWithoutScannersSection(t *testing.T) {
	b, err := Build(FileConfig{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(b.Scanners) != len(scanners.Types()) {
		t.Fatalf("expected every built-in scanner, got %d", len(b.Scanners))
	}
	if len(b.Rules) != 0 {
		t.Fatalf("expected no rules, got %d", len(b.Rules))
	}
}

func TestBuild_Faults(t *testing.T) {
	cases := []struct {
		name string
		body string
		is   error
	}{
		{"unknown scanner", "scanners:\n  - type: toxicity\n", ErrUnknownScanner},
		{"bad action", "policies:\n  - name: x\n    action: block\n", nil},
		{"missing name", "policies:\n  - action: deny\n", nil},
		{"bad weight key", "policies:\n  - name: x\n    action: rerank\n    weight: {freshness: 1}\n", nil},
		{"bad ratio", "scanners:\n  - type: encoded\n    ratio_threshold: 2\n", nil},
		{"bad pattern", "scanners:\n  - type: regex_injection\n    patterns: [\"(unclosed\"]\n", nil},
		{"bad provenance backend", "provenance:\n  backend: mongo\n", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadFile(writeTemp(t, t.TempDir(), "ragfw.yaml", tc.body))
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			_, err = Build(cfg)
			if err == nil {
				t.Fatal("expected configuration fault")
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected %v, got %v", tc.is, err)
			}
		})
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	// place both, expect the dotfile to be picked first by search order
	writeTemp(t, dir, "ragfw.yaml", "workers: 1\n")
	writeTemp(t, dir, ".ragfw.yaml", "workers: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.WorkerCount() != 7 {
		t.Fatalf("expected workers=7 from .ragfw.yaml, got %d", cfg.WorkerCount())
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	if _, err := LoadLocal(t.TempDir()); err == nil {
		t.Fatal("expected error when no local config exists")
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "ragfw")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTemp(t, cfgDir, "config.yml", "workers: 9\n")
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.WorkerCount() != 9 {
		t.Fatalf("expected workers=9 from global config, got %d", cfg.WorkerCount())
	}
}

func TestResolve_FallsBackToZero(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Resolve("", t.TempDir())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Scanners != nil || cfg.Policies != nil {
		t.Fatalf("expected zero config, got %#v", cfg)
	}
}

func TestResolve_ExplicitPathMissing(t *testing.T) {
	if _, err := Resolve(filepath.Join(t.TempDir(), "nope.yaml"), ""); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}
