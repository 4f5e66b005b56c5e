package core

import (
	"fmt"
	"os"

	"github.com/ragfw/ragfw/internal/config"
	"github.com/ragfw/ragfw/internal/firewall"
	"github.com/ragfw/ragfw/internal/graph"
	"github.com/ragfw/ragfw/internal/logging"
	"github.com/ragfw/ragfw/internal/policy"
	"github.com/ragfw/ragfw/internal/scanners"
	"github.com/ragfw/ragfw/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Artifact = types.Artifact
	Finding  = types.Finding
	Decision = types.Decision
	Verdict  = types.Verdict
	Action   = types.Action

	Rule    = policy.Rule
	Weights = policy.Weights
	Scanner = scanners.Scanner

	Config   = firewall.Config
	Firewall = firewall.Firewall

	Retriever     = firewall.Retriever
	RetrieverFunc = firewall.RetrieverFunc
	SafeRetriever = firewall.SafeRetriever

	Subgraph  = graph.Subgraph
	Node      = graph.Node
	Edge      = graph.Edge
	Path      = graph.Path
	Schema    = graph.Schema
	Sanitizer = graph.Sanitizer
)

const (
	ActionAllow  = types.ActionAllow
	ActionDeny   = types.ActionDeny
	ActionRerank = types.ActionRerank
)

// New builds a firewall from explicit scanners and rules.
func New(cfg Config) (*Firewall, error) { return firewall.New(cfg) }

// NewFromFile builds a firewall from a YAML config. An empty path falls back
// to the local and then the global config, and finally to built-in defaults.
// The returned func releases the audit backend.
func NewFromFile(path string) (*Firewall, func(), error) {
	wd, _ := os.Getwd()
	fc, err := config.Resolve(path, wd)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	built, err := config.Build(fc)
	if err != nil {
		return nil, nil, err
	}
	sink, closeFn := fc.OpenAudit()
	fw, err := firewall.New(firewall.Config{
		Scanners: built.Scanners,
		Rules:    built.Rules,
		Audit:    sink,
		Logger:   logging.New("firewall"),
		Workers:  fc.WorkerCount(),
	})
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return fw, closeFn, nil
}

// DefaultScanners returns the built-in scanner pipeline.
func DefaultScanners() []Scanner { return scanners.Defaults() }

// Wrap filters r's results through fw.
func Wrap(r Retriever, fw *Firewall) *SafeRetriever { return firewall.Wrap(r, fw) }

// NewSanitizer prunes graph retrieval results through fw.
func NewSanitizer(fw *Firewall, schema Schema) *Sanitizer { return graph.NewSanitizer(fw, schema) }

// VerdictOf returns the verdict attached to an evaluated artifact.
func VerdictOf(a Artifact) (Verdict, bool) { return types.VerdictOf(a) }
