package ragfw

import (
	"errors"
	"fmt"
	"os"

	"github.com/ragfw/ragfw/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgOutput string
	cfgForce  bool
)

const sampleConfig = `# ragfw configuration
scanners:
  - type: regex_injection
  - type: pii
  - type: secrets
  - type: encoded
    min_len: 200
    ratio_threshold: 0.35
  - type: url
    allowlist: []
    denylist: []
  - type: conflict
    stale_days: 180
policies:
  - name: block_secrets
    match: {findings.scanner: secrets}
    action: deny
  - name: block_high_sensitivity
    match: {metadata.sensitivity: high}
    action: deny
  - name: prefer_recent
    action: rerank
    weight: {recency: 0.5, provenance: 0.2, relevance: 0.3}
  - name: default_allow
    action: allow
audit:
  path: audit.jsonl
provenance:
  backend: sqlite
  path: prov.sqlite
`

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and build the configuration, reporting the first fault",
		Args:  cobra.NoArgs,
		RunE:  runConfigValidate,
	}
	cfgCmd.AddCommand(validateCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .ragfw.yml with every scanner and a starter policy",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&cfgOutput, "output", ".ragfw.yml", "output file path")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	built, err := config.Build(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "OK: %d scanners, %d policies\n", len(built.Scanners), len(built.Rules))
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.WriteFile(cfgOutput, []byte(sampleConfig), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgOutput)
	return nil
}
