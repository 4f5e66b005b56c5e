package ragfw

import (
	"fmt"
	"os"

	"github.com/ragfw/ragfw/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagJSON      bool
	flagNoColor   bool
	flagWorkers   int
	flagLogLevel  string
	flagLogFormat string

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the ragfw CLI.
var rootCmd = &cobra.Command{
	Use:           "ragfw",
	Short:         "Filter retrieved content before it reaches a model",
	Long:          "ragfw scans retrieved documents and graph results for prompt injection, secrets, PII and stale content, and applies declarative policies to allow, deny or rerank them.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(flagLogLevel)
		if err != nil {
			return err
		}
		logging.Init(level, flagLogFormat)
		return nil
	},
}

// Execute runs the ragfw CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file (default: ./.ragfw.yml, ./ragfw.yml or ~/.config/ragfw/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "parallel decisions (0 = config or GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "log format: text|json")
}
