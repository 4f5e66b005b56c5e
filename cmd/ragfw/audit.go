package ragfw

import (
	"context"

	"github.com/ragfw/ragfw/internal/report"
	"github.com/spf13/cobra"
)

var flagTailN int

func init() {
	auditCmd := &cobra.Command{Use: "audit", Short: "Inspect the decision audit log"}
	rootCmd.AddCommand(auditCmd)

	tailCmd := &cobra.Command{
		Use:   "tail",
		Short: "Print the most recent audit events",
		Args:  cobra.NoArgs,
		RunE:  runAuditTail,
	}
	auditCmd.AddCommand(tailCmd)
	tailCmd.Flags().IntVarP(&flagTailN, "lines", "n", 10, "number of events (0 = all)")
}

func runAuditTail(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sink, closeSink := cfg.OpenAudit()
	defer closeSink()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	events, err := sink.Tail(ctx, flagTailN)
	if err != nil {
		return err
	}
	if flagJSON {
		return report.WriteJSON(cmd.OutOrStdout(), events)
	}
	return report.PrintAudit(cmd.OutOrStdout(), events, report.PrintOptions{NoColor: noColor(cfg)})
}
