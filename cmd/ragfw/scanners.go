package ragfw

import (
	"fmt"

	"github.com/ragfw/ragfw/internal/scanners"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "scanners",
		Short: "List available scanner types and built-in secret patterns",
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			for _, t := range scanners.Types() {
				fmt.Fprintln(w, t)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "secret patterns:")
			for _, id := range scanners.SecretIDs() {
				fmt.Fprintln(w, "  "+id)
			}
		},
	}
	rootCmd.AddCommand(cmd)
}
