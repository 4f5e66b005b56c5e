package ragfw

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ragfw/ragfw/internal/graph"
	"github.com/ragfw/ragfw/internal/report"
	"github.com/spf13/cobra"
)

var flagDocuments bool

func init() {
	cmd := &cobra.Command{
		Use:   "graph <subgraph.json|->",
		Short: "Sanitize a subgraph and print the surviving structure",
		Args:  cobra.ExactArgs(1),
		RunE:  runGraph,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().BoolVar(&flagDocuments, "documents", false, "print serialized text documents instead of the subgraph")
}

func runGraph(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return err
	}
	var g graph.Subgraph
	if err := json.Unmarshal(data, &g); err != nil {
		return fmt.Errorf("parse subgraph: %w", err)
	}

	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out, err := graph.NewSanitizer(rt.fw, rt.built.Schema).Sanitize(ctx, g)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if flagDocuments {
		docs := graph.TextSerializer{Schema: rt.built.Schema}.Serialize(out)
		if flagJSON {
			return report.WriteJSON(w, docs)
		}
		for _, d := range docs {
			fmt.Fprintf(w, "%s\n\n", d.Text)
		}
		return nil
	}
	if !flagJSON {
		fmt.Fprintf(cmd.ErrOrStderr(), "kept %d/%d nodes, %d/%d edges, %d/%d paths\n",
			len(out.Nodes), len(g.Nodes), len(out.Edges), len(g.Edges), len(out.Paths), len(g.Paths))
	}
	return report.WriteJSON(w, out)
}
