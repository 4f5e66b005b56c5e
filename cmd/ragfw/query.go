package ragfw

import (
	"context"
	"fmt"
	"os"

	"github.com/ragfw/ragfw/internal/corpus"
	"github.com/ragfw/ragfw/internal/logging"
	"github.com/ragfw/ragfw/internal/provenance"
	"github.com/ragfw/ragfw/internal/report"
	"github.com/ragfw/ragfw/internal/types"
	"github.com/spf13/cobra"
)

var (
	flagDocs          string
	flagStore         string
	flagShowDecisions bool
	flagFailOnDeny    bool
	flagTail          int
	flagText          bool
	flagInclude       string
	flagExclude       string
	flagMaxBytes      int64
	flagChunkSize     int
	flagChunkOverlap  int
)

func init() {
	cmd := &cobra.Command{
		Use:   "query <query>",
		Short: "Decide every document in a directory for a query",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagDocs, "docs", "./docs", "directory of documents to evaluate")
	cmd.Flags().StringVar(&flagStore, "store", "", "provenance store used to enrich metadata (default from config)")
	cmd.Flags().BoolVar(&flagShowDecisions, "show-decisions", false, "print a decision row for every document, not only the summary")
	cmd.Flags().BoolVar(&flagFailOnDeny, "fail-on-deny", false, "exit 1 when any document is denied")
	cmd.Flags().IntVar(&flagTail, "tail", 0, "print the last N audit events afterwards")
	cmd.Flags().BoolVar(&flagText, "text", false, "output in plain text columnar format")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", corpus.DefaultMaxBytes, "skip files larger than this")
	cmd.Flags().IntVar(&flagChunkSize, "chunk-size", 0, "split documents into chunks of this many characters (0 = whole documents)")
	cmd.Flags().IntVar(&flagChunkOverlap, "chunk-overlap", 0, "characters shared by consecutive chunks")
}

func runQuery(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.close()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	docs, err := corpus.Load(ctx, flagDocs, corpus.Options{
		Include:         flagInclude,
		Exclude:         flagExclude,
		MaxBytes:        flagMaxBytes,
		DefaultExcludes: true,
	})
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	arts, err := corpus.Chunk(docs, flagChunkSize, flagChunkOverlap)
	if err != nil {
		return err
	}
	enrichFromStore(ctx, rt, arts)

	evaluated, err := rt.fw.Evaluate(ctx, arts, 1.0, map[string]any{"query": args[0]})
	if err != nil {
		return err
	}
	rows := make([]report.Row, len(evaluated))
	denied := false
	for i, a := range evaluated {
		v, _ := types.VerdictOf(a)
		rows[i] = report.Row{
			Source:   rowSource(arts[i]),
			Decision: types.Decision{Action: v.Decision, Score: v.Score, Reasons: v.Reasons, Policy: v.Policy},
			Findings: v.Findings,
		}
		denied = denied || v.Decision == types.ActionDeny
	}

	out := cmd.OutOrStdout()
	opts := report.PrintOptions{NoColor: noColor(rt.cfg)}
	switch {
	case flagJSON:
		if err := report.WriteJSON(out, rows); err != nil {
			return err
		}
	case !flagShowDecisions:
		report.PrintSummary(out, rows)
	case flagText:
		report.PrintText(out, rows, opts)
	default:
		if err := report.PrintTable(out, rows, opts); err != nil {
			return err
		}
	}

	if flagTail > 0 {
		events, err := rt.log.Tail(ctx, flagTail)
		if err != nil {
			return err
		}
		if err := report.PrintAudit(out, events, opts); err != nil {
			return err
		}
	}
	if flagFailOnDeny && denied {
		return errDenied
	}
	return nil
}

// rowSource names an artifact by its path, plus its chunk index when split.
func rowSource(a types.Artifact) string {
	src, ok := a.Metadata["path"].(string)
	if !ok {
		src, _ = a.Metadata["source"].(string)
	}
	if c, ok := a.Metadata["chunk"].(int); ok {
		return fmt.Sprintf("%s#%d", src, c)
	}
	return src
}

// enrichFromStore adds provenance metadata when a store is available. A
// missing store is not an error.
func enrichFromStore(ctx context.Context, rt *session, arts []types.Artifact) {
	backend, path := rt.cfg.ProvenanceBackend()
	if flagStore != "" {
		path = flagStore
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	log := logging.New("provenance")
	store, err := provenance.Open(backend, path)
	if err != nil {
		log.Warn("provenance store unavailable", "path", path, "err", err)
		return
	}
	defer store.Close()
	for i := range arts {
		h, _ := arts[i].Metadata["hash"].(string)
		rec, ok, err := store.Get(ctx, h)
		if err != nil {
			log.Warn("provenance lookup failed", "hash", h, "err", err)
			continue
		}
		if ok {
			// recorded provenance replaces the file path as source
			arts[i].Metadata["path"] = arts[i].Metadata["source"]
			delete(arts[i].Metadata, "source")
			arts[i].Metadata = provenance.Enrich(arts[i].Metadata, rec)
		}
	}
}
