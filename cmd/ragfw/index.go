package ragfw

import (
	"context"
	"fmt"

	"github.com/ragfw/ragfw/internal/corpus"
	"github.com/ragfw/ragfw/internal/provenance"
	"github.com/spf13/cobra"
)

var (
	flagIndexStore  string
	flagBackend     string
	flagSource      string
	flagSensitivity string
	flagVersion     string
)

func init() {
	cmd := &cobra.Command{
		Use:   "index <path>",
		Short: "Record provenance for every document under path",
		Args:  cobra.ExactArgs(1),
		RunE:  runIndex,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagIndexStore, "store", "", "provenance store path (default from config, prov.sqlite)")
	cmd.Flags().StringVar(&flagBackend, "backend", "", "store backend: sqlite|badger (default from config)")
	cmd.Flags().StringVar(&flagSource, "source", "uploads", "source recorded for every document")
	cmd.Flags().StringVar(&flagSensitivity, "sensitivity", provenance.DefaultSensitivity, "sensitivity recorded for every document")
	cmd.Flags().StringVar(&flagVersion, "doc-version", "", "optional version recorded for every document")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	backend, path := cfg.ProvenanceBackend()
	if flagBackend != "" {
		backend = flagBackend
	}
	if flagIndexStore != "" {
		path = flagIndexStore
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	docs, err := corpus.Load(ctx, args[0], corpus.Options{DefaultExcludes: true})
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	store, err := provenance.Open(backend, path)
	if err != nil {
		return err
	}
	defer store.Close()

	count := 0
	for _, d := range docs {
		rec := provenance.Record{Hash: d.Hash, Source: flagSource, Sensitivity: flagSensitivity, Version: flagVersion}
		if err := store.Put(ctx, rec); err != nil {
			return err
		}
		count++
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d files into %s\n", count, path)
	return nil
}
