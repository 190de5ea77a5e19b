package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"show-scraper/internal/index"
	"show-scraper/internal/site"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	s := &ctx.settings

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect and rebuild the Firestore episode index",
	}
	indexCmd.PersistentFlags().StringVar(&s.FirestoreProject, "firestore-project", s.FirestoreProject, "GCP project of the index (GCP_PROJECT_ID)")
	indexCmd.PersistentFlags().StringVar(&s.FirestoreCollection, "firestore-collection", s.FirestoreCollection, "Firestore collection of the index (FIRESTORE_COLLECTION)")

	indexCmd.AddCommand(newIndexListCommand(ctx))
	indexCmd.AddCommand(newIndexSyncCommand(ctx))
	return indexCmd
}

func openIndex(cmd *cobra.Command, ctx *commandContext) (*index.Client, error) {
	if ctx.settings.FirestoreProject == "" {
		return nil, errors.New("--firestore-project or GCP_PROJECT_ID is required")
	}
	return index.New(cmd.Context(), ctx.settings.FirestoreProject, ctx.settings.FirestoreCollection)
}

func newIndexListCommand(ctx *commandContext) *cobra.Command {
	var show string
	var limit int
	var countOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed episodes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := openIndex(cmd, ctx)
			if err != nil {
				return err
			}
			defer idx.Close()

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)

			if countOnly {
				counts, err := idx.CountByShow(cmd.Context())
				if err != nil {
					return err
				}
				tw.AppendHeader(table.Row{"Show", "Episodes"})
				total := 0
				for _, slug := range slices.Sorted(maps.Keys(counts)) {
					tw.AppendRow(table.Row{slug, counts[slug]})
					total += counts[slug]
				}
				tw.AppendFooter(table.Row{"Total", total})
				fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
				return nil
			}

			records, err := idx.ListEpisodes(cmd.Context(), show, limit)
			if err != nil {
				return err
			}
			tw.AppendHeader(table.Row{"ID", "Date", "Title", "Hosts", "Batch"})
			for _, rec := range records {
				tw.AppendRow(table.Row{rec.ID, rec.Date.Format(time.DateOnly), rec.Title, len(rec.Hosts), rec.BatchID})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&show, "show", "", "Only list this show slug")
	cmd.Flags().IntVar(&limit, "limit", 10, "Max episodes to list (0 for all)")
	cmd.Flags().BoolVar(&countOnly, "count", false, "Only show counts per show")
	return cmd
}

func newIndexSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replace the index of every show with the episodes in the content tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := openIndex(cmd, ctx)
			if err != nil {
				return err
			}
			defer idx.Close()

			st, closeStore, err := openStore(cmd.Context(), ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			shows, err := site.ReadEpisodes(cmd.Context(), site.NewWriter(st, site.Policy{}, ctx.log))
			if err != nil {
				return err
			}

			batchID := time.Now().UTC().Format("20060102-150405")
			ctx.log.Info("starting index sync", zap.String("batch_id", batchID), zap.Int("shows", len(shows)))

			failed := 0
			for _, slug := range slices.Sorted(maps.Keys(shows)) {
				if err := idx.ReplaceEpisodesForShow(cmd.Context(), slug, shows[slug], batchID); err != nil {
					ctx.log.Error("failed to index show", zap.String("show", slug), zap.Error(err))
					failed++
					continue
				}
				ctx.log.Info("indexed show", zap.String("show", slug), zap.Int("episodes", len(shows[slug])))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d shows failed to index", failed, len(shows))
			}
			return nil
		},
	}
}
