package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"show-scraper/internal/cache"
	"show-scraper/internal/fetch"
	"show-scraper/internal/index"
	"show-scraper/internal/pipeline"
	"show-scraper/internal/site"
	"show-scraper/internal/store"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	s := &ctx.settings

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape every configured show and write the Hugo content tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, ctx)
		},
	}

	cmd.Flags().BoolVar(&s.LatestOnly, "latest-only", s.LatestOnly, "Only scrape the newest episodes of each show (LATEST_ONLY)")
	cmd.Flags().IntVar(&s.LatestLimit, "latest-limit", s.LatestLimit, "Episodes per show in latest-only mode (LATEST_ONLY_LIMIT)")
	cmd.Flags().IntVar(&s.Workers, "workers", s.Workers, "Concurrent page fetches (WORKERS)")
	cmd.Flags().StringVar(&s.CacheDir, "cache-dir", s.CacheDir, "Cache fetched pages in this directory (CACHE_DIR)")
	cmd.Flags().DurationVar(&s.CacheTTL, "cache-ttl", s.CacheTTL, "Age after which cached pages are fetched again (CACHE_TTL)")
	cmd.Flags().BoolVar(&s.RefreshCache, "refresh-cache", s.RefreshCache, "Empty the page cache before scraping")
	cmd.Flags().BoolVar(&s.Browser, "browser", s.Browser, "Render legacy site pages with headless Chrome")
	cmd.Flags().StringVar(&s.ChromePath, "chrome-path", s.ChromePath, "Chrome binary for --browser (CHROME_PATH)")
	cmd.Flags().BoolVar(&s.CheckLinks, "check-links", s.CheckLinks, "Drop media links that do not answer a HEAD request")
	cmd.Flags().StringVar(&s.FirestoreProject, "firestore-project", s.FirestoreProject, "Publish written episodes to Firestore in this project (GCP_PROJECT_ID)")
	cmd.Flags().StringVar(&s.FirestoreCollection, "firestore-collection", s.FirestoreCollection, "Firestore collection of the episode index (FIRESTORE_COLLECTION)")
	cmd.Flags().StringSliceVar(&s.Shows, "shows", s.Shows, "Only scrape these show slugs (SHOWS)")

	return cmd
}

func runScrape(cmd *cobra.Command, cc *commandContext) error {
	ctx := cmd.Context()
	s := cc.settings
	log := cc.log

	cfg, err := cc.loadConfig()
	if err != nil {
		return err
	}

	st, closeStore, err := openStore(ctx, cc)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := fetch.DefaultOptions()
	if s.CacheDir != "" {
		c, err := cache.New(s.CacheDir, s.CacheTTL)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		if s.RefreshCache {
			if err := c.InvalidateAll(); err != nil {
				return fmt.Errorf("emptying cache: %w", err)
			}
			log.Info("page cache emptied", zap.String("path", s.CacheDir))
		}
		opts.Cache = c
		log.Info("page cache enabled", zap.String("path", s.CacheDir), zap.Duration("ttl", s.CacheTTL))
	} else if s.RefreshCache {
		log.Warn("--refresh-cache has no effect without --cache-dir")
	}
	client := fetch.NewClient(opts, log)

	deps := pipeline.Deps{
		Config: cfg,
		Client: client,
		Writer: site.NewWriter(st, site.Policy{LatestOnly: s.LatestOnly, DontOverride: cfg.DontOverride}, log),
		Log:    log,
	}

	if s.Browser {
		browser := fetch.NewBrowserFetcher(s.ChromePath, log)
		defer browser.Close()
		deps.Pages = browser
	}

	if s.FirestoreProject != "" {
		idx, err := index.New(ctx, s.FirestoreProject, s.FirestoreCollection)
		if err != nil {
			return err
		}
		defer idx.Close()
		deps.Index = idx
		log.Info("publishing to firestore",
			zap.String("project", s.FirestoreProject),
			zap.String("collection", s.FirestoreCollection))
	}

	p := pipeline.New(deps, pipeline.Options{
		LatestOnly:  s.LatestOnly,
		LatestLimit: s.LatestLimit,
		Workers:     s.Workers,
		CheckLinks:  s.CheckLinks,
	})
	stats, err := p.Run(ctx)
	if stats != nil {
		fmt.Fprintln(cmd.OutOrStdout(), stats.Table())
	}
	return err
}

// openStore returns the Cloud Storage bucket when one is configured, otherwise
// the locked data dir.
func openStore(ctx context.Context, cc *commandContext) (store.Store, func(), error) {
	s := cc.settings
	if s.GCSBucket != "" {
		gcs, err := store.NewGCS(ctx, s.GCSBucket, s.GCSPrefix)
		if err != nil {
			return nil, nil, err
		}
		cc.log.Info("writing to bucket", zap.String("bucket", s.GCSBucket), zap.String("prefix", s.GCSPrefix))
		return gcs, func() { _ = gcs.Close() }, nil
	}

	unlock, err := site.Lock(s.DataDir)
	if err != nil {
		return nil, nil, err
	}
	local, err := store.NewLocal(s.DataDir)
	if err != nil {
		_ = unlock()
		return nil, nil, err
	}
	cc.log.Info("writing to data dir", zap.String("path", local.Dir()))
	return local, func() {
		if err := unlock(); err != nil {
			cc.log.Warn("failed to release lock", zap.Error(err))
		}
	}, nil
}
