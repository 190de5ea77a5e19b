// Package pipeline runs a scrape: legacy site, Fireside episodes, sponsors,
// people and the optional index publish, in that order.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"show-scraper/internal/config"
	"show-scraper/internal/fetch"
	"show-scraper/internal/model"
	"show-scraper/internal/scraper"
	"show-scraper/internal/site"
)

// Options are the run-mode knobs of a Pipeline.
type Options struct {
	LatestOnly  bool
	LatestLimit int
	Workers     int
	CheckLinks  bool
	// BatchID tags index documents written by this run.
	BatchID string
}

// Indexer publishes written episodes.
type Indexer interface {
	UpsertEpisodes(ctx context.Context, episodes []*model.Episode, batchID string) error
}

// Deps are the collaborators of a Pipeline. Pages and Index are optional.
type Deps struct {
	Config *config.Config
	Client *fetch.Client
	// Pages fetches legacy site pages. Defaults to Client.
	Pages  fetch.PageFetcher
	Writer *site.Writer
	Index  Indexer
	Log    *zap.Logger
	// ChaptersURL overrides scraper.ChaptersURLTemplate.
	ChaptersURL string
}

// Pipeline holds the state shared between stages of one run.
type Pipeline struct {
	cfg    *config.Config
	opts   Options
	client *fetch.Client
	writer *site.Writer
	index  Indexer
	log    *zap.Logger

	fireside *scraper.Fireside
	legacy   *scraper.LegacySite
	rss      *scraper.Feed

	mu       sync.Mutex
	jb       map[string]*legacyLinks
	sponsors map[string]*model.Sponsor
	written  map[string][]*model.Episode
	stats    *Stats
}

type stage struct {
	name string
	run  func(ctx context.Context) error
}

// New creates a Pipeline.
func New(deps Deps, opts Options) *Pipeline {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = config.DefaultWorkers
	}
	if opts.LatestLimit <= 0 {
		opts.LatestLimit = config.DefaultLatestLimit
	}
	if opts.BatchID == "" {
		opts.BatchID = time.Now().UTC().Format("20060102-150405")
	}
	pages := deps.Pages
	if pages == nil {
		pages = deps.Client
	}

	fireside := scraper.NewFireside(deps.Client, log)
	if deps.ChaptersURL != "" {
		fireside.WithChaptersURL(deps.ChaptersURL)
	}

	return &Pipeline{
		cfg:      deps.Config,
		opts:     opts,
		client:   deps.Client,
		writer:   deps.Writer,
		index:    deps.Index,
		log:      log,
		fireside: fireside,
		legacy:   scraper.NewLegacySite(pages, opts.Workers, log),
		rss:      scraper.NewFeed(deps.Client),
		jb:       make(map[string]*legacyLinks),
		sponsors: make(map[string]*model.Sponsor),
		written:  make(map[string][]*model.Episode),
		stats:    newStats(),
	}
}

// Run executes every stage in order. A failing stage is logged and the next one
// still runs; Run reports an error when any stage failed. Failures of single
// episodes, sponsors or people are only counted in the returned Stats.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	stages := []stage{
		{p.legacy.Name(), p.scrapeLegacy},
		{p.fireside.Name(), p.scrapeEpisodes},
		{"sponsors", p.saveSponsors},
		{"people", p.scrapePeople},
	}
	if p.index != nil {
		stages = append(stages, stage{"index", p.publish})
	}

	p.log.Info("starting scrape",
		zap.String("batch_id", p.opts.BatchID),
		zap.Bool("latest_only", p.opts.LatestOnly),
		zap.Strings("shows", p.cfg.ShowSlugs()))

	failed := 0
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return p.stats, err
		}
		start := time.Now()
		p.log.Info("running stage", zap.String("stage", s.name))
		if err := s.run(ctx); err != nil {
			p.log.Error("stage failed", zap.String("stage", s.name), zap.Error(err))
			p.stats.failStage(s.name)
			failed++
			continue
		}
		p.log.Info("finished stage", zap.String("stage", s.name), zap.Duration("took", time.Since(start)))
	}

	p.log.Info("scrape complete", zap.Int("failed_stages", failed), zap.Int("stages", len(stages)))
	if failed > 0 {
		return p.stats, fmt.Errorf("%d of %d stages failed", failed, len(stages))
	}
	return p.stats, nil
}

// latest truncates a newest-first list in latest-only mode.
func latest[T any](p *Pipeline, items []T) []T {
	if p.opts.LatestOnly && len(items) > p.opts.LatestLimit {
		return items[:p.opts.LatestLimit]
	}
	return items
}
