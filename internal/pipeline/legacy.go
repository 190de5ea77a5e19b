package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"show-scraper/internal/config"
	"show-scraper/internal/fetch"
	"show-scraper/internal/model"
	"show-scraper/internal/normalize"
)

// legacyLinks is what the legacy site yielded for one show. Episodes are not
// written while their legacy data could not be read.
type legacyLinks struct {
	records map[string]*model.DirectLinks
	// unread holds episodes whose legacy page failed to load.
	unread map[string]bool
	// err is set when the archive of the show could not be read.
	err error
}

// scrapeLegacy collects the direct download links of every show from the legacy
// site. It must run before the episodes stage.
func (p *Pipeline) scrapeLegacy(ctx context.Context) error {
	var errs []error
	for _, show := range p.cfg.OrderedShows() {
		if show.JBURL == "" {
			p.log.Debug("show has no legacy site", zap.String("show", show.Slug))
			continue
		}
		links, err := p.legacyShow(ctx, show)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", show.Slug, err))
			links = &legacyLinks{err: err}
		}
		p.mu.Lock()
		p.jb[show.Slug] = links
		p.mu.Unlock()
		p.stats.setLegacy(show.Slug, len(links.records))
	}
	return errors.Join(errs...)
}

func (p *Pipeline) legacyShow(ctx context.Context, show *config.Show) (*legacyLinks, error) {
	log := p.log.With(zap.String("show", show.Slug))

	pages, limit := 1, 0
	if p.opts.LatestOnly {
		limit = p.opts.LatestLimit
	} else {
		n, err := p.legacy.LastPage(ctx, show.JBURL)
		if err != nil {
			return nil, err
		}
		pages = n
	}
	log.Info("collecting legacy episode pages", zap.Int("pages", pages))

	index, err := p.legacy.EpisodeIndex(ctx, show.Slug, show.JBURL, pages, limit)
	if err != nil {
		return nil, err
	}
	links := &legacyLinks{records: index, unread: make(map[string]bool)}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for ep, rec := range index {
		rec.JBURL = normalize.ResolveURL(show.JBURL, rec.JBURL)
		g.Go(func() error {
			unknown, err := p.legacy.FillDirectLinks(ctx, rec)
			switch {
			case fetch.IsNotFound(err):
				log.Warn("legacy episode page is gone", zap.String("episode", ep), zap.String("url", rec.JBURL))
			case err != nil:
				log.Error("failed to read direct download links",
					zap.String("episode", ep), zap.String("url", rec.JBURL), zap.Error(err))
				mu.Lock()
				links.unread[ep] = true
				mu.Unlock()
			}
			for _, slug := range unknown {
				log.Error("unknown direct download label",
					zap.String("episode", ep), zap.String("label", slug), zap.String("url", rec.JBURL))
			}
			return nil
		})
	}
	_ = g.Wait()

	log.Info("collected legacy episodes", zap.Int("episodes", len(index)), zap.Int("unread", len(links.unread)))
	return links, nil
}

// directLinks returns the legacy record of an episode, or nil when the legacy
// site has none. It fails when the legacy data of the episode could not be read.
func (p *Pipeline) directLinks(showSlug string, episode string) (*model.DirectLinks, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	links, ok := p.jb[showSlug]
	if !ok {
		return nil, nil
	}
	if links.err != nil {
		return nil, fmt.Errorf("legacy site unavailable: %w", links.err)
	}
	if links.unread[episode] {
		return nil, errors.New("legacy episode page unreadable")
	}
	return links.records[episode], nil
}
