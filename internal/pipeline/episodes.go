package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"show-scraper/internal/config"
	"show-scraper/internal/model"
	"show-scraper/internal/normalize"
	"show-scraper/internal/scraper"
	"show-scraper/internal/site"
)

// scrapeEpisodes writes an episode page for every item of every show feed.
func (p *Pipeline) scrapeEpisodes(ctx context.Context) error {
	var errs []error
	for _, show := range p.cfg.OrderedShows() {
		if err := p.showEpisodes(ctx, show); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", show.Slug, err))
		}
	}
	return errors.Join(errs...)
}

func (p *Pipeline) showEpisodes(ctx context.Context, show *config.Show) error {
	log := p.log.With(zap.String("show", show.Slug))

	feed, err := p.fireside.Feed(ctx, show)
	if err != nil {
		return err
	}

	var rss map[string]scraper.FeedEntry
	if show.RSSURL != "" {
		rss, err = p.rss.Entries(ctx, show.RSSURL)
		if err != nil {
			log.Warn("rss feed unavailable", zap.String("url", show.RSSURL), zap.Error(err))
		}
	}

	items := latest(p, feed.Items)
	log.Info("scraping episodes", zap.Int("items", len(items)), zap.Int("feed_items", len(feed.Items)))

	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for _, item := range items {
		g.Go(func() error {
			outcome, err := p.episode(ctx, show, item, rss)
			if err != nil {
				log.Error("failed to create episode", zap.String("url", item.URL), zap.Error(err))
				p.stats.episodeFailed(show.Slug)
				return nil
			}
			p.stats.episode(show.Slug, outcome)
			return nil
		})
	}
	return g.Wait()
}

// episode builds and writes one episode. Existing files are left alone in full
// mode before anything else is fetched.
func (p *Pipeline) episode(ctx context.Context, show *config.Show, item scraper.FeedItem, rss map[string]scraper.FeedEntry) (site.Outcome, error) {
	number, err := normalize.EpisodeNumber(item.URL)
	if err != nil {
		return site.Skipped, err
	}
	log := p.log.With(zap.String("show", show.Slug), zap.Int("episode", number))

	skip, err := p.writer.SkipEpisode(ctx, show.Slug, number)
	if err != nil {
		return site.Skipped, err
	}
	if skip {
		log.Warn("skipping, file already exists", zap.String("path", site.EpisodeKey(show.Slug, number)))
		return site.Skipped, nil
	}

	rec, err := p.directLinks(show.Slug, strconv.Itoa(number))
	if err != nil {
		return site.Skipped, err
	}

	if len(item.Attachments) == 0 {
		return site.Skipped, errors.New("feed item has no attachment")
	}
	attachment := item.Attachments[0]
	entry, hasEntry := rss[strconv.Itoa(number)]

	chapters, err := p.fireside.Chapters(ctx, show, item.ID)
	if err != nil {
		log.Warn("failed to fetch chapters", zap.Error(err))
	}
	if chapters == nil && hasEntry && entry.ChaptersURL != "" {
		chapters, err = p.fireside.ChaptersFrom(ctx, entry.ChaptersURL)
		if err != nil {
			log.Warn("failed to fetch chapters from rss", zap.String("url", entry.ChaptersURL), zap.Error(err))
		}
	}

	page, err := p.fireside.EpisodePage(ctx, item.URL)
	if err != nil {
		return site.Skipped, err
	}
	notes, err := scraper.ParseShowNotes(item.ContentHTML, item.Summary)
	if err != nil {
		return site.Skipped, err
	}

	tags := normalize.Tags(page.Tags)
	if len(tags) == 0 && hasEntry {
		tags = normalize.Tags(entry.Keywords)
	}

	hosts := p.usernames(page.HostLinks)
	if len(hosts) == 0 && hasEntry && len(entry.Hosts) > 0 {
		log.Warn("episode page lists no hosts", zap.Strings("rss_hosts", entry.Hosts))
	}
	guests := p.usernames(page.GuestLinks)
	if len(guests) == 0 && hasEntry && len(entry.Guests) > 0 {
		log.Warn("episode page lists no guests", zap.Strings("rss_guests", entry.Guests))
	}

	e := &model.Episode{
		ShowSlug:        show.Slug,
		ShowName:        show.Name,
		Episode:         number,
		EpisodeGUID:     item.ID.String(),
		Title:           normalize.PlainTitle(item.Title),
		Description:     notes.Blurb,
		Date:            item.DatePublished,
		Tags:            tags,
		Hosts:           hosts,
		Guests:          guests,
		Sponsors:        p.episodeSponsors(show, number, notes.SponsorLinks, page),
		PodcastDuration: normalize.Duration(attachment.DurationInSeconds),
		PodcastFile:     attachment.URL,
		PodcastBytes:    attachment.SizeInBytes,
		PodcastChapters: chapters,
		FiresideURL:     normalize.URLPath(item.URL),
		EpisodeLinks:    notes.Links,
	}

	if rec != nil {
		e.PodcastAltFile = model.StringPtr(rec.MP3Audio)
		e.PodcastOGGFile = model.StringPtr(rec.OGGAudio)
		e.VideoFile = model.StringPtr(rec.Video)
		e.VideoHDFile = model.StringPtr(rec.HDVideo)
		e.VideoMobileFile = model.StringPtr(rec.MobileVideo)
		e.JBURL = model.StringPtr(normalize.URLPath(rec.JBURL))
		if rec.YouTube != "" {
			if normalize.ValidYouTube(rec.YouTube) {
				e.YouTubeLink = model.StringPtr(rec.YouTube)
			} else {
				log.Warn("dropping youtube link with unknown host", zap.String("url", rec.YouTube))
			}
		}
	} else if show.JBURL != "" {
		log.Warn("episode won't have direct download links", zap.String("url", item.URL))
	}

	e.Derive()
	if p.opts.CheckLinks {
		p.checkLinks(ctx, log, e)
	}
	if err := e.Validate(); err != nil {
		return site.Skipped, err
	}

	outcome, err := p.writer.SaveEpisode(ctx, e)
	if err != nil {
		return site.Skipped, err
	}
	if outcome == site.Written {
		p.mu.Lock()
		p.written[show.Slug] = append(p.written[show.Slug], e)
		p.mu.Unlock()
		log.Info("saved episode", zap.String("title", e.Title))
	}
	return outcome, nil
}

// usernames maps host or guest page links to canonical usernames.
func (p *Pipeline) usernames(links []string) []string {
	out := make([]string, 0, len(links))
	for _, href := range links {
		out = append(out, p.cfg.Username(href))
	}
	return out
}

// episodeSponsors returns the sponsor shortnames of an episode and records the
// sponsor cards found on the page. The first card seen for a shortname wins.
func (p *Pipeline) episodeSponsors(show *config.Show, episode int, links []string, page *scraper.EpisodePage) []string {
	log := p.log.With(zap.String("show", show.Slug), zap.Int("episode", episode))
	if len(links) == 0 {
		log.Warn("no sponsors found for episode")
		return nil
	}

	shortnames := make([]string, 0, len(links))
	for _, link := range links {
		shortname, err := normalize.SponsorShortname(link, show.Acronym)
		if err != nil {
			log.Warn("failed to parse sponsor link", zap.String("url", link), zap.Error(err))
			continue
		}
		shortnames = append(shortnames, shortname)

		card, ok := page.Sponsors[link]
		if !ok {
			continue
		}
		sponsor := &model.Sponsor{
			Shortname:   shortname,
			Title:       card.Title,
			Description: card.Description,
			Link:        link,
		}
		p.mu.Lock()
		if _, seen := p.sponsors[sponsor.Filename()]; !seen {
			p.sponsors[sponsor.Filename()] = sponsor
		}
		p.mu.Unlock()
	}
	return shortnames
}

// checkLinks clears optional media links that do not answer.
func (p *Pipeline) checkLinks(ctx context.Context, log *zap.Logger, e *model.Episode) {
	if ok, err := p.client.Probe(ctx, e.PodcastFile); err != nil || !ok {
		log.Warn("podcast file is unreachable", zap.String("url", e.PodcastFile), zap.Error(err))
	}
	for _, link := range []**string{&e.PodcastAltFile, &e.PodcastOGGFile, &e.VideoFile, &e.VideoHDFile, &e.VideoMobileFile} {
		if *link == nil {
			continue
		}
		ok, err := p.client.Probe(ctx, **link)
		if err != nil || !ok {
			log.Warn("dropping unreachable media link", zap.String("url", **link), zap.Error(err))
			*link = nil
		}
	}
}
