package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"show-scraper/internal/fetch"
	"show-scraper/internal/model"
)

// episodeExceptions are legacy titles whose last word is not the episode number.
var episodeExceptions = map[string]string{
	// Published between 152 and 153.
	"Goodbye from Linux Action News":           "152.5",
	"Say My Functional Name | Coder Radio":     "343",
	"New Show! | Coder Radio":                  "0",
	"Someone Else’s Computer | Self-Hosted 59": "60",
}

// LegacySite scrapes the show archives of jupiterbroadcasting.com.
type LegacySite struct {
	pages   fetch.PageFetcher
	workers int
	log     *zap.Logger
}

// NewLegacySite creates a LegacySite scraper. pages is either the HTTP client or
// the headless browser.
func NewLegacySite(pages fetch.PageFetcher, workers int, log *zap.Logger) *LegacySite {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LegacySite{pages: pages, workers: workers, log: log}
}

// Name returns the name of this source.
func (s *LegacySite) Name() string {
	return "jupiterbroadcasting.com"
}

// LastPage reads the "Page 1 of N" pagination of a show archive. Archives without
// pagination have one page.
func (s *LegacySite) LastPage(ctx context.Context, showURL string) (int, error) {
	doc, err := s.document(ctx, showURL)
	if err != nil {
		return 0, fmt.Errorf("fetching show archive: %w", err)
	}
	return ParseLastPage(doc)
}

// ParseLastPage reads span.pages of an archive page.
func ParseLastPage(doc *goquery.Document) (int, error) {
	span := doc.Find("span.pages").First()
	if span.Length() == 0 {
		return 1, nil
	}
	fields := strings.Fields(span.Text())
	if len(fields) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0, fmt.Errorf("parsing pagination %q: %w", span.Text(), err)
	}
	return n, nil
}

// ArchiveEntry is one episode link of a show archive page.
type ArchiveEntry struct {
	Episode string
	URL     string
	Title   string
}

// EpisodeIndex collects the episode pages listed on archive pages 1..pages. When
// limit is positive only the first limit items of each page are read. Entries
// whose number cannot be read, or repeats an earlier one, are logged and skipped.
func (s *LegacySite) EpisodeIndex(ctx context.Context, showSlug, showURL string, pages, limit int) (map[string]*model.DirectLinks, error) {
	bodies := make([][]byte, pages)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range bodies {
		pageURL := fmt.Sprintf("%s/page/%d/", strings.TrimRight(showURL, "/"), i+1)
		g.Go(func() error {
			body, err := s.pages.Get(gctx, pageURL)
			if err != nil {
				return fmt.Errorf("fetching archive page %d: %w", i+1, err)
			}
			bodies[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	index := make(map[string]*model.DirectLinks)
	for i, body := range bodies {
		doc, err := fetch.ParseDocument(body)
		if err != nil {
			return nil, err
		}
		for idx, entry := range ParseArchivePage(doc) {
			if limit > 0 && idx >= limit {
				break
			}
			log := s.log.With(zap.String("show", showSlug), zap.Int("page", i+1), zap.Int("item", idx))
			if entry.Episode == "" {
				log.Error("no episode number in archive title", zap.String("title", entry.Title))
				continue
			}
			if existing, dup := index[entry.Episode]; dup {
				log.Error("duplicate episode number on archive",
					zap.String("episode", entry.Episode),
					zap.String("kept", existing.JBURL),
					zap.String("url", entry.URL))
				continue
			}
			index[entry.Episode] = &model.DirectLinks{JBURL: entry.URL}
		}
	}
	return index, nil
}

// ParseArchivePage reads the div.videoitem entries of an archive page.
func ParseArchivePage(doc *goquery.Document) []ArchiveEntry {
	var entries []ArchiveEntry
	doc.Find("div.videoitem").Each(func(_ int, item *goquery.Selection) {
		a := item.Find("a").First()
		title := a.AttrOr("title", "")
		entries = append(entries, ArchiveEntry{
			Episode: ArchiveEpisodeNumber(title),
			URL:     a.AttrOr("href", ""),
			Title:   title,
		})
	})
	return entries
}

// ArchiveEpisodeNumber reads the episode number from a legacy title such as
// "Git Happens | LINUX Unplugged 464". Numbers are canonical decimal strings;
// "" means the title carries none.
func ArchiveEpisodeNumber(title string) string {
	if ep, ok := episodeExceptions[title]; ok {
		return ep
	}
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	if last == "LU1" {
		return "1"
	}
	n, err := strconv.Atoi(last)
	if err != nil {
		return ""
	}
	return strconv.Itoa(n)
}

// FillDirectLinks reads the direct download links of the episode page into rec.
// It returns the labels that match no field.
func (s *LegacySite) FillDirectLinks(ctx context.Context, rec *model.DirectLinks) ([]string, error) {
	doc, err := s.document(ctx, rec.JBURL)
	if err != nil {
		return nil, fmt.Errorf("fetching episode page: %w", err)
	}
	unknown, found := ParseDirectLinks(doc, rec)
	if !found {
		s.log.Warn("no direct download links on episode page", zap.String("url", rec.JBURL))
	}
	return unknown, nil
}

// ParseDirectLinks reads div#direct-downloads, or the older
// <h3>Direct Download:</h3><p>...</p> layout. found is false when neither exists.
func ParseDirectLinks(doc *goquery.Document, rec *model.DirectLinks) (unknown []string, found bool) {
	var links *goquery.Selection
	if div := doc.Find("div#direct-downloads").First(); div.Length() > 0 {
		links = div.Find("a")
	} else {
		p := listAfter(doc.Selection, "Direct Download:", "h3", "p")
		if p == nil {
			return nil, false
		}
		links = p.Find("a")
	}

	links.Each(func(_ int, a *goquery.Selection) {
		href := strings.Trim(a.AttrOr("href", ""), `\"`)
		slug := model.LinkSlug(a.Text())
		if !rec.Set(slug, href) {
			unknown = append(unknown, slug)
		}
	})
	return unknown, true
}

func (s *LegacySite) document(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := s.pages.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	return fetch.ParseDocument(body)
}
