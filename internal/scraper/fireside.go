package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"show-scraper/internal/config"
	"show-scraper/internal/fetch"
	"show-scraper/internal/model"
	"show-scraper/internal/normalize"
)

// ChaptersURLTemplate is the Fireside chapters endpoint, filled with the show's
// Fireside slug and the episode id.
const ChaptersURLTemplate = "https://feeds.fireside.fm/%s/json/episodes/%s/chapters"

// ShowFeed is the JSON feed a Fireside site serves at /json.
type ShowFeed struct {
	Version     string     `json:"version"`
	Title       string     `json:"title"`
	HomePageURL string     `json:"home_page_url"`
	FeedURL     string     `json:"feed_url"`
	Description string     `json:"description"`
	Items       []FeedItem `json:"items"`
}

// FeedItem is one episode of a ShowFeed.
type FeedItem struct {
	ID            uuid.UUID    `json:"id"`
	Title         string       `json:"title"`
	URL           string       `json:"url"`
	ContentHTML   string       `json:"content_html"`
	Summary       string       `json:"summary"`
	DatePublished time.Time    `json:"date_published"`
	Attachments   []Attachment `json:"attachments"`
}

// Attachment is the media file of a FeedItem.
type Attachment struct {
	URL               string `json:"url"`
	MimeType          string `json:"mime_type"`
	SizeInBytes       int64  `json:"size_in_bytes"`
	DurationInSeconds int    `json:"duration_in_seconds"`
}

// EpisodePage is what the public Fireside episode page adds to the feed item.
type EpisodePage struct {
	HostLinks  []string
	GuestLinks []string
	Tags       []string
	Sponsors   map[string]SponsorCard
}

// SponsorCard is the sponsor block rendered on an episode page, keyed by its link.
type SponsorCard struct {
	Title       string
	Description string
}

// Fireside scrapes the Fireside hosted show sites.
type Fireside struct {
	client      *fetch.Client
	chaptersURL string
	log         *zap.Logger
}

// NewFireside creates a Fireside scraper.
func NewFireside(client *fetch.Client, log *zap.Logger) *Fireside {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fireside{
		client:      client,
		chaptersURL: ChaptersURLTemplate,
		log:         log,
	}
}

// WithChaptersURL replaces the chapters endpoint template. It must contain two %s
// verbs: the Fireside slug and the episode id.
func (f *Fireside) WithChaptersURL(tpl string) *Fireside {
	f.chaptersURL = tpl
	return f
}

// Name returns the name of this source.
func (f *Fireside) Name() string {
	return "fireside"
}

// Feed fetches the JSON feed of a show, newest episode first.
func (f *Fireside) Feed(ctx context.Context, show *config.Show) (*ShowFeed, error) {
	feedURL := normalize.JoinURL(show.FiresideURL, "/json")
	var feed ShowFeed
	if err := f.client.JSON(ctx, feedURL, &feed); err != nil {
		return nil, fmt.Errorf("fetching feed of %s: %w", show.Slug, err)
	}
	return &feed, nil
}

// EpisodePage fetches and parses the public page of an episode.
func (f *Fireside) EpisodePage(ctx context.Context, pageURL string) (*EpisodePage, error) {
	doc, err := f.client.Document(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching episode page: %w", err)
	}
	return ParseEpisodePage(doc), nil
}

// ParseEpisodePage extracts hosts, guests, tags and sponsor cards. Hosts are the
// first ul.episode-hosts list and guests the second one, when present.
func ParseEpisodePage(doc *goquery.Document) *EpisodePage {
	page := &EpisodePage{
		Sponsors: make(map[string]SponsorCard),
	}

	lists := doc.Find("ul.episode-hosts")
	page.HostLinks = hrefs(lists.Eq(0).Find("a"))
	if lists.Length() > 1 {
		page.GuestLinks = hrefs(lists.Eq(1).Find("a"))
	}

	doc.Find("a.tag").Each(func(_ int, s *goquery.Selection) {
		page.Tags = append(page.Tags, strings.TrimSpace(s.Text()))
	})

	doc.Find("div.episode-sponsors a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if _, seen := page.Sponsors[href]; seen {
			return
		}
		page.Sponsors[href] = SponsorCard{
			Title:       strings.TrimSpace(s.Find("header").First().Text()),
			Description: strings.TrimSpace(s.Find("p").First().Text()),
		}
	})

	return page
}

// Chapters fetches the chapters of an episode. An HTTP error status means the
// episode has no chapters and yields nil without error.
func (f *Fireside) Chapters(ctx context.Context, show *config.Show, id uuid.UUID) (*model.Chapters, error) {
	return f.ChaptersFrom(ctx, fmt.Sprintf(f.chaptersURL, show.FiresideSlug, id.String()))
}

// ChaptersFrom fetches a chapters document from an explicit URL.
func (f *Fireside) ChaptersFrom(ctx context.Context, chaptersURL string) (*model.Chapters, error) {
	body, err := f.client.Get(ctx, chaptersURL)
	if err != nil {
		if fetch.StatusCode(err) != 0 {
			f.log.Debug("no chapters", zap.String("url", chaptersURL), zap.Int("status", fetch.StatusCode(err)))
			return nil, nil
		}
		return nil, fmt.Errorf("fetching chapters: %w", err)
	}
	chapters, err := ParseChapters(body)
	if err != nil {
		return nil, fmt.Errorf("chapters at %s: %w", chaptersURL, err)
	}
	return chapters, nil
}
