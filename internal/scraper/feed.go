package scraper

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"show-scraper/internal/fetch"
	"show-scraper/internal/normalize"
)

// FeedEntry is what an RSS item adds to the Fireside data of an episode.
type FeedEntry struct {
	Episode     string
	ChaptersURL string
	Keywords    []string
	Hosts       []string
	Guests      []string
}

// Feed reads a show's podcast RSS feed.
type Feed struct {
	client *fetch.Client
}

// NewFeed creates an RSS feed reader.
func NewFeed(client *fetch.Client) *Feed {
	return &Feed{client: client}
}

// Name returns the name of this source.
func (f *Feed) Name() string {
	return "rss"
}

// Entries fetches and parses a feed, keyed by episode number.
func (f *Feed) Entries(ctx context.Context, feedURL string) (map[string]FeedEntry, error) {
	body, err := f.client.Get(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetching rss: %w", err)
	}
	return ParseFeed(body)
}

// ParseFeed parses RSS data. Items without an episode number are skipped.
func ParseFeed(body []byte) (map[string]FeedEntry, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing rss: %w", err)
	}

	entries := make(map[string]FeedEntry, len(feed.Items))
	for _, item := range feed.Items {
		entry := FeedEntry{Episode: itemEpisode(item)}
		if entry.Episode == "" {
			continue
		}
		if ch := podcastTags(item, "chapters"); len(ch) > 0 {
			entry.ChaptersURL = ch[0].Attrs["url"]
		}
		if item.ITunesExt != nil {
			entry.Keywords = splitKeywords(item.ITunesExt.Keywords)
		}
		for _, p := range podcastTags(item, "person") {
			name := normalize.Capitalize(strings.TrimSpace(p.Value))
			if name == "" {
				continue
			}
			switch strings.ToLower(p.Attrs["role"]) {
			case "", "host":
				entry.Hosts = append(entry.Hosts, name)
			case "guest":
				entry.Guests = append(entry.Guests, name)
			}
		}
		entries[entry.Episode] = entry
	}
	return entries, nil
}

func itemEpisode(item *gofeed.Item) string {
	if ep := podcastTags(item, "episode"); len(ep) > 0 {
		if n, err := strconv.ParseFloat(strings.TrimSpace(ep[0].Value), 64); err == nil {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	}
	if n, err := normalize.EpisodeNumber(item.Link); err == nil {
		return strconv.Itoa(n)
	}
	return ""
}

func podcastTags(item *gofeed.Item, name string) []ext.Extension {
	if item.Extensions == nil {
		return nil
	}
	return item.Extensions["podcast"][name]
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}
