// Package index publishes the episode index to Firestore.
package index

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"show-scraper/internal/model"
)

const batchSize = 250 // Stay well under Firestore's 500 operation limit

// Record is one indexed episode.
type Record struct {
	ID            string
	ShowSlug      string
	ShowName      string
	Episode       int
	EpisodePadded string
	Title         string
	Date          time.Time
	Hosts         []string
	Guests        []string
	Tags          []string
	PodcastFile   string
	YouTubeLink   string
	FiresideURL   string
	BatchID       string
}

// Client wraps the Firestore client for episode index operations.
type Client struct {
	client     *firestore.Client
	collection string
}

// New creates a new Firestore client.
func New(ctx context.Context, projectID, collection string) (*Client, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &Client{
		client:     client,
		collection: collection,
	}, nil
}

// Close closes the Firestore client.
func (c *Client) Close() error {
	return c.client.Close()
}

// ReplaceEpisodesForShow replaces all indexed episodes of a show.
// It deletes all existing documents for the show, then writes the new ones.
func (c *Client) ReplaceEpisodesForShow(ctx context.Context, showSlug string, episodes []*model.Episode, batchID string) error {
	if err := c.deleteEpisodesForShow(ctx, showSlug); err != nil {
		return fmt.Errorf("deleting existing episodes: %w", err)
	}
	return c.UpsertEpisodes(ctx, episodes, batchID)
}

// UpsertEpisodes writes episodes without touching the other documents of the show.
func (c *Client) UpsertEpisodes(ctx context.Context, episodes []*model.Episode, batchID string) error {
	coll := c.client.Collection(c.collection)

	for chunk := range slices.Chunk(episodes, batchSize) {
		batch := c.client.Batch()
		for _, e := range chunk {
			batch.Set(coll.Doc(DocID(e.ShowSlug, e.Episode)), episodeToMap(e, batchID))
		}
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("committing batch: %w", err)
		}
	}
	return nil
}

// deleteEpisodesForShow deletes all documents for a given show.
func (c *Client) deleteEpisodesForShow(ctx context.Context, showSlug string) error {
	query := c.client.Collection(c.collection).Where("show_slug", "==", showSlug)

	for {
		iter := query.Limit(batchSize).Documents(ctx)
		batch := c.client.Batch()
		numDeleted := 0

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("iterating documents: %w", err)
			}
			batch.Delete(doc.Ref)
			numDeleted++
		}

		if numDeleted == 0 {
			return nil
		}

		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("committing delete batch: %w", err)
		}

		if numDeleted < batchSize {
			return nil
		}
	}
}

// ListEpisodes returns the indexed episodes, newest first. An empty showSlug
// lists every show; limit <= 0 returns everything.
func (c *Client) ListEpisodes(ctx context.Context, showSlug string, limit int) ([]Record, error) {
	coll := c.client.Collection(c.collection)
	query := coll.Query
	if showSlug != "" {
		query = coll.Where("show_slug", "==", showSlug)
	}

	var records []Record
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating documents: %w", err)
		}
		rec := mapToRecord(doc.Data())
		rec.ID = doc.Ref.ID
		records = append(records, rec)
	}

	// Sorted here to avoid a composite index on show_slug + date.
	SortRecords(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// CountByShow returns the number of indexed episodes per show.
func (c *Client) CountByShow(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	iter := c.client.Collection(c.collection).Select("show_slug").Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating documents: %w", err)
		}
		slug, _ := doc.Data()["show_slug"].(string)
		counts[slug]++
	}
	return counts, nil
}

// SortRecords orders records newest first, then by show and episode.
func SortRecords(records []Record) {
	slices.SortFunc(records, func(a, b Record) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		if c := strings.Compare(a.ShowSlug, b.ShowSlug); c != 0 {
			return c
		}
		return b.Episode - a.Episode
	})
}

// DocID is the document ID of an episode, e.g. "lup-0472".
func DocID(showSlug string, episode int) string {
	return fmt.Sprintf("%s-%04d", showSlug, episode)
}

// episodeToMap converts an Episode to a Firestore document map.
func episodeToMap(e *model.Episode, batchID string) map[string]interface{} {
	m := map[string]interface{}{
		"show_slug":      e.ShowSlug,
		"show_name":      e.ShowName,
		"episode":        e.Episode,
		"episode_padded": e.EpisodePadded,
		"title":          e.Title,
		"date":           e.Date,
		"hosts":          e.Hosts,
		"guests":         e.Guests,
		"tags":           e.Tags,
		"podcast_file":   e.PodcastFile,
		"fireside_url":   e.FiresideURL,
		"batch_id":       batchID,
	}
	if e.YouTubeLink != nil {
		m["youtube_link"] = *e.YouTubeLink
	}
	return m
}

// mapToRecord converts a Firestore document map to a Record.
func mapToRecord(m map[string]interface{}) Record {
	rec := Record{}

	if v, ok := m["show_slug"].(string); ok {
		rec.ShowSlug = v
	}
	if v, ok := m["show_name"].(string); ok {
		rec.ShowName = v
	}
	if v, ok := m["episode"].(int64); ok {
		rec.Episode = int(v)
	}
	if v, ok := m["episode_padded"].(string); ok {
		rec.EpisodePadded = v
	}
	if v, ok := m["title"].(string); ok {
		rec.Title = v
	}
	if v, ok := m["date"].(time.Time); ok {
		rec.Date = v
	}
	rec.Hosts = stringSlice(m["hosts"])
	rec.Guests = stringSlice(m["guests"])
	rec.Tags = stringSlice(m["tags"])
	if v, ok := m["podcast_file"].(string); ok {
		rec.PodcastFile = v
	}
	if v, ok := m["youtube_link"].(string); ok {
		rec.YouTubeLink = v
	}
	if v, ok := m["fireside_url"].(string); ok {
		rec.FiresideURL = v
	}
	if v, ok := m["batch_id"].(string); ok {
		rec.BatchID = v
	}

	return rec
}

// Firestore returns arrays as []interface{}.
func stringSlice(v interface{}) []string {
	var out []string
	switch vals := v.(type) {
	case []string:
		out = append(out, vals...)
	case []interface{}:
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
