package site

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"show-scraper/internal/model"
)

// ReadEpisodes parses every episode page of the tree, grouped by show slug and
// ordered by episode number.
func ReadEpisodes(ctx context.Context, w *Writer) (map[string][]*model.Episode, error) {
	keys, err := w.store.List(ctx, ShowDir)
	if err != nil {
		return nil, fmt.Errorf("listing episodes: %w", err)
	}

	shows := make(map[string][]*model.Episode)
	for _, key := range keys {
		if path.Ext(key) != ".md" || strings.HasPrefix(path.Base(key), "_") {
			continue
		}
		data, err := w.store.Read(ctx, key)
		if err != nil {
			return nil, err
		}
		e, err := model.ParseEpisodeFile(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		shows[e.ShowSlug] = append(shows[e.ShowSlug], e)
	}
	for _, episodes := range shows {
		slices.SortFunc(episodes, func(a, b *model.Episode) int { return a.Episode - b.Episode })
	}
	return shows, nil
}
