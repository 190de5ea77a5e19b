package pipeline

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"show-scraper/internal/model"
)

// publish upserts the episodes written by this run into the index.
func (p *Pipeline) publish(ctx context.Context) error {
	p.mu.Lock()
	written := maps.Clone(p.written)
	p.mu.Unlock()

	var errs []error
	for _, slug := range slices.Sorted(maps.Keys(written)) {
		episodes := written[slug]
		slices.SortFunc(episodes, func(a, b *model.Episode) int { return a.Episode - b.Episode })
		if err := p.index.UpsertEpisodes(ctx, episodes, p.opts.BatchID); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", slug, err))
			continue
		}
		p.log.Info("indexed episodes", zap.String("show", slug), zap.Int("episodes", len(episodes)))
	}
	return errors.Join(errs...)
}
