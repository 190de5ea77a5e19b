// Package site writes the Hugo content tree.
package site

import (
	"context"
	"fmt"
	"path"

	"go.uber.org/zap"

	"show-scraper/internal/model"
	"show-scraper/internal/normalize"
	"show-scraper/internal/store"
)

// Directories of the Hugo tree, relative to the data dir.
const (
	ShowDir     = "content/show"
	SponsorsDir = "content/sponsors"
	PeopleDir   = "content/people"
	AvatarDir   = "static/images/people"

	// AvatarURLPrefix is where Hugo serves AvatarDir from.
	AvatarURLPrefix = "/images/people"
)

// Outcome is what happened to a single file.
type Outcome int

const (
	Written Outcome = iota
	Skipped
)

func (o Outcome) String() string {
	if o == Skipped {
		return "skipped"
	}
	return "written"
}

// Policy decides which existing files may be replaced.
type Policy struct {
	// LatestOnly runs overwrite episodes and protect DontOverride files.
	LatestOnly bool
	// DontOverride reports whether a sponsor or person filename is protected.
	DontOverride func(filename string) bool
}

// Writer applies Policy on top of a Store.
type Writer struct {
	store  store.Store
	policy Policy
	log    *zap.Logger
}

// NewWriter creates a Writer.
func NewWriter(s store.Store, policy Policy, log *zap.Logger) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	if policy.DontOverride == nil {
		policy.DontOverride = func(string) bool { return false }
	}
	return &Writer{store: s, policy: policy, log: log}
}

// EpisodeKey is the key of an episode file.
func EpisodeKey(showSlug string, episode int) string {
	return path.Join(ShowDir, showSlug, normalize.Padded(episode)+".md")
}

// SkipEpisode reports whether a full run must leave an episode alone because its
// file already exists. Latest-only runs never skip.
func (w *Writer) SkipEpisode(ctx context.Context, showSlug string, episode int) (bool, error) {
	if w.policy.LatestOnly {
		return false, nil
	}
	return w.store.Exists(ctx, EpisodeKey(showSlug, episode))
}

// SaveEpisode writes an episode page.
func (w *Writer) SaveEpisode(ctx context.Context, e *model.Episode) (Outcome, error) {
	data, err := e.Markdown()
	if err != nil {
		return Skipped, err
	}
	key := path.Join(ShowDir, e.ShowSlug, e.Filename())
	return w.save(ctx, key, data, w.policy.LatestOnly)
}

// SaveSponsor writes a sponsor page.
func (w *Writer) SaveSponsor(ctx context.Context, s *model.Sponsor) (Outcome, error) {
	data, err := s.Markdown()
	if err != nil {
		return Skipped, err
	}
	return w.save(ctx, path.Join(SponsorsDir, s.Filename()), data, w.overwrite(s.Filename()))
}

// SavePerson writes a person page under key, which is the username or the
// alternative key of a conflicting record.
func (w *Writer) SavePerson(ctx context.Context, key string, p *model.Person) (Outcome, error) {
	data, err := p.Markdown()
	if err != nil {
		return Skipped, err
	}
	filename := model.PersonFilename(key)
	return w.save(ctx, path.Join(PeopleDir, filename), data, w.overwrite(filename))
}

// AvatarExists reports whether the avatar image name is already stored. name
// includes the extension, e.g. "chris_small.jpg".
func (w *Writer) AvatarExists(ctx context.Context, name string) (bool, error) {
	return w.store.Exists(ctx, path.Join(AvatarDir, name))
}

// SaveAvatar stores an avatar image and returns the site URL of it. Existing
// images are kept.
func (w *Writer) SaveAvatar(ctx context.Context, name string, data []byte) (string, Outcome, error) {
	outcome, err := w.save(ctx, path.Join(AvatarDir, name), data, false)
	if err != nil {
		return "", outcome, err
	}
	return AvatarURL(name), outcome, nil
}

// AvatarURL is the site URL of an avatar image.
func AvatarURL(name string) string {
	return path.Join(AvatarURLPrefix, name)
}

func (w *Writer) overwrite(filename string) bool {
	return !(w.policy.LatestOnly && w.policy.DontOverride(filename))
}

func (w *Writer) save(ctx context.Context, key string, data []byte, overwrite bool) (Outcome, error) {
	if !overwrite {
		exists, err := w.store.Exists(ctx, key)
		if err != nil {
			return Skipped, fmt.Errorf("checking %s: %w", key, err)
		}
		if exists {
			w.log.Warn("skipping, file already exists", zap.String("path", key))
			return Skipped, nil
		}
	}
	if err := w.store.Write(ctx, key, data); err != nil {
		return Skipped, fmt.Errorf("saving %s: %w", key, err)
	}
	w.log.Debug("saved", zap.String("path", key))
	return Written, nil
}
