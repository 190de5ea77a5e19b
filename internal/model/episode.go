package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"show-scraper/internal/normalize"
)

// EpisodeType is the Hugo content type of every episode page.
const EpisodeType = "episode"

// Episode is the front matter of content/show/<show_slug>/<episode_padded>.md.
// Field order is the order written to disk.
type Episode struct {
	Type          string    `json:"type"`
	Draft         bool      `json:"draft"`
	ShowSlug      string    `json:"show_slug" validate:"required"`
	ShowName      string    `json:"show_name" validate:"required"`
	Episode       int       `json:"episode" validate:"gte=0"`
	EpisodePadded string    `json:"episode_padded" validate:"required,numeric"`
	EpisodeGUID   string    `json:"episode_guid" validate:"required"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title" validate:"required"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	HeaderImage   string    `json:"header_image"`
	Categories    []string  `json:"categories"`
	Tags          []string  `json:"tags"`
	Hosts         []string  `json:"hosts"`
	Guests        []string  `json:"guests"`
	Sponsors      []string  `json:"sponsors"`

	PodcastDuration string    `json:"podcast_duration" validate:"required"`
	PodcastFile     string    `json:"podcast_file" validate:"required,url"`
	PodcastBytes    int64     `json:"podcast_bytes" validate:"gte=0"`
	PodcastChapters *Chapters `json:"podcast_chapters"`
	PodcastAltFile  *string   `json:"podcast_alt_file" validate:"omitempty,url"`
	PodcastOGGFile  *string   `json:"podcast_ogg_file" validate:"omitempty,url"`
	VideoFile       *string   `json:"video_file" validate:"omitempty,url"`
	VideoHDFile     *string   `json:"video_hd_file" validate:"omitempty,url"`
	VideoMobileFile *string   `json:"video_mobile_file" validate:"omitempty,url"`
	YouTubeLink     *string   `json:"youtube_link" validate:"omitempty,url,youtube"`

	// Path of the episode page on jupiterbroadcasting.com.
	JBURL *string `json:"jb_url"`
	// Path of the episode page on the show's Fireside site.
	FiresideURL string `json:"fireside_url" validate:"required"`

	// Markdown list of links, written as the page body.
	EpisodeLinks string `json:"-"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("youtube", func(fl validator.FieldLevel) bool {
		return normalize.ValidYouTube(fl.Field().String())
	})
	return v
}

// Derive fills the fields computed from other fields and cleans up media URLs.
func (e *Episode) Derive() {
	e.Type = EpisodeType
	e.EpisodePadded = normalize.Padded(e.Episode)
	e.Slug = strconv.Itoa(e.Episode)
	e.HeaderImage = fmt.Sprintf("/images/shows/%s.png", e.ShowSlug)
	if !slices.Contains(e.Categories, e.ShowName) {
		e.Categories = append([]string{e.ShowName}, e.Categories...)
	}

	e.Tags = nonNil(e.Tags)
	e.Hosts = nonNil(e.Hosts)
	e.Guests = nonNil(e.Guests)
	e.Sponsors = nonNil(e.Sponsors)

	e.PodcastFile = normalize.RemoveTracking(e.PodcastFile)
	for _, p := range []**string{&e.PodcastAltFile, &e.PodcastOGGFile, &e.VideoFile, &e.VideoHDFile, &e.VideoMobileFile} {
		*p = cleanMedia(*p)
	}
	if e.PodcastAltFile != nil && normalize.SameMedia(*e.PodcastAltFile, e.PodcastFile) {
		e.PodcastAltFile = nil
	}
}

// Validate checks the episode before it is written.
func (e *Episode) Validate() error {
	if e.Date.IsZero() {
		return errors.New("episode date is missing")
	}
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("invalid episode %s/%s: %w", e.ShowSlug, e.EpisodePadded, err)
	}
	return nil
}

// Filename is the name of the episode file inside its show directory.
func (e *Episode) Filename() string {
	return e.EpisodePadded + ".md"
}

// Markdown renders the Hugo page: JSON front matter followed by the episode links.
func (e *Episode) Markdown() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	if e.EpisodeLinks != "" {
		buf.WriteString("\n\n### Episode Links\n\n")
		buf.WriteString(e.EpisodeLinks)
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// ParseEpisodeFile reads the front matter of an episode page.
func ParseEpisodeFile(data []byte) (*Episode, error) {
	var e Episode
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&e); err != nil {
		return nil, fmt.Errorf("decoding front matter: %w", err)
	}
	return &e, nil
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the string behind p, or "".
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func cleanMedia(p *string) *string {
	if p == nil {
		return nil
	}
	return StringPtr(normalize.RemoveTracking(*p))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
