// Package config loads the show catalogue and the runtime settings of a scrape.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"show-scraper/internal/normalize"
)

// Show describes one podcast and where its data lives.
type Show struct {
	Slug         string `yaml:"-"`
	Name         string `yaml:"name" validate:"required"`
	Acronym      string `yaml:"acronym" validate:"required"`
	FiresideURL  string `yaml:"fireside_url" validate:"required,http_url"`
	FiresideSlug string `yaml:"fireside_slug" validate:"required"`
	JBURL        string `yaml:"jb_url" validate:"omitempty,http_url"`
	RSSURL       string `yaml:"rss_url" validate:"omitempty,http_url"`
}

// Config is the content of config.yml.
type Config struct {
	Shows            map[string]*Show  `yaml:"shows" validate:"required,min=1,dive,required"`
	UsernamesMap     map[string]string `yaml:"usernames_map"`
	DataDontOverride []string          `yaml:"data_dont_override"`
}

var validate = validator.New()

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML config data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	for slug, show := range cfg.Shows {
		if show != nil {
			show.Slug = slug
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every show is complete.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// ShowSlugs returns the configured show slugs in sorted order.
func (c *Config) ShowSlugs() []string {
	slugs := make([]string, 0, len(c.Shows))
	for slug := range c.Shows {
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)
	return slugs
}

// OrderedShows returns the shows sorted by slug.
func (c *Config) OrderedShows() []*Show {
	shows := make([]*Show, 0, len(c.Shows))
	for _, slug := range c.ShowSlugs() {
		shows = append(shows, c.Shows[slug])
	}
	return shows
}

// Restrict drops every show not listed in slugs. An empty list keeps all shows.
func (c *Config) Restrict(slugs []string) error {
	if len(slugs) == 0 {
		return nil
	}
	keep := make(map[string]*Show, len(slugs))
	for _, slug := range slugs {
		show, ok := c.Shows[slug]
		if !ok {
			return fmt.Errorf("unknown show %q", slug)
		}
		keep[slug] = show
	}
	c.Shows = keep
	return nil
}

// Username returns the canonical username for a host or guest page URL: the last
// path segment, replaced through usernames_map when it has an entry.
func (c *Config) Username(pageURL string) string {
	p := pageURL
	if u, err := url.Parse(pageURL); err == nil {
		p = u.Path
	}
	username := normalize.LastSegment(p)
	if mapped, ok := c.UsernamesMap[username]; ok {
		return mapped
	}
	return username
}

// DontOverride reports whether a latest-only run must leave filename untouched.
func (c *Config) DontOverride(filename string) bool {
	return slices.Contains(c.DataDontOverride, filename)
}
