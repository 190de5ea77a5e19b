package model

// Sponsor is the front matter of content/sponsors/<shortname>.md.
type Sponsor struct {
	Shortname   string `yaml:"shortname"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Link        string `yaml:"link"`
}

// Filename is the name of the sponsor file.
func (s *Sponsor) Filename() string {
	return s.Shortname + ".md"
}

// Markdown renders the Hugo page of the sponsor.
func (s *Sponsor) Markdown() ([]byte, error) {
	return yamlFrontMatter(s)
}

// ParseSponsor reads a sponsor page.
func ParseSponsor(data []byte) (*Sponsor, error) {
	var s Sponsor
	if err := parseYAMLFrontMatter(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
