package model

// Person types.
const (
	PersonHost  = "host"
	PersonGuest = "guest"
)

// Person is the front matter of content/people/<username>.md.
type Person struct {
	Type        string `yaml:"type"`
	Username    string `yaml:"username"`
	Title       string `yaml:"title"`
	Bio         string `yaml:"bio,omitempty"`
	Avatar      string `yaml:"avatar,omitempty"`
	AvatarSmall string `yaml:"avatar_small,omitempty"`
	Homepage    string `yaml:"homepage,omitempty"`
	Twitter     string `yaml:"twitter,omitempty"`
	LinkedIn    string `yaml:"linkedin,omitempty"`
	Instagram   string `yaml:"instagram,omitempty"`
	YouTube     string `yaml:"youtube,omitempty"`
}

// SetSocial stores a social link under the person field it belongs to.
func (p *Person) SetSocial(field, href string) {
	switch field {
	case "homepage":
		p.Homepage = href
	case "twitter":
		p.Twitter = href
	case "linkedin":
		p.LinkedIn = href
	case "instagram":
		p.Instagram = href
	case "youtube":
		p.YouTube = href
	}
}

// PersonFilename is the name of a person file. key is the username, or the
// alternative key of a conflicting record.
func PersonFilename(key string) string {
	return key + ".md"
}

// Markdown renders the Hugo page of the person.
func (p *Person) Markdown() ([]byte, error) {
	return yamlFrontMatter(p)
}

// ParsePerson reads a person page.
func ParsePerson(data []byte) (*Person, error) {
	var p Person
	if err := parseYAMLFrontMatter(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
