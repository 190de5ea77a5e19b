package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Social link fields on a person page, matched by link label.
const (
	SocialHomepage  = "homepage"
	SocialTwitter   = "twitter"
	SocialLinkedIn  = "linkedin"
	SocialInstagram = "instagram"
	SocialYouTube   = "youtube"
)

// socialLabels is checked in order; the first label fragment found wins.
var socialLabels = []struct {
	fragment string
	field    string
}{
	{"website", SocialHomepage},
	{"twitter", SocialTwitter},
	{"linkedin", SocialLinkedIn},
	{"instagram", SocialInstagram},
	{"youtube", SocialYouTube},
}

// SocialField maps a social link label ("Website", "Twitter", ...) to the person
// field it fills. It returns "" for labels that map to nothing.
func SocialField(label string) string {
	label = strings.ToLower(label)
	for _, s := range socialLabels {
		if strings.Contains(label, s.fragment) {
			return s.field
		}
	}
	return ""
}

// Capitalize upper-cases the first letter of every space separated word and
// lower-cases the rest.
func Capitalize(text string) string {
	words := strings.Split(text, " ")
	caser := cases.Title(language.Und)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}
