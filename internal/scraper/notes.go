package scraper

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// ShowNotes is what the episode description HTML of the feed provides.
type ShowNotes struct {
	// Blurb is the feed summary, or the first paragraph of the notes.
	Blurb string
	// SponsorLinks are the first link of every item in the "Sponsored By:" list.
	SponsorLinks []string
	// Links is the "Links:" list converted to markdown.
	Links string
}

// ParseShowNotes reads the content_html of a feed item.
func ParseShowNotes(contentHTML, summary string) (*ShowNotes, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing show notes: %w", err)
	}
	root := doc.Selection

	notes := &ShowNotes{Blurb: summary}
	if notes.Blurb == "" {
		if p := root.Find("p").First(); p.Length() > 0 {
			notes.Blurb = p.Text()
		}
	}

	if list := listAfter(root, "Sponsored By:", "p", "ul"); list != nil {
		notes.SponsorLinks = hrefs(list.Find("li > a:first-child"))
	}

	list := listAfter(root, "Links:", "p", "ul")
	if list == nil {
		list = listAfter(root, "Episode Links:", "p", "ul")
	}
	if list != nil {
		html, err := goquery.OuterHtml(list)
		if err != nil {
			return nil, fmt.Errorf("rendering links list: %w", err)
		}
		md, err := htmltomarkdown.ConvertString(html)
		if err != nil {
			return nil, fmt.Errorf("converting links to markdown: %w", err)
		}
		notes.Links = strings.TrimSpace(md)
	}

	return notes, nil
}
