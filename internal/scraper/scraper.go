// Package scraper reads episode data from the show sources: the Fireside hosted
// sites, the legacy jupiterbroadcasting.com site and the podcast RSS feeds.
package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Source is implemented by every scraper so the pipeline can report on it.
type Source interface {
	// Name returns the human-readable name of this source.
	Name() string
}

var (
	_ Source = (*Fireside)(nil)
	_ Source = (*LegacySite)(nil)
	_ Source = (*Feed)(nil)
)

// listAfter finds the findTag element whose text is label and returns its next
// siblingTag sibling. Show notes introduce link lists this way, e.g.
// <p>Links:</p><ul>...</ul>. It returns nil when either element is missing.
func listAfter(sel *goquery.Selection, label, findTag, siblingTag string) *goquery.Selection {
	pre := sel.Find(findTag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == label
	}).First()
	if pre.Length() == 0 {
		return nil
	}
	list := pre.NextAllFiltered(siblingTag).First()
	if list.Length() == 0 {
		return nil
	}
	return list
}

// hrefs returns the trimmed href attribute of every element in sel.
func hrefs(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && strings.TrimSpace(href) != "" {
			out = append(out, strings.TrimSpace(href))
		}
	})
	return out
}
