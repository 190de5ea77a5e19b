package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"show-scraper/internal/config"
	"show-scraper/internal/normalize"
)

// PersonCard is a host or guest as listed on a show site.
type PersonCard struct {
	PageURL        string
	Name           string
	Bio            string
	AvatarURL      string
	AvatarSmallURL string
	Social         map[string]string
}

// Hosts fetches the hosts page of a show.
func (f *Fireside) Hosts(ctx context.Context, show *config.Show) ([]PersonCard, error) {
	doc, err := f.client.Document(ctx, normalize.JoinURL(show.FiresideURL, "/hosts"))
	if err != nil {
		return nil, fmt.Errorf("fetching hosts of %s: %w", show.Slug, err)
	}
	return ParseHosts(doc, show.FiresideURL), nil
}

// ParseHosts reads the div.host blocks of a hosts page.
func ParseHosts(doc *goquery.Document, siteURL string) []PersonCard {
	var cards []PersonCard
	doc.Find("div.host").Each(func(_ int, host *goquery.Selection) {
		info := host.Find("div.host-info").First()
		link := info.Find("h3 a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		small := host.Find("div.host-avatar img").First().AttrOr("src", "")
		cards = append(cards, PersonCard{
			PageURL:        normalize.JoinURL(siteURL, href),
			Name:           strings.TrimSpace(link.Text()),
			Bio:            info.Find("p").First().Text(),
			AvatarSmallURL: small,
			AvatarURL:      fullAvatar(small),
			Social:         ParseSocialLinks(info.Find("ul.host-links a")),
		})
	})
	return cards
}

// Guests fetches the guest index of a show. Bio and social links live on each
// guest's own page, see GuestDetails.
func (f *Fireside) Guests(ctx context.Context, show *config.Show) ([]PersonCard, error) {
	doc, err := f.client.Document(ctx, normalize.JoinURL(show.FiresideURL, "/guests"))
	if err != nil {
		return nil, fmt.Errorf("fetching guests of %s: %w", show.Slug, err)
	}
	return ParseGuests(doc, show.FiresideURL), nil
}

// ParseGuests reads the ul.show-guests list of a guests page.
func ParseGuests(doc *goquery.Document, siteURL string) []PersonCard {
	var cards []PersonCard
	doc.Find("ul.show-guests").First().Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		small, _, _ := strings.Cut(a.Find("img").First().AttrOr("src", ""), "?")
		cards = append(cards, PersonCard{
			PageURL:        normalize.JoinURL(siteURL, href),
			Name:           strings.TrimSpace(a.Find("h5").First().Text()),
			AvatarSmallURL: small,
			AvatarURL:      fullAvatar(small),
		})
	})
	return cards
}

// GuestDetails fills the bio and social links of a guest from the guest page.
func (f *Fireside) GuestDetails(ctx context.Context, card *PersonCard) error {
	doc, err := f.client.Document(ctx, card.PageURL)
	if err != nil {
		return fmt.Errorf("fetching guest page: %w", err)
	}
	ParseGuestPage(doc, card)
	return nil
}

// ParseGuestPage reads the bio section and nav.links of a guest page into card.
func ParseGuestPage(doc *goquery.Document, card *PersonCard) {
	if section := doc.Find("section").First(); section.Length() > 0 {
		card.Bio = strings.TrimSpace(section.Text())
	}
	if nav := doc.Find("nav.links").First(); nav.Length() > 0 {
		card.Social = ParseSocialLinks(nav.Find("a"))
	}
}

// ParseSocialLinks maps labelled links to person fields. Hrefs are lower-cased.
func ParseSocialLinks(links *goquery.Selection) map[string]string {
	social := make(map[string]string)
	links.Each(func(_ int, a *goquery.Selection) {
		field := normalize.SocialField(a.Text())
		if field == "" {
			return
		}
		social[field] = strings.ToLower(a.AttrOr("href", ""))
	})
	return social
}

func fullAvatar(small string) string {
	if small == "" {
		return ""
	}
	return strings.Replace(small, "_small.jpg", ".jpg", 1)
}
