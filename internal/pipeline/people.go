package pipeline

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"show-scraper/internal/config"
	"show-scraper/internal/model"
	"show-scraper/internal/scraper"
	"show-scraper/internal/site"
)

// saveSponsors writes the sponsors collected by the episodes stage.
func (p *Pipeline) saveSponsors(ctx context.Context) error {
	p.mu.Lock()
	sponsors := maps.Clone(p.sponsors)
	p.mu.Unlock()

	for _, filename := range slices.Sorted(maps.Keys(sponsors)) {
		outcome, err := p.writer.SaveSponsor(ctx, sponsors[filename])
		if err != nil {
			p.log.Error("failed to save sponsor", zap.String("sponsor", filename), zap.Error(err))
			p.stats.sponsorFailed()
			continue
		}
		p.stats.sponsor(outcome)
	}
	p.log.Info("saved sponsors", zap.Int("sponsors", len(sponsors)))
	return nil
}

// people are person records keyed by username, or by __<username>_<acronym> for
// a conflicting record from another show.
type people map[string]*model.Person

// add stores a person. A record that differs from the one already stored under
// the same username is kept under an alternative key, except in latest-only mode
// where the newer record replaces it.
func (p *Pipeline) add(m people, acronym string, person *model.Person) {
	existing, ok := m[person.Username]
	if ok && *existing != *person && !p.opts.LatestOnly {
		m[fmt.Sprintf("__%s_%s", person.Username, acronym)] = person
		return
	}
	m[person.Username] = person
}

// scrapePeople writes a page for every guest and host of every show. Hosts
// replace guests with the same key.
func (p *Pipeline) scrapePeople(ctx context.Context) error {
	var errs []error
	guests, hosts := make(people), make(people)
	for _, show := range p.cfg.OrderedShows() {
		if err := p.showGuests(ctx, show, guests); err != nil {
			errs = append(errs, fmt.Errorf("%s guests: %w", show.Slug, err))
		}
	}
	for _, show := range p.cfg.OrderedShows() {
		if err := p.showHosts(ctx, show, hosts); err != nil {
			errs = append(errs, fmt.Errorf("%s hosts: %w", show.Slug, err))
		}
	}

	all := maps.Clone(guests)
	maps.Copy(all, hosts)

	for _, key := range slices.Sorted(maps.Keys(all)) {
		outcome, err := p.writer.SavePerson(ctx, key, all[key])
		if err != nil {
			p.log.Error("failed to save person", zap.String("person", key), zap.Error(err))
			p.stats.personFailed()
			continue
		}
		p.stats.person(outcome)
	}
	p.log.Info("saved people", zap.Int("guests", len(guests)), zap.Int("hosts", len(hosts)))
	return errors.Join(errs...)
}

func (p *Pipeline) showHosts(ctx context.Context, show *config.Show, m people) error {
	cards, err := p.fireside.Hosts(ctx, show)
	if err != nil {
		return err
	}
	for _, card := range cards {
		p.add(m, show.Acronym, p.person(ctx, model.PersonHost, card))
	}
	return nil
}

func (p *Pipeline) showGuests(ctx context.Context, show *config.Show, m people) error {
	cards, err := p.fireside.Guests(ctx, show)
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for i := range cards {
		g.Go(func() error {
			if err := p.fireside.GuestDetails(ctx, &cards[i]); err != nil {
				p.log.Error("failed to read guest page",
					zap.String("show", show.Slug), zap.String("url", cards[i].PageURL), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, card := range cards {
		p.add(m, show.Acronym, p.person(ctx, model.PersonGuest, card))
	}
	return nil
}

// person turns a card into a record and stores its avatars.
func (p *Pipeline) person(ctx context.Context, kind string, card scraper.PersonCard) *model.Person {
	username := p.cfg.Username(card.PageURL)
	person := &model.Person{
		Type:        kind,
		Username:    username,
		Title:       card.Name,
		Bio:         card.Bio,
		AvatarSmall: p.avatar(ctx, username+"_small.jpg", card.AvatarSmallURL),
		Avatar:      p.avatar(ctx, username+".jpg", card.AvatarURL),
	}
	for field, href := range card.Social {
		person.SetSocial(field, href)
	}
	return person
}

// avatar stores an avatar image unless it already exists and returns its site
// URL. It returns "" when the image could not be stored.
func (p *Pipeline) avatar(ctx context.Context, name, imgURL string) string {
	if imgURL == "" {
		return ""
	}
	log := p.log.With(zap.String("avatar", name), zap.String("url", imgURL))

	exists, err := p.writer.AvatarExists(ctx, name)
	if err != nil {
		log.Error("failed to check avatar", zap.Error(err))
		return ""
	}
	if exists {
		log.Debug("avatar already exists")
		p.stats.avatar(site.Skipped)
		return site.AvatarURL(name)
	}

	body, err := p.client.Get(ctx, imgURL)
	if err != nil {
		log.Error("failed to download avatar", zap.Error(err))
		p.stats.avatarFailed()
		return ""
	}
	url, outcome, err := p.writer.SaveAvatar(ctx, name, body)
	if err != nil {
		log.Error("failed to save avatar", zap.Error(err))
		p.stats.avatarFailed()
		return ""
	}
	p.stats.avatar(outcome)
	return url
}
