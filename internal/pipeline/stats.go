package pipeline

import (
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"show-scraper/internal/site"
)

// Counts tallies the files of one kind.
type Counts struct {
	Written int
	Skipped int
	Failed  int
}

func (c *Counts) add(o site.Outcome) {
	if o == site.Skipped {
		c.Skipped++
	} else {
		c.Written++
	}
}

// Stats summarizes a run.
type Stats struct {
	mu sync.Mutex

	Episodes map[string]*Counts
	// Legacy is the number of legacy site records per show.
	Legacy       map[string]int
	Sponsors     Counts
	People       Counts
	Avatars      Counts
	FailedStages []string
}

func newStats() *Stats {
	return &Stats{
		Episodes: make(map[string]*Counts),
		Legacy:   make(map[string]int),
	}
}

func (s *Stats) show(slug string) *Counts {
	c, ok := s.Episodes[slug]
	if !ok {
		c = &Counts{}
		s.Episodes[slug] = c
	}
	return c
}

func (s *Stats) episode(slug string, o site.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.show(slug).add(o)
}

func (s *Stats) episodeFailed(slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.show(slug).Failed++
}

func (s *Stats) setLegacy(slug string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Legacy[slug] = n
}

func (s *Stats) sponsor(o site.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sponsors.add(o)
}

func (s *Stats) sponsorFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sponsors.Failed++
}

func (s *Stats) person(o site.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.People.add(o)
}

func (s *Stats) personFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.People.Failed++
}

func (s *Stats) avatar(o site.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Avatars.add(o)
}

func (s *Stats) avatarFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Avatars.Failed++
}

func (s *Stats) failStage(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FailedStages = append(s.FailedStages, name)
}

// EpisodeTotals sums the episode counts of all shows.
func (s *Stats) EpisodeTotals() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total Counts
	for _, c := range s.Episodes {
		total.Written += c.Written
		total.Skipped += c.Skipped
		total.Failed += c.Failed
	}
	return total
}

// Table renders the summary printed at the end of a run.
func (s *Stats) Table() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Kind", "Show", "Legacy", "Written", "Skipped", "Failed"})

	shows := slices.Sorted(maps.Keys(s.Episodes))
	for slug := range s.Legacy {
		if !slices.Contains(shows, slug) {
			shows = append(shows, slug)
		}
	}
	slices.Sort(shows)

	for _, slug := range shows {
		c := s.Episodes[slug]
		if c == nil {
			c = &Counts{}
		}
		legacy := "-"
		if n, ok := s.Legacy[slug]; ok {
			legacy = strconv.Itoa(n)
		}
		tw.AppendRow(table.Row{"episodes", slug, legacy, c.Written, c.Skipped, c.Failed})
	}
	tw.AppendSeparator()
	for _, row := range []struct {
		kind string
		c    Counts
	}{
		{"sponsors", s.Sponsors},
		{"people", s.People},
		{"avatars", s.Avatars},
	} {
		tw.AppendRow(table.Row{row.kind, "", "", row.c.Written, row.c.Skipped, row.c.Failed})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}
