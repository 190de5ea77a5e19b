package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"show-scraper/internal/fetch"
)

const hostsPageHTML = `<html><body>
<div class="host">
  <div class="host-avatar"><img src="https://assets.fireside.fm/file/chris_small.jpg"></div>
  <div class="host-info">
    <h3><a href="/hosts/chrislas"> Chris Fisher </a></h3>
    <p>Founder of Jupiter Broadcasting.</p>
    <ul class="host-links">
      <li><a href="https://ChrisLAS.com">Website</a></li>
      <li><a href="https://Twitter.com/ChrisLAS">Twitter</a></li>
      <li><a href="https://example.social/@chris">Mastodon</a></li>
    </ul>
  </div>
</div>
<div class="host">
  <div class="host-avatar"><img src="https://assets.fireside.fm/file/wes_small.jpg"></div>
  <div class="host-info">
    <h3><a href="/hosts/wespayne">Wes Payne</a></h3>
    <p>Co-host.</p>
    <ul class="host-links"></ul>
  </div>
</div>
</body></html>`

const guestsPageHTML = `<html><body>
<ul class="show-guests">
  <li><a href="/guests/alanpope"><img src="https://assets.fireside.fm/file/popey_small.jpg?v=3"><h5>Alan Pope</h5></a></li>
  <li><a href="/guests/jscar"><img src="https://assets.fireside.fm/file/jscar_small.jpg"><h5> J Scar </h5></a></li>
</ul>
</body></html>`

const guestPageHTML = `<html><body>
<h1>Alan Pope</h1>
<section>
  Ubuntu community person.
</section>
<nav class="links">
  <a href="https://popey.com">Website</a>
  <a href="https://LinkedIn.com/in/popey">LinkedIn</a>
  <a href="https://youtube.com/popey">YouTube</a>
</nav>
</body></html>`

func newPeopleServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/hosts", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(hostsPageHTML)) })
	mux.HandleFunc("/guests", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(guestsPageHTML)) })
	mux.HandleFunc("/guests/alanpope", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(guestPageHTML)) })
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFiresideHosts(t *testing.T) {
	server := newPeopleServer(t)
	f := newTestFireside(t, server)

	hosts, err := f.Hosts(context.Background(), testShow(server))
	require.NoError(t, err)
	require.Len(t, hosts, 2)

	chris := hosts[0]
	assert.Equal(t, server.URL+"/hosts/chrislas", chris.PageURL)
	assert.Equal(t, "Chris Fisher", chris.Name)
	assert.Equal(t, "Founder of Jupiter Broadcasting.", chris.Bio)
	assert.Equal(t, "https://assets.fireside.fm/file/chris_small.jpg", chris.AvatarSmallURL)
	assert.Equal(t, "https://assets.fireside.fm/file/chris.jpg", chris.AvatarURL)
	assert.Equal(t, map[string]string{
		"homepage": "https://chrislas.com",
		"twitter":  "https://twitter.com/chrislas",
	}, chris.Social)

	assert.Empty(t, hosts[1].Social)
}

func TestFiresideGuests(t *testing.T) {
	server := newPeopleServer(t)
	f := newTestFireside(t, server)

	guests, err := f.Guests(context.Background(), testShow(server))
	require.NoError(t, err)
	require.Len(t, guests, 2)

	popey := guests[0]
	assert.Equal(t, "Alan Pope", popey.Name)
	assert.Equal(t, "https://assets.fireside.fm/file/popey_small.jpg", popey.AvatarSmallURL)
	assert.Equal(t, "https://assets.fireside.fm/file/popey.jpg", popey.AvatarURL)
	assert.Equal(t, "J Scar", guests[1].Name)

	require.NoError(t, f.GuestDetails(context.Background(), &popey))
	assert.Equal(t, "Ubuntu community person.", popey.Bio)
	assert.Equal(t, "https://linkedin.com/in/popey", popey.Social["linkedin"])
	assert.Equal(t, "https://youtube.com/popey", popey.Social["youtube"])
	assert.Equal(t, "https://popey.com", popey.Social["homepage"])

	jscar := guests[1]
	assert.Error(t, f.GuestDetails(context.Background(), &jscar))
}

func TestParseGuestPageWithoutDetails(t *testing.T) {
	doc, err := fetch.ParseDocument([]byte(`<html><body><h1>Nobody</h1></body></html>`))
	require.NoError(t, err)

	card := PersonCard{Name: "Nobody"}
	ParseGuestPage(doc, &card)
	assert.Empty(t, card.Bio)
	assert.Nil(t, card.Social)
}
