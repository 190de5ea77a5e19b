package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"show-scraper/internal/fetch"
	"show-scraper/internal/model"
)

func archivePage(items ...string) string {
	html := `<html><body><span class="pages">Page 1 of 2</span>`
	for _, item := range items {
		html += item
	}
	return html + `</body></html>`
}

func videoItem(href, title string) string {
	return fmt.Sprintf(`<div class="videoitem"><a href="%s" title="%s"><img src="x.jpg"></a><a href="%s">%s</a></div>`, href, title, href, title)
}

func newLegacyServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/show/lup", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(archivePage()))
	})
	mux.HandleFunc("/show/lup/page/1/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(archivePage(
			videoItem("/149032/git-happens-linux-unplugged-464/", "Git Happens | LINUX Unplugged 464"),
			videoItem("/149000/tough-love-linux-unplugged-463/", "Tough Love | LINUX Unplugged 463"),
			videoItem("/148000/no-number/", "Special Announcement"),
		)))
	})
	mux.HandleFunc("/show/lup/page/2/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(archivePage(
			videoItem("/40000/too-much-choice/", "Episode 1: Too Much Choice | LU1"),
			videoItem("/149033/git-happens-again/", "Git Happens Again | LINUX Unplugged 464"),
		)))
	})
	mux.HandleFunc("/149032/git-happens-linux-unplugged-464/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div id="direct-downloads">
<a href="\&quot;https://traffic.libsyn.com/jnite/lup-0464.mp3\&quot;">MP3 Audio</a>
<a href="https://archive.org/lup-0464.ogg">OGG Audio</a>
<a href="https://www.youtube.com/watch?v=abc">YouTube</a>
<a href="https://example.com/lup-0464.torrent">Torrent</a>
</div>`))
	})
	mux.HandleFunc("/40000/too-much-choice/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<h3>Direct Download:</h3>
<p><a href="https://example.com/lup-0001.mp4">HD Video</a> | <a href="https://example.com/lup-0001-m.mp4">Mobile Video</a></p>`))
	})
	mux.HandleFunc("/1/nothing/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<p>Nothing here</p>`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestLegacy(t *testing.T) *LegacySite {
	t.Helper()
	client := fetch.NewClient(fetch.Options{Attempts: 1}, zaptest.NewLogger(t))
	return NewLegacySite(client, 2, zaptest.NewLogger(t))
}

func TestLegacyLastPage(t *testing.T) {
	server := newLegacyServer(t)
	s := newTestLegacy(t)

	n, err := s.LastPage(context.Background(), server.URL+"/show/lup")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	doc, err := fetch.ParseDocument([]byte(`<html></html>`))
	require.NoError(t, err)
	n, err = ParseLastPage(doc)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	doc, err = fetch.ParseDocument([]byte(`<span class="pages">Page 1 of many</span>`))
	require.NoError(t, err)
	_, err = ParseLastPage(doc)
	assert.Error(t, err)
}

func TestLegacyEpisodeIndex(t *testing.T) {
	server := newLegacyServer(t)
	s := newTestLegacy(t)

	index, err := s.EpisodeIndex(context.Background(), "lup", server.URL+"/show/lup/", 2, 0)
	require.NoError(t, err)

	assert.Len(t, index, 3)
	assert.Equal(t, "/149032/git-happens-linux-unplugged-464/", index["464"].JBURL, "first occurrence of a duplicate wins")
	assert.Equal(t, "/149000/tough-love-linux-unplugged-463/", index["463"].JBURL)
	assert.Equal(t, "/40000/too-much-choice/", index["1"].JBURL)
}

func TestLegacyEpisodeIndexLimit(t *testing.T) {
	server := newLegacyServer(t)
	s := newTestLegacy(t)

	index, err := s.EpisodeIndex(context.Background(), "lup", server.URL+"/show/lup", 1, 1)
	require.NoError(t, err)
	assert.Len(t, index, 1)
	assert.Contains(t, index, "464")
}

func TestLegacyEpisodeIndexPageError(t *testing.T) {
	server := newLegacyServer(t)
	s := newTestLegacy(t)

	_, err := s.EpisodeIndex(context.Background(), "lup", server.URL+"/show/lup", 3, 0)
	assert.Error(t, err)
}

func TestArchiveEpisodeNumber(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Git Happens | LINUX Unplugged 464", "464"},
		{"Episode 1: Too Much Choice | LU1", "1"},
		{"Goodbye from Linux Action News", "152.5"},
		{"Say My Functional Name | Coder Radio", "343"},
		{"New Show! | Coder Radio", "0"},
		{"Someone Else’s Computer | Self-Hosted 59", "60"},
		{"Linux Action News 007", "7"},
		{"Special Announcement", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, ArchiveEpisodeNumber(tt.title))
		})
	}
}

func TestLegacyFillDirectLinks(t *testing.T) {
	server := newLegacyServer(t)
	s := newTestLegacy(t)

	rec := &model.DirectLinks{JBURL: server.URL + "/149032/git-happens-linux-unplugged-464/"}
	unknown, err := s.FillDirectLinks(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"torrent"}, unknown)
	assert.Equal(t, "https://traffic.libsyn.com/jnite/lup-0464.mp3", rec.MP3Audio)
	assert.Equal(t, "https://archive.org/lup-0464.ogg", rec.OGGAudio)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", rec.YouTube)

	old := &model.DirectLinks{JBURL: server.URL + "/40000/too-much-choice/"}
	unknown, err = s.FillDirectLinks(context.Background(), old)
	require.NoError(t, err)
	assert.Empty(t, unknown)
	assert.Equal(t, "https://example.com/lup-0001.mp4", old.HDVideo)
	assert.Equal(t, "https://example.com/lup-0001-m.mp4", old.MobileVideo)

	none := &model.DirectLinks{JBURL: server.URL + "/1/nothing/"}
	unknown, err = s.FillDirectLinks(context.Background(), none)
	require.NoError(t, err)
	assert.Empty(t, unknown)
	assert.Empty(t, none.MP3Audio)

	_, err = s.FillDirectLinks(context.Background(), &model.DirectLinks{JBURL: server.URL + "/missing/"})
	assert.Error(t, err)
}

func TestParseDirectLinksPrefersDiv(t *testing.T) {
	doc, err := fetch.ParseDocument([]byte(`<div id="direct-downloads"></div>
<h3>Direct Download:</h3>
<p><a href="https://example.com/lup-0001.mp3">MP3 Audio</a></p>`))
	require.NoError(t, err)

	rec := &model.DirectLinks{}
	unknown, found := ParseDirectLinks(doc, rec)
	assert.True(t, found)
	assert.Empty(t, unknown)
	assert.Empty(t, rec.MP3Audio, "an empty div hides the older layout")

	doc, err = fetch.ParseDocument([]byte(`<h3>Direct Download:</h3>
<p><a href="https://example.com/lup-0001.mp3">MP3 Audio</a></p>`))
	require.NoError(t, err)
	_, found = ParseDirectLinks(doc, rec)
	assert.True(t, found)
	assert.Equal(t, "https://example.com/lup-0001.mp3", rec.MP3Audio)
}
