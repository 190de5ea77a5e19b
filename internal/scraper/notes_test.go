package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const showNotesHTML = `<p>This week we dig into NixOS.</p>
<p>Special Guest: Alan Pope.</p>
<p>Sponsored By:</p>
<ul>
<li><a href="https://linode.com/unplugged" rel="nofollow">Linode Cloud Hosting</a>: A special offer, <a href="https://linode.com/other">more</a>.</li>
<li><a href="https://bitwarden.com/lup" rel="nofollow">Bitwarden</a>: Password manager.</li>
</ul>
<p>Links:</p>
<ul>
<li><a href="https://nixos.org" title="NixOS" rel="nofollow">NixOS</a></li>
<li><a href="https://nixos.wiki" rel="nofollow">NixOS Wiki</a></li>
</ul>`

func TestParseShowNotes(t *testing.T) {
	notes, err := ParseShowNotes(showNotesHTML, "")
	require.NoError(t, err)

	assert.Equal(t, "This week we dig into NixOS.", notes.Blurb)
	assert.Equal(t, []string{"https://linode.com/unplugged", "https://bitwarden.com/lup"}, notes.SponsorLinks)
	assert.Contains(t, notes.Links, "[NixOS](https://nixos.org")
	assert.Contains(t, notes.Links, "[NixOS Wiki](https://nixos.wiki)")
	assert.NotContains(t, notes.SponsorLinks, "https://linode.com/other", "only the first link of a sponsor item counts")
	assert.NotContains(t, notes.Links, "linode")
}

func TestParseShowNotesSummaryWins(t *testing.T) {
	notes, err := ParseShowNotes(showNotesHTML, "A summary.")
	require.NoError(t, err)
	assert.Equal(t, "A summary.", notes.Blurb)
}

func TestParseShowNotesEpisodeLinks(t *testing.T) {
	notes, err := ParseShowNotes(`<p>Episode Links:</p><ul><li><a href="https://coder.show">Coder</a></li></ul>`, "")
	require.NoError(t, err)
	assert.Equal(t, "Episode Links:", notes.Blurb)
	assert.Empty(t, notes.SponsorLinks)
	assert.Equal(t, "- [Coder](https://coder.show)", notes.Links)
}

func TestParseShowNotesEmpty(t *testing.T) {
	notes, err := ParseShowNotes("", "")
	require.NoError(t, err)
	assert.Empty(t, notes.Blurb)
	assert.Empty(t, notes.SponsorLinks)
	assert.Empty(t, notes.Links)
}
