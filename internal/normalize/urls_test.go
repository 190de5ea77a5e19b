package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpisodeNumber(t *testing.T) {
	n, err := EpisodeNumber("https://linuxunplugged.com/472")
	require.NoError(t, err)
	assert.Equal(t, 472, n)

	n, err = EpisodeNumber("https://coder.show/12/")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = EpisodeNumber("https://coder.show/about")
	assert.Error(t, err)
}

func TestLastSegment(t *testing.T) {
	assert.Equal(t, "chris", LastSegment("/hosts/chris"))
	assert.Equal(t, "chris", LastSegment("/hosts/chris/"))
	assert.Equal(t, "chris", LastSegment("chris"))
	assert.Equal(t, "", LastSegment(""))
}

func TestURLPath(t *testing.T) {
	assert.Equal(t, "/149032/git-happens-linux-unplugged-464/",
		URLPath("https://www.jupiterbroadcasting.com/149032/git-happens-linux-unplugged-464/"))
	assert.Equal(t, "/42", URLPath("https://linuxunplugged.com/42"))
}

func TestRemoveTracking(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "podtrac",
			in:   "http://www.podtrac.com/pts/redirect.mp3/traffic.libsyn.com/jnite/lup-0116.mp3",
			want: "http://traffic.libsyn.com/jnite/lup-0116.mp3",
		},
		{
			name: "chartable keeps https",
			in:   "https://chtbl.com/track/392D9/aphid.fireside.fm/d/1437767933/f31a453c/79855861.mp3",
			want: "https://aphid.fireside.fm/d/1437767933/f31a453c/79855861.mp3",
		},
		{
			name: "podtrac behind chartable order",
			in:   "https://www.podtrac.com/pts/redirect.ogg/chtbl.com/track/ABC/example.com/a.ogg",
			want: "https://example.com/a.ogg",
		},
		{
			name: "plain url",
			in:   "https://example.com/video.mp4",
			want: "https://example.com/video.mp4",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveTracking(tt.in))
		})
	}
}

func TestSameMedia(t *testing.T) {
	assert.True(t, SameMedia("http://example.com/a.mp3", "https://example.com/a.mp3"))
	assert.False(t, SameMedia("https://example.com/a.mp3", "https://example.com/b.mp3"))
	assert.False(t, SameMedia("", "https://example.com/a.mp3"))
}

func TestValidYouTube(t *testing.T) {
	assert.True(t, ValidYouTube("https://www.youtube.com/watch?v=98Mh0BP__gE"))
	assert.True(t, ValidYouTube("https://youtu.be/98Mh0BP__gE"))
	assert.False(t, ValidYouTube("https://www.jupiterbroadcasting.com/youtube"))
	assert.False(t, ValidYouTube("::"))
}

func TestSponsorShortname(t *testing.T) {
	got, err := SponsorShortname("https://www.linode.com/unplugged", "LUP")
	require.NoError(t, err)
	assert.Equal(t, "linode.com-lup", got)

	got, err = SponsorShortname("https://bitwarden.com/", "cr")
	require.NoError(t, err)
	assert.Equal(t, "bitwarden.com-cr", got)

	_, err = SponsorShortname("/relative", "cr")
	assert.Error(t, err)
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://coder.show/hosts/chris", JoinURL("https://coder.show", "/hosts/chris"))
	assert.Equal(t, "https://coder.show/hosts/chris", JoinURL("https://coder.show/", "hosts/chris"))
	assert.Equal(t, "https://other.example/x", JoinURL("https://coder.show", "https://other.example/x"))
}

func TestSocialField(t *testing.T) {
	assert.Equal(t, SocialHomepage, SocialField("Website"))
	assert.Equal(t, SocialTwitter, SocialField("@chrislas on Twitter"))
	assert.Equal(t, SocialLinkedIn, SocialField("LinkedIn"))
	assert.Equal(t, SocialInstagram, SocialField("Instagram"))
	assert.Equal(t, SocialYouTube, SocialField("YouTube"))
	assert.Equal(t, "", SocialField("Mastodon"))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Chris Fisher", Capitalize("chris fisher"))
	assert.Equal(t, "Wes Payne", Capitalize("WES PAYNE"))
	assert.Equal(t, "", Capitalize(""))
}

func TestResolveURL(t *testing.T) {
	base := "https://www.jupiterbroadcasting.com/show/linux-unplugged/"
	assert.Equal(t, "https://www.jupiterbroadcasting.com/149032/git-happens/", ResolveURL(base, "/149032/git-happens/"))
	assert.Equal(t, "https://other.example/x", ResolveURL(base, "https://other.example/x"))
	assert.Equal(t, "https://www.jupiterbroadcasting.com/show/linux-unplugged/page/2/", ResolveURL(base, "page/2/"))
}
