package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load("testdata/config.yml")
	require.NoError(t, err)
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := loadTestConfig(t)

	assert.Equal(t, []string{"coder", "lup", "selfhosted"}, cfg.ShowSlugs())

	lup := cfg.Shows["lup"]
	require.NotNil(t, lup)
	assert.Equal(t, "lup", lup.Slug)
	assert.Equal(t, "LINUX Unplugged", lup.Name)
	assert.Equal(t, "linuxunplugged", lup.FiresideSlug)
	assert.Equal(t, "https://linuxunplugged.com/rss", lup.RSSURL)

	shows := cfg.OrderedShows()
	require.Len(t, shows, 3)
	assert.Equal(t, "coder", shows[0].Slug)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/nope.yml")
	assert.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "no shows",
			data:    "usernames_map: {}\n",
			wantErr: "Shows",
		},
		{
			name: "missing acronym",
			data: `shows:
  lup:
    name: LINUX Unplugged
    fireside_url: https://linuxunplugged.com
    fireside_slug: linuxunplugged
`,
			wantErr: "Acronym",
		},
		{
			name: "bad fireside url",
			data: `shows:
  lup:
    name: LINUX Unplugged
    acronym: lup
    fireside_url: linuxunplugged
    fireside_slug: linuxunplugged
`,
			wantErr: "FiresideURL",
		},
		{
			name:    "not yaml",
			data:    "shows: [",
			wantErr: "parsing config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUsernameMatchedHosts(t *testing.T) {
	cfg := loadTestConfig(t)

	assert.Equal(t, "drew-devore", cfg.Username("/hosts/drewdvore"))
	assert.Equal(t, "chris", cfg.Username("/hosts/chrislas"))
	assert.Equal(t, "wes", cfg.Username("/hosts/wespayne"))
	assert.Equal(t, "alex", cfg.Username("/hosts/alexktz"))
	assert.Equal(t, "brent", cfg.Username("/hosts/brentgervais"))
}

func TestUsernameUnmatchedHosts(t *testing.T) {
	cfg := loadTestConfig(t)

	assert.Equal(t, "chris", cfg.Username("/hosts/chris"))
	assert.Equal(t, "joe", cfg.Username("/hosts/joe"))
	assert.Equal(t, "wes", cfg.Username("/hosts/wes"))
	assert.Equal(t, "michael", cfg.Username("/hosts/michael"))
}

func TestUsernameGuests(t *testing.T) {
	cfg := loadTestConfig(t)

	assert.Equal(t, "popey", cfg.Username("/guests/alanpope"))
	assert.Equal(t, "wimpy", cfg.Username("https://linuxunplugged.com/guests/martinwimpress"))
	assert.Equal(t, "jscar", cfg.Username("https://selfhosted.show/guests/jscar"))
	assert.Equal(t, "drew-devore", cfg.Username("https://selfhosted.show/guests/drewofdoom"))
	assert.Equal(t, "christianschaller", cfg.Username("https://linuxunplugged.com/guests/christianschaller"))
}

func TestDontOverride(t *testing.T) {
	cfg := loadTestConfig(t)

	assert.True(t, cfg.DontOverride("chris.md"))
	assert.False(t, cfg.DontOverride("popey.md"))
}

func TestRestrict(t *testing.T) {
	cfg := loadTestConfig(t)

	require.NoError(t, cfg.Restrict([]string{"lup"}))
	assert.Equal(t, []string{"lup"}, cfg.ShowSlugs())

	assert.Error(t, cfg.Restrict([]string{"missing"}))
	require.NoError(t, cfg.Restrict(nil))
	assert.Equal(t, []string{"lup"}, cfg.ShowSlugs())
}

func TestSettingsFromEnv(t *testing.T) {
	env := map[string]string{
		"DATA_DIR":          "/srv/site",
		"LATEST_ONLY":       "yes",
		"LATEST_ONLY_LIMIT": "3",
		"LOG_LVL":           "10",
		"CACHE_TTL":         "30m",
		"GCS_BUCKET":        "jb-site",
		"SHOWS":             "lup, coder,",
	}
	s := SettingsFromEnv(func(k string) string { return env[k] })

	assert.Equal(t, "/srv/site", s.DataDir)
	assert.True(t, s.LatestOnly)
	assert.Equal(t, 3, s.LatestLimit)
	assert.Equal(t, "10", s.LogLevel)
	assert.Equal(t, 30*time.Minute, s.CacheTTL)
	assert.Equal(t, "jb-site", s.GCSBucket)
	assert.Equal(t, []string{"lup", "coder"}, s.Shows)
	assert.Equal(t, DefaultWorkers, s.Workers)
	assert.Equal(t, DefaultFirestoreCollection, s.FirestoreCollection)
}

func TestSettingsDefaults(t *testing.T) {
	s := SettingsFromEnv(func(string) string { return "" })

	assert.Equal(t, DefaultConfigPath, s.ConfigPath)
	assert.Equal(t, DefaultDataDir, s.DataDir)
	assert.False(t, s.LatestOnly)
	assert.Equal(t, DefaultLatestLimit, s.LatestLimit)
	assert.Nil(t, s.Shows)
}

func TestEnvBool(t *testing.T) {
	assert.False(t, envBool(""))
	assert.False(t, envBool("false"))
	assert.False(t, envBool("0"))
	assert.True(t, envBool("1"))
	assert.True(t, envBool("true"))
	assert.True(t, envBool("anything"))
}
