package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTitleCommand(t *testing.T) {
	out, err := execute(t, "title", "472: 5 Problems With NixOS | LINUX Unplugged")
	require.NoError(t, err)
	assert.Equal(t, "5 Problems With NixOS\n", out)

	_, err = execute(t, "title")
	assert.Error(t, err)
}

func TestConfigCheckCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
shows:
  lup:
    name: LINUX Unplugged
    acronym: lup
    fireside_url: https://linuxunplugged.com
    fireside_slug: linuxunplugged
    jb_url: https://www.jupiterbroadcasting.com/show/linux-unplugged
usernames_map:
  chrislas: chris
`), 0644))

	out, err := execute(t, "--config", path, "--log-level", "error", "config", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "LINUX Unplugged")
	assert.Contains(t, out, "1 shows, 1 username aliases, 0 protected files")
}

func TestConfigCheckInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("shows:\n  lup:\n    name: LINUX Unplugged\n"), 0644))

	_, err := execute(t, "--config", path, "--log-level", "error", "config", "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Acronym")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "title", "x")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestIndexRequiresProject(t *testing.T) {
	t.Setenv("GCP_PROJECT_ID", "")
	_, err := execute(t, "--log-level", "error", "index", "list")
	assert.ErrorContains(t, err, "--firestore-project")
}
