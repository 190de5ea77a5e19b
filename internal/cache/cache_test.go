package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c, err := New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	_, ok := c.Get("https://coder.show/json")
	assert.False(t, ok)

	require.NoError(t, c.Set("https://coder.show/json", []byte(`{"items":[]}`)))

	body, ok := c.Get("https://coder.show/json")
	require.True(t, ok)
	assert.Equal(t, `{"items":[]}`, string(body))

	_, ok = c.Get("https://coder.show/json?page=2")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c, err := New(t.TempDir(), time.Minute)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	require.NoError(t, c.Set("https://coder.show/42", []byte("page")))

	now = now.Add(30 * time.Second)
	_, ok := c.Get("https://coder.show/42")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = c.Get("https://coder.show/42")
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, time.Hour)
	require.NoError(t, err)

	require.NoError(t, c.Set("a", []byte("1")))
	require.NoError(t, c.Set("b", []byte("2")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0644))

	require.NoError(t, c.Invalidate("a"))
	require.NoError(t, c.Invalidate("a"))
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)

	require.NoError(t, c.InvalidateAll())
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.FileExists(t, filepath.Join(dir, "keep.txt"))
}
