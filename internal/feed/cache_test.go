package feed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SaveAndLatest(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	entry, err := cache.Save("UK Tech Exits", []byte("<rss/>"))
	require.NoError(t, err)

	assert.Equal(t, "UK Tech Exits", entry.FeedName)
	assert.Equal(t, "uktechexits", entry.SafeName)
	assert.Equal(t, int64(6), entry.SizeBytes)

	data, err := os.ReadFile(entry.Filepath)
	require.NoError(t, err)
	assert.Equal(t, "<rss/>", string(data))

	path, ok := cache.Latest("UK Tech Exits")
	require.True(t, ok)
	assert.Equal(t, entry.Filepath, path)
}

func TestCache_LatestReplacedBySecondSave(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	ts := time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return ts }

	first, err := cache.Save("feed", []byte("<rss>1</rss>"))
	require.NoError(t, err)

	cache.now = func() time.Time { return ts.Add(time.Hour) }
	second, err := cache.Save("feed", []byte("<rss>2</rss>"))
	require.NoError(t, err)
	require.NotEqual(t, first.Filepath, second.Filepath)

	path, ok := cache.Latest("feed")
	require.True(t, ok)
	assert.Equal(t, second.Filepath, path)
}

func TestCache_LatestMissing(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	_, ok := cache.Latest("never cached")
	assert.False(t, ok)
}

func TestCache_List(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	_, err = cache.Save("Zeta Feed", []byte("z"))
	require.NoError(t, err)
	_, err = cache.Save("Alpha Feed", []byte("a"))
	require.NoError(t, err)

	entries, err := cache.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alphafeed", entries[0].SafeName)
	assert.Equal(t, "zetafeed", entries[1].SafeName)
}

func TestCache_ListEmpty(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	entries, err := cache.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCache_DefaultDir(t *testing.T) {
	cache, err := NewCache("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.TempDir(), "ma_tracker_feeds"), cache.Dir())
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "uktech-exits2", safeName("UK Tech-Exits 2!"))
	assert.Equal(t, "my_feed", safeName("My_Feed"))
}
