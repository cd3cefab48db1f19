package feed

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const metadataFilename = "feed_metadata.json"

// CacheEntry describes one cached feed snapshot.
type CacheEntry struct {
	FeedName  string `json:"feed_name"`
	SafeName  string `json:"safe_name"`
	Filepath  string `json:"filepath"`
	Filename  string `json:"filename"`
	CachedAt  string `json:"cached_at"`
	SizeBytes int64  `json:"size_bytes"`
}

// Cache stores raw feed XML for feeds that block direct fetching, so a
// snapshot captured out of band can stand in for a live fetch. Each feed
// keeps only its latest snapshot in the metadata index.
type Cache struct {
	dir string
	now func() time.Time
}

// NewCache creates a feed cache rooted at dir, defaulting to
// <tmpdir>/ma_tracker_feeds. The directory is created if missing.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "ma_tracker_feeds")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrap(err, "cache: create dir")
	}
	return &Cache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Save writes feed content to a timestamped file and records it in the
// metadata index, replacing any previous snapshot for the same feed.
func (c *Cache) Save(feedName string, content []byte) (CacheEntry, error) {
	safe := safeName(feedName)
	timestamp := c.now().Format("20060102_150405")
	filename := safe + "_" + timestamp + ".xml"
	path := filepath.Join(c.dir, filename)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return CacheEntry{}, eris.Wrap(err, "cache: write feed")
	}

	entry := CacheEntry{
		FeedName:  feedName,
		SafeName:  safe,
		Filepath:  path,
		Filename:  filename,
		CachedAt:  timestamp,
		SizeBytes: int64(len(content)),
	}

	if err := c.updateMetadata(entry); err != nil {
		return CacheEntry{}, err
	}
	return entry, nil
}

// Latest returns the path of the most recently cached snapshot for the
// feed, or ("", false) when none exists.
func (c *Cache) Latest(feedName string) (string, bool) {
	meta, err := c.readMetadata()
	if err != nil {
		return "", false
	}
	entry, ok := meta[safeName(feedName)]
	if !ok {
		return "", false
	}
	return entry.Filepath, true
}

// List returns metadata for all cached feeds, ordered by feed name.
func (c *Cache) List() ([]CacheEntry, error) {
	meta, err := c.readMetadata()
	if err != nil {
		return nil, err
	}

	entries := make([]CacheEntry, 0, len(meta))
	for _, e := range meta {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SafeName < entries[j].SafeName
	})
	return entries, nil
}

func (c *Cache) metadataPath() string {
	return filepath.Join(c.dir, metadataFilename)
}

func (c *Cache) readMetadata() (map[string]CacheEntry, error) {
	data, err := os.ReadFile(c.metadataPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]CacheEntry{}, nil
		}
		return nil, eris.Wrap(err, "cache: read metadata")
	}

	var meta map[string]CacheEntry
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, eris.Wrap(err, "cache: unmarshal metadata")
	}
	return meta, nil
}

func (c *Cache) updateMetadata(entry CacheEntry) error {
	meta, err := c.readMetadata()
	if err != nil {
		return err
	}
	meta[entry.SafeName] = entry

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return eris.Wrap(err, "cache: marshal metadata")
	}
	if err := os.WriteFile(c.metadataPath(), data, 0o644); err != nil {
		return eris.Wrap(err, "cache: write metadata")
	}
	return nil
}

// safeName reduces a feed name to lowercase alphanumerics, dashes and
// underscores for use as a filename stem.
func safeName(feedName string) string {
	var b strings.Builder
	for _, r := range feedName {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}
