package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/matracker/internal/config"
	"github.com/sells-group/matracker/internal/extract"
)

func testConfig() *config.Config {
	return &config.Config{
		DealFilters: config.DealFiltersConfig{
			TurnoverRangeMillions: config.TurnoverRange{Min: 5, Max: 50},
			IncludeUndisclosed:    true,
			DaysLookback:          7,
			Sectors:               []string{"Consulting", "IT Services"},
		},
	}
}

func testProcessor(cfg *config.Config, now time.Time) *Processor {
	p := NewProcessor(cfg, extract.New(cfg), nil)
	p.now = func() time.Time { return now }
	return p
}

func writeFeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>UK Tech Exits</title>
    <item>
      <title>Accenture acquires Cloud Consulting Ltd for £25m</title>
      <description>Strategic acquisition to expand cloud capabilities in UK market</description>
      <pubDate>Mon, 20 Oct 2025 10:00:00 GMT</pubDate>
      <link>https://example.com/deal1</link>
    </item>
    <item>
      <title>Capgemini acquires Data Insights Group for £8m</title>
      <description>Expands the consulting data practice</description>
      <pubDate>Mon, 01 Sep 2025 10:00:00 GMT</pubDate>
      <link>https://example.com/deal2</link>
    </item>
    <item>
      <title>Market update for the week</title>
      <description>No deals here</description>
      <pubDate>Tue, 21 Oct 2025 09:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestProcessFile_ExtractsDealsWithinLookback(t *testing.T) {
	now := time.Date(2025, 10, 22, 12, 0, 0, 0, time.UTC)
	p := testProcessor(testConfig(), now)

	deals, err := p.ProcessFile(writeFeed(t, sampleFeed), "UK Tech Exits")
	require.NoError(t, err)

	// The September deal is outside the 7-day window, the market update
	// is not a deal; one deal survives with its link attached.
	require.Len(t, deals, 1)
	assert.Equal(t, "Accenture", deals[0].Buyer)
	assert.Equal(t, "Cloud Consulting Ltd", deals[0].Target)
	assert.Equal(t, "UK Tech Exits", deals[0].Source)
	assert.Equal(t, "https://example.com/deal1", deals[0].Link)
	assert.Equal(t, "2025-10-20", deals[0].Date)
}

func TestProcessFile_LongLookbackKeepsOlderEntries(t *testing.T) {
	cfg := testConfig()
	cfg.DealFilters.DaysLookback = 365
	p := testProcessor(cfg, time.Date(2025, 10, 22, 12, 0, 0, 0, time.UTC))

	deals, err := p.ProcessFile(writeFeed(t, sampleFeed), "UK Tech Exits")
	require.NoError(t, err)
	require.Len(t, deals, 2)
	assert.Equal(t, "Capgemini", deals[1].Buyer)
}

func TestProcessFile_EntryCap(t *testing.T) {
	feedXML := `<?xml version="1.0"?><rss version="2.0"><channel><title>Busy Feed</title>`
	for i := 0; i < 25; i++ {
		feedXML += fmt.Sprintf(`<item>
  <title>Buyer %[1]s acquires Target %[1]s Ltd for £10m</title>
  <description>deal</description>
  <pubDate>Mon, 20 Oct 2025 10:00:00 GMT</pubDate>
</item>`, string(rune('A'+i)))
	}
	feedXML += `</channel></rss>`

	p := testProcessor(testConfig(), time.Date(2025, 10, 22, 12, 0, 0, 0, time.UTC))
	deals, err := p.ProcessFile(writeFeed(t, feedXML), "Busy Feed")
	require.NoError(t, err)

	// Only the first 20 entries are examined.
	assert.Len(t, deals, 20)
}

func TestProcessFile_UpdatedDateFallback(t *testing.T) {
	atom := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Deals</title>
  <entry>
    <title>Alpha Systems acquires Beta Solutions Ltd for £12m</title>
    <summary>Consulting deal in the UK</summary>
    <updated>2025-10-21T08:00:00Z</updated>
    <link href="https://example.com/atom-deal"/>
  </entry>
</feed>`

	p := testProcessor(testConfig(), time.Date(2025, 10, 22, 12, 0, 0, 0, time.UTC))
	deals, err := p.ProcessFile(writeFeed(t, atom), "Atom Deals")
	require.NoError(t, err)

	require.Len(t, deals, 1)
	assert.Equal(t, "2025-10-21", deals[0].Date)
}

func TestProcessFile_MissingDateUsesNow(t *testing.T) {
	feedXML := `<?xml version="1.0"?><rss version="2.0"><channel><title>Undated</title>
<item>
  <title>Gamma Group acquires Delta Partners Ltd for £9m</title>
  <description>deal</description>
</item>
</channel></rss>`

	now := time.Date(2025, 10, 22, 12, 0, 0, 0, time.UTC)
	p := testProcessor(testConfig(), now)
	deals, err := p.ProcessFile(writeFeed(t, feedXML), "Undated")
	require.NoError(t, err)

	require.Len(t, deals, 1)
	assert.Equal(t, "2025-10-22", deals[0].Date)
}

func TestProcessFile_Unparseable(t *testing.T) {
	p := testProcessor(testConfig(), time.Now())
	_, err := p.ProcessFile(writeFeed(t, "not xml at all"), "Broken")
	assert.Error(t, err)
}

func TestProcessSources_FeedFailureIsolated(t *testing.T) {
	// Unreachable URL and no cached fallback: the run continues and
	// simply yields no deals.
	p := testProcessor(testConfig(), time.Now())
	deals := p.ProcessSources(context.Background(), []Source{
		{Title: "Dead Feed", URL: "http://127.0.0.1:1/feed.xml"},
	})
	assert.Empty(t, deals)
}

func TestProcessSources_CachedFallback(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)
	_, err = cache.Save("UK Tech Exits", []byte(sampleFeed))
	require.NoError(t, err)

	cfg := testConfig()
	p := NewProcessor(cfg, extract.New(cfg), cache)
	p.now = func() time.Time { return time.Date(2025, 10, 22, 12, 0, 0, 0, time.UTC) }

	deals := p.ProcessSources(context.Background(), []Source{
		{Title: "UK Tech Exits", URL: "http://127.0.0.1:1/feed.xml"},
	})

	require.Len(t, deals, 1)
	assert.Equal(t, "Accenture", deals[0].Buyer)
}
