package feed

import (
	"context"
	"os"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/matracker/internal/config"
	"github.com/sells-group/matracker/internal/extract"
	"github.com/sells-group/matracker/internal/model"
)

// maxEntriesPerFeed bounds per-run cost. Feeds are sorted newest-first,
// so the head of the feed covers the lookback window.
const maxEntriesPerFeed = 20

// Processor turns parsed feeds into deals via the extraction pipeline.
// Feeds are processed one at a time and entries strictly in parser order;
// a failure in one feed never aborts the run.
type Processor struct {
	cfg       *config.Config
	extractor *extract.Extractor
	parser    *gofeed.Parser
	cache     *Cache
	now       func() time.Time
}

// NewProcessor creates a Processor. The cache may be nil, in which case
// blocked feeds have no fallback.
func NewProcessor(cfg *config.Config, extractor *extract.Extractor, cache *Cache) *Processor {
	return &Processor{
		cfg:       cfg,
		extractor: extractor,
		parser:    gofeed.NewParser(),
		cache:     cache,
		now:       time.Now,
	}
}

// ProcessSources processes every feed source in order and returns the
// accumulated deals.
func (p *Processor) ProcessSources(ctx context.Context, sources []Source) []model.Deal {
	var deals []model.Deal
	for _, src := range sources {
		zap.L().Info("processing feed", zap.String("feed", src.Title))

		found, err := p.processSource(ctx, src)
		if err != nil {
			zap.L().Error("feed failed, skipping",
				zap.String("feed", src.Title),
				zap.Error(err),
			)
			continue
		}
		deals = append(deals, found...)
	}
	return deals
}

// processSource fetches one feed, falling back to the latest cached
// snapshot when the live fetch fails, and extracts deals from its entries.
func (p *Processor) processSource(ctx context.Context, src Source) ([]model.Deal, error) {
	parsed, err := p.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		cached, fromCache := p.parseCached(src.Title)
		if !fromCache {
			return nil, eris.Wrap(err, "feed: fetch")
		}
		zap.L().Warn("live fetch failed, using cached snapshot",
			zap.String("feed", src.Title),
			zap.Error(err),
		)
		parsed = cached
	}

	return p.processEntries(parsed, src.Title), nil
}

// ProcessFile extracts deals from a locally cached feed file, using the
// given display title as the deal source.
func (p *Processor) ProcessFile(path, title string) ([]model.Deal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "feed: open cached file")
	}
	defer f.Close() //nolint:errcheck

	parsed, err := p.parser.Parse(f)
	if err != nil {
		return nil, eris.Wrap(err, "feed: parse cached file")
	}
	return p.processEntries(parsed, title), nil
}

// parseCached loads the newest cached snapshot of the feed, if any.
func (p *Processor) parseCached(title string) (*gofeed.Feed, bool) {
	if p.cache == nil {
		return nil, false
	}
	path, ok := p.cache.Latest(title)
	if !ok {
		return nil, false
	}

	f, err := os.Open(path)
	if err != nil {
		zap.L().Warn("cached feed unreadable", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	defer f.Close() //nolint:errcheck

	parsed, err := p.parser.Parse(f)
	if err != nil {
		zap.L().Warn("cached feed unparseable", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	return parsed, true
}

// processEntries runs the extractor over the head of a parsed feed,
// skipping entries outside the lookback window.
func (p *Processor) processEntries(parsed *gofeed.Feed, title string) []model.Deal {
	cutoff := p.now().AddDate(0, 0, -p.cfg.DealFilters.DaysLookback)

	items := parsed.Items
	if len(items) > maxEntriesPerFeed {
		items = items[:maxEntriesPerFeed]
	}

	var deals []model.Deal
	for _, item := range items {
		pubDate := p.entryPubDate(item)
		if pubDate.Before(cutoff) {
			continue
		}

		description := item.Description
		if description == "" {
			description = item.Content
		}

		deal := p.extractor.Extract(item.Title, description, title, pubDate)
		if deal == nil {
			continue
		}
		deal.Link = item.Link
		deals = append(deals, *deal)

		zap.L().Info("found deal",
			zap.String("buyer", deal.Buyer),
			zap.String("target", deal.Target),
			zap.String("value_range", string(deal.ValueRange)),
		)
	}
	return deals
}

// entryPubDate derives an entry's publication date: published, then
// updated, then the current time.
func (p *Processor) entryPubDate(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return p.now()
}
