package extract

import (
	"time"

	"github.com/sells-group/matracker/internal/config"
	"github.com/sells-group/matracker/internal/model"
)

// Extractor composes the classifier, entity extractor, value parser and
// confidence scorer into a single extract-deal-from-article operation.
type Extractor struct {
	cfg *config.Config
}

// New creates an Extractor bound to the run's configuration.
func New(cfg *config.Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract produces a Deal from one feed entry, or nil when the entry is
// not a relevant deal, no buyer/target pair can be derived, or the
// turnover filter drops it. The returned Deal has an empty Link; the
// caller attaches the entry link.
func (e *Extractor) Extract(title, description, source string, pubDate time.Time) *model.Deal {
	text := title + " " + description

	filters := e.cfg.DealFilters
	if !IsDeal(text, filters.ExcludedKeywords) {
		return nil
	}

	buyer, target := ExtractCompanies(text)
	if buyer == "" || target == "" {
		return nil
	}

	value := ParseValue(text)
	valueRange := CategorizeValue(value)

	// Turnover filter. Preserved quirk: an out-of-range disclosed value
	// only drops the deal when include_undisclosed is false, coupling the
	// range check to the undisclosed-inclusion flag.
	if value != nil {
		r := filters.TurnoverRangeMillions
		if (*value < r.Min || *value > r.Max) && !filters.IncludeUndisclosed {
			return nil
		}
	}

	return &model.Deal{
		Date:               pubDate.Format("2006-01-02"),
		Source:             source,
		Headline:           truncate(title, 200),
		Buyer:              buyer,
		Target:             target,
		DealValueM:         value,
		ValueRange:         valueRange,
		BuyerType:          ClassifyBuyer(text, e.cfg.BuyerClassification.PrivateEquityIndicators),
		Sector:             ExtractSector(text, filters.Sectors),
		TechnologyFocus:    ExtractTechnology(text, e.cfg.TechnologyKeywords.Primary),
		Geography:          ExtractGeography(text, e.cfg.GeographicMapping),
		StrategicRationale: ExtractRationale(text),
		ConfidenceScore:    ConfidenceScore(text),
	}
}
