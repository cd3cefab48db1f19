package extract

import (
	"regexp"
	"strings"

	"github.com/sells-group/matracker/internal/config"
	"github.com/sells-group/matracker/internal/model"
)

// Fallback labels when no configured vocabulary term matches.
const (
	defaultSector     = "General Tech Services"
	defaultTechnology = "General"
	defaultGeography  = "Unknown"
)

// dealKeywords signal M&A activity. Substring match so "acqui" covers
// acquire/acquires/acquisition.
var dealKeywords = []string{"acqui", "merger", "buyout", "purchase", "deal", "transaction"}

// IsDeal reports whether text describes an M&A deal: at least one deal
// keyword present and none of the configured excluded keywords.
func IsDeal(text string, excluded []string) bool {
	lower := strings.ToLower(text)

	hasDeal := false
	for _, kw := range dealKeywords {
		if strings.Contains(lower, kw) {
			hasDeal = true
			break
		}
	}
	if !hasDeal {
		return false
	}

	for _, kw := range excluded {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

// ClassifyBuyer returns Private Equity when any configured PE indicator
// appears in the text, Strategic otherwise.
func ClassifyBuyer(text string, peIndicators []string) model.BuyerType {
	lower := strings.ToLower(text)
	for _, ind := range peIndicators {
		if ind != "" && strings.Contains(lower, strings.ToLower(ind)) {
			return model.BuyerTypePrivateEquity
		}
	}
	return model.BuyerTypeStrategic
}

// ExtractSector returns the first configured sector found in the text,
// in configured list order.
func ExtractSector(text string, sectors []string) string {
	lower := strings.ToLower(text)
	for _, sector := range sectors {
		if sector != "" && strings.Contains(lower, strings.ToLower(sector)) {
			return sector
		}
	}
	return defaultSector
}

// ExtractTechnology returns up to three configured technology keywords
// found in the text, joined with ", ". Keywords are reported in
// configured list order, not order of appearance in the text.
func ExtractTechnology(text string, keywords []string) string {
	lower := strings.ToLower(text)

	var found []string
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			found = append(found, kw)
			if len(found) == 3 {
				break
			}
		}
	}
	if len(found) == 0 {
		return defaultTechnology
	}
	return strings.Join(found, ", ")
}

// ExtractGeography returns the first configured region, in list order,
// with a keyword present in the text.
func ExtractGeography(text string, regions []config.GeographicRegion) string {
	lower := strings.ToLower(text)
	for _, region := range regions {
		for _, kw := range region.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return region.Region
			}
		}
	}
	return defaultGeography
}

// rationalePatterns capture a strategic-rationale snippet. Evaluated in
// order, first match wins; the whole match is kept.
var rationalePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:to|will|would)\s+([^.]{20,100})`),
	regexp.MustCompile(`(?i)(?:strategic|rationale|reason)[^.]{0,200}`),
}

// ExtractRationale returns a best-effort strategic rationale snippet,
// truncated to 200 characters, or "" when nothing matches.
func ExtractRationale(text string) string {
	for _, re := range rationalePatterns {
		if m := re.FindString(text); m != "" {
			return truncate(m, 200)
		}
	}
	return ""
}

// truncate limits s to max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
