package extract

import (
	"regexp"
	"strconv"

	"github.com/sells-group/matracker/internal/model"
)

// valuePatterns match a deal value in millions. Evaluated in order,
// first match wins; append new forms rather than editing control flow.
var valuePatterns = []*regexp.Regexp{
	// "£25m", "$12.5 million", "€ 8million"
	regexp.MustCompile(`(?i)[$£€]\s*(\d+(?:\.\d+)?)\s*(?:m|million)`),
	// bare "25 million"
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*million`),
}

// ParseValue extracts a monetary deal value in millions from free text.
// Returns nil when no pattern matches, meaning the value is undisclosed.
func ParseValue(text string) *float64 {
	for _, re := range valuePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		return &v
	}
	return nil
}

// CategorizeValue buckets an optional value in millions into a fixed
// reporting range. Buckets are closed on their upper bound.
func CategorizeValue(value *float64) model.ValueRange {
	switch {
	case value == nil:
		return model.ValueRangeUndisclosed
	case *value < 5:
		return model.ValueRangeUnder5
	case *value <= 10:
		return model.ValueRange5To10
	case *value <= 25:
		return model.ValueRange10To25
	case *value <= 50:
		return model.ValueRange25To50
	default:
		return model.ValueRangeOver50
	}
}
