package extract

import (
	"regexp"
	"strings"
)

// entityRule pairs a company-name pattern with its capture order.
// When reversed is true the first capture is the target and the second
// the buyer ("acquisition of TARGET by BUYER").
type entityRule struct {
	re       *regexp.Regexp
	reversed bool
}

// entityRules are tried in order; the first match wins and later rules
// are not consulted.
var entityRules = []entityRule{
	// "acquisition of TARGET by BUYER"
	{regexp.MustCompile(`[Aa]cquisition\s+of\s+([A-Z][A-Za-z\s&]+?)\s+by\s+([A-Z][A-Za-z\s&]+)`), true},
	// "BUYER acquires/buys TARGET"
	{regexp.MustCompile(`([A-Z][A-Za-z\s&]+?)\s+(?:acquires?|buys?)\s+([A-Z][A-Za-z\s&]+)`), false},
	// "BUYER to acquire/buy TARGET"
	{regexp.MustCompile(`([A-Z][A-Za-z\s&]+?)\s+to\s+(?:acquire|buy)\s+([A-Z][A-Za-z\s&]+)`), false},
	// "BUYER merges with TARGET"
	{regexp.MustCompile(`([A-Z][A-Za-z\s&]+?)\s+merges?\s+with\s+([A-Z][A-Za-z\s&]+)`), false},
}

// nameStopWords are stripped from the end of a captured company name.
var nameStopWords = map[string]bool{
	"for": true, "from": true, "in": true, "to": true, "at": true,
	"worth": true, "expanding": true, "announced": true,
	"completed": true, "finalized": true, "deal": true,
}

// companySuffixes halt stop-word stripping: "Gamma Co" stays intact.
var companySuffixes = map[string]bool{
	"Inc": true, "Ltd": true, "LLC": true, "Corp": true,
	"Corporation": true, "Limited": true, "Co": true,
	"plc": true, "PLC": true,
}

// ExtractCompanies extracts the buyer and target company names from free
// text. Returns ("", "") when no rule matches or either cleaned name is
// empty.
func ExtractCompanies(text string) (buyer, target string) {
	for _, rule := range entityRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		if rule.reversed {
			buyer = cleanName(strings.TrimSpace(m[2]))
			target = cleanName(strings.TrimSpace(m[1]))
		} else {
			buyer = cleanName(strings.TrimSpace(m[1]))
			target = cleanName(strings.TrimSpace(m[2]))
		}

		if buyer != "" && target != "" {
			return buyer, target
		}
	}
	return "", ""
}

// cleanName trims a " to" suffix and trailing stop-words from a captured
// name. A recognized company suffix as last word halts stripping.
func cleanName(name string) string {
	if name == "" {
		return name
	}
	name = strings.TrimSuffix(name, " to")

	words := strings.Fields(name)
	for len(words) > 0 {
		last := words[len(words)-1]
		if !nameStopWords[strings.ToLower(last)] || companySuffixes[last] {
			break
		}
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}
