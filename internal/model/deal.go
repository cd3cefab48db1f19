package model

// ValueRange buckets a deal value in millions into a fixed reporting range.
type ValueRange string

const (
	ValueRangeUndisclosed ValueRange = "Undisclosed"
	ValueRangeUnder5      ValueRange = "<£5m"
	ValueRange5To10       ValueRange = "£5-10m"
	ValueRange10To25      ValueRange = "£10-25m"
	ValueRange25To50      ValueRange = "£25-50m"
	ValueRangeOver50      ValueRange = ">£50m"
)

// BuyerType classifies the acquirer.
type BuyerType string

const (
	BuyerTypePrivateEquity BuyerType = "Private Equity"
	BuyerTypeStrategic     BuyerType = "Strategic"
)

// Deal is one extracted M&A event. It is constructed only by the
// extraction orchestrator and never mutated afterwards, except for Link,
// which the feed processor attaches from the originating entry.
type Deal struct {
	Date               string     `json:"date"`
	Source             string     `json:"source"`
	Headline           string     `json:"headline"`
	Buyer              string     `json:"buyer"`
	Target             string     `json:"target"`
	DealValueM         *float64   `json:"deal_value_m"`
	ValueRange         ValueRange `json:"value_range"`
	BuyerType          BuyerType  `json:"buyer_type"`
	Sector             string     `json:"sector"`
	TechnologyFocus    string     `json:"technology_focus"`
	Geography          string     `json:"geography"`
	StrategicRationale string     `json:"strategic_rationale"`
	Link               string     `json:"link"`
	ConfidenceScore    float64    `json:"confidence_score"`
}
