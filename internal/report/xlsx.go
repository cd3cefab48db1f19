package report

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/matracker/internal/model"
)

// maxColWidth caps auto-sized column widths.
const maxColWidth = 50

var dealHeader = []string{
	"Date", "Source", "Headline", "Buyer", "Target", "Deal Value (£m)",
	"Value Range", "Buyer Type", "Sector", "Technology Focus", "Geography",
	"Strategic Rationale", "Link", "Confidence",
}

// Write renders the deals into a multi-sheet XLSX workbook at path:
// the raw deal tracker, an executive summary and a per-sector breakdown.
// Deals are written newest first.
func Write(deals []model.Deal, path string) error {
	if len(deals) == 0 {
		return eris.New("report: no deals to write")
	}

	sorted := make([]model.Deal, len(deals))
	copy(sorted, deals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})

	file := xlsx.NewFile()

	if err := writeTrackerSheet(file, sorted); err != nil {
		return err
	}
	if err := writeSummarySheet(file, sorted); err != nil {
		return err
	}
	if err := writeSectorSheet(file, sorted); err != nil {
		return err
	}

	if err := file.Save(path); err != nil {
		return eris.Wrap(err, "report: save workbook")
	}
	return nil
}

func writeTrackerSheet(file *xlsx.File, deals []model.Deal) error {
	sheet, err := file.AddSheet("Deal Tracker")
	if err != nil {
		return eris.Wrap(err, "report: add tracker sheet")
	}

	addStringRow(sheet, dealHeader...)
	for _, d := range deals {
		row := sheet.AddRow()
		row.AddCell().SetString(d.Date)
		row.AddCell().SetString(d.Source)
		row.AddCell().SetString(d.Headline)
		row.AddCell().SetString(d.Buyer)
		row.AddCell().SetString(d.Target)
		if d.DealValueM != nil {
			row.AddCell().SetFloatWithFormat(*d.DealValueM, "0.0")
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetString(string(d.ValueRange))
		row.AddCell().SetString(string(d.BuyerType))
		row.AddCell().SetString(d.Sector)
		row.AddCell().SetString(d.TechnologyFocus)
		row.AddCell().SetString(d.Geography)
		row.AddCell().SetString(d.StrategicRationale)
		row.AddCell().SetString(d.Link)
		row.AddCell().SetFloatWithFormat(d.ConfidenceScore, "0.00")
	}

	autoSizeColumns(sheet)
	return nil
}

func writeSummarySheet(file *xlsx.File, deals []model.Deal) error {
	sheet, err := file.AddSheet("Executive Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}

	addStringRow(sheet, "Metric", "Value")
	for _, m := range SummaryMetrics(deals) {
		addStringRow(sheet, m.Name, m.Value)
	}

	autoSizeColumns(sheet)
	return nil
}

func writeSectorSheet(file *xlsx.File, deals []model.Deal) error {
	sheet, err := file.AddSheet("Sector Analysis")
	if err != nil {
		return eris.Wrap(err, "report: add sector sheet")
	}

	addStringRow(sheet, "Sector", "Deals", "Avg Deal Value (£m)")
	for _, s := range SectorBreakdown(deals) {
		row := sheet.AddRow()
		row.AddCell().SetString(s.Sector)
		row.AddCell().SetInt(s.Deals)
		if s.AvgValueM != nil {
			row.AddCell().SetFloatWithFormat(*s.AvgValueM, "0.0")
		} else {
			row.AddCell().SetString("N/A")
		}
	}

	autoSizeColumns(sheet)
	return nil
}

func addStringRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// autoSizeColumns widens each column to its longest cell value plus
// padding, capped at maxColWidth.
func autoSizeColumns(sheet *xlsx.Sheet) {
	widths := make(map[int]int)
	for _, row := range sheet.Rows {
		for i, cell := range row.Cells {
			if n := len(cell.String()); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i, w := range widths {
		width := float64(w + 2)
		if width > maxColWidth {
			width = maxColWidth
		}
		sheet.SetColWidth(i, i, width)
	}
}

// Metric is one executive-summary line.
type Metric struct {
	Name  string
	Value string
}

// SummaryMetrics computes the executive-summary metrics for a non-empty
// deal set.
func SummaryMetrics(deals []model.Deal) []Metric {
	minDate, maxDate := deals[0].Date, deals[0].Date
	for _, d := range deals {
		if d.Date < minDate {
			minDate = d.Date
		}
		if d.Date > maxDate {
			maxDate = d.Date
		}
	}

	avg := "N/A"
	if mean := meanDisclosedValue(deals); mean != nil {
		avg = fmt.Sprintf("£%.1fM", *mean)
	}

	buyerTypes := make([]string, len(deals))
	sectors := make([]string, len(deals))
	geos := make([]string, len(deals))
	for i, d := range deals {
		buyerTypes[i] = string(d.BuyerType)
		sectors[i] = d.Sector
		geos[i] = d.Geography
	}

	return []Metric{
		{"Total Deals", fmt.Sprintf("%d", len(deals))},
		{"Date Range", minDate + " to " + maxDate},
		{"Avg Deal Value", avg},
		{"Most Active Buyer Type", mode(buyerTypes)},
		{"Top Sector", mode(sectors)},
		{"Geographic Focus", mode(geos)},
	}
}

// SectorRow is one per-sector aggregation line.
type SectorRow struct {
	Sector    string
	Deals     int
	AvgValueM *float64
}

// SectorBreakdown aggregates deal count and mean disclosed value per
// sector, ordered by sector name.
func SectorBreakdown(deals []model.Deal) []SectorRow {
	bySector := make(map[string][]model.Deal)
	for _, d := range deals {
		bySector[d.Sector] = append(bySector[d.Sector], d)
	}

	sectors := make([]string, 0, len(bySector))
	for s := range bySector {
		sectors = append(sectors, s)
	}
	sort.Strings(sectors)

	rows := make([]SectorRow, 0, len(sectors))
	for _, s := range sectors {
		group := bySector[s]
		rows = append(rows, SectorRow{
			Sector:    s,
			Deals:     len(group),
			AvgValueM: meanDisclosedValue(group),
		})
	}
	return rows
}

// meanDisclosedValue averages the disclosed deal values, nil when every
// value is undisclosed.
func meanDisclosedValue(deals []model.Deal) *float64 {
	var sum float64
	var n int
	for _, d := range deals {
		if d.DealValueM != nil {
			sum += *d.DealValueM
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

// mode returns the most frequent value; on ties, whichever value reached
// the top count first.
func mode(values []string) string {
	if len(values) == 0 {
		return "N/A"
	}
	counts := make(map[string]int)
	best := values[0]
	for _, v := range values {
		counts[v]++
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}
