package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prismlab/pricebook/pkg/models"
)

// Candidate is one admitted data row, ready for the catalog upsert.
type Candidate struct {
	ItemName      string
	BasePrice     float64
	MakeBrand     string
	CASNo         string
	CatNo         string
	GSTPercent    float64
	Specification string
}

// footerKeywords terminate extraction: once an item cell matches one,
// the rest of the sheet is totals, terms and signature boilerplate.
var footerKeywords = []string{
	"total", "terms", "condition", "amount in words",
	"signature", "sincerely", "page",
}

// minItemNameLen rejects cell stubs like "-" or unit leftovers that
// survive the numeric filter.
const minItemNameLen = 3

// ExtractRows walks the data rows after headerRow and returns the
// admitted candidates plus per-row warnings. A malformed row never
// aborts the file: it is skipped (with a warning where useful) and the
// walk continues, except for footer rows which stop it outright.
func ExtractRows(grid Grid, headerRow int, cols HeaderMap) ([]Candidate, []string) {
	var (
		candidates []Candidate
		warnings   []string
	)

	for row := headerRow + 1; row < len(grid); row++ {
		cand, stop, warn := extractRow(grid, row, cols)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		if stop {
			break
		}
		if cand != nil {
			candidates = append(candidates, *cand)
		}
	}

	return candidates, warnings
}

// extractRow applies the admission rules to a single row. A nil
// candidate with stop=false means the row was noise.
func extractRow(grid Grid, row int, cols HeaderMap) (cand *Candidate, stop bool, warn string) {
	// A single bad cell must not take down the batch.
	defer func() {
		if r := recover(); r != nil {
			cand, stop = nil, false
			warn = fmt.Sprintf("row %d: skipped after unexpected error: %v", row+1, r)
		}
	}()

	name := grid.Cell(row, cols[FieldItemName])

	if IsFooterRow(name) {
		return nil, true, ""
	}
	if IsNoiseValue(name) {
		return nil, false, ""
	}

	price := 0.0
	if idx, ok := cols[FieldBasePrice]; ok {
		price = ParsePrice(grid.Cell(row, idx))
	}
	if price <= 0 {
		return nil, false, fmt.Sprintf("row %d: %q has no positive price, skipped", row+1, name)
	}

	c := Candidate{
		ItemName:   name,
		BasePrice:  price,
		MakeBrand:  models.UnknownBrand,
		GSTPercent: models.DefaultGSTPercent,
	}

	if idx, ok := cols[FieldMakeBrand]; ok {
		if v := grid.Cell(row, idx); v != "" {
			c.MakeBrand = v
		}
	}
	if idx, ok := cols[FieldCASNo]; ok {
		c.CASNo = grid.Cell(row, idx)
	}
	if idx, ok := cols[FieldCatNo]; ok {
		c.CatNo = grid.Cell(row, idx)
	}
	if idx, ok := cols[FieldGSTPercent]; ok {
		if gst := ParsePrice(grid.Cell(row, idx)); gst > 0 {
			c.GSTPercent = gst
		}
	}
	if idx, ok := cols[FieldSpecification]; ok {
		c.Specification = grid.Cell(row, idx)
	}

	return &c, false, ""
}

// IsFooterRow reports whether an item cell marks the start of footer
// boilerplate. Matching is case-insensitive substring.
func IsFooterRow(value string) bool {
	v := strings.ToLower(value)
	if v == "" {
		return false
	}
	for _, kw := range footerKeywords {
		if strings.Contains(v, kw) {
			return true
		}
	}
	return false
}

// IsNoiseValue reports whether an item cell is a non-product artifact:
// empty or placeholder values, bare serial numbers ("1", "23."), or
// stubs below the minimum name length.
func IsNoiseValue(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || v == "nan" || v == "none" {
		return true
	}
	if isSerialNumber(v) {
		return true
	}
	return len(v) < minItemNameLen
}

// isSerialNumber matches purely numeric values with an optional
// trailing period, the way numbered lists render in spreadsheets.
func isSerialNumber(v string) bool {
	v = strings.TrimSuffix(v, ".")
	if v == "" {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParsePrice normalizes messy price text ("₹ 1,450.00", "450/-") by
// stripping everything but digits and decimal points, then parsing the
// remainder. Unparseable input yields 0, which the admission rule
// rejects.
func ParsePrice(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return price
}
