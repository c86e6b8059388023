package sheet

import "strings"

// headerKeywords are the labels that mark a row as a probable column
// header. Matching is case-insensitive substring over the joined row.
var headerKeywords = []string{
	"item", "description", "particulars", "product", "name",
	"material", "cat no", "price", "rate", "amount", "qty",
}

// headerKeywordThreshold is the number of distinct keyword hits a row
// needs to be selected as the header. A single hit proved too loose:
// title rows like "Quotation for lab products" contain "product" and
// would shadow the real header below them.
const headerKeywordThreshold = 2

// HeaderNotFound is returned by LocateHeaderRow when the grid holds no
// usable rows at all.
const HeaderNotFound = -1

// LocateHeaderRow scans the first maxScan rows for the row most likely
// to be the column header. The first row with at least
// headerKeywordThreshold keyword hits wins. When no row qualifies, row
// 0 is assumed to be the header, matching sheets exported with the
// table at the very top.
func LocateHeaderRow(grid Grid, maxScan int) int {
	if len(grid) == 0 {
		return HeaderNotFound
	}
	if maxScan <= 0 || maxScan > len(grid) {
		maxScan = len(grid)
	}

	for i := 0; i < maxScan; i++ {
		var b strings.Builder
		for _, cell := range grid[i] {
			if v := strings.TrimSpace(cell); v != "" {
				b.WriteString(strings.ToLower(v))
				b.WriteByte(' ')
			}
		}
		joined := b.String()
		if joined == "" {
			continue
		}

		hits := 0
		for _, kw := range headerKeywords {
			if strings.Contains(joined, kw) {
				hits++
			}
		}
		if hits >= headerKeywordThreshold {
			return i
		}
	}

	return 0
}
