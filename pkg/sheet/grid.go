package sheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/prismlab/pricebook/pkg/apperrors"
)

// Grid is the raw cell matrix of one worksheet. Rows may be ragged:
// excelize trims trailing empty cells, so column access must be
// bounds-checked.
type Grid [][]string

// AllowedExtensions are the upload formats the ingestion pipeline
// accepts. Anything else is rejected before the file is saved.
var AllowedExtensions = map[string]bool{
	".xls":  true,
	".xlsx": true,
}

// Decode opens a spreadsheet from raw bytes and returns the cell grid
// of its first sheet. No header position is assumed.
func Decode(data []byte) (Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", apperrors.ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", apperrors.ErrUnreadableFile)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", apperrors.ErrUnreadableFile, sheets[0], err)
	}

	return Grid(rows), nil
}

// Cell returns the trimmed value at (row, col), or "" when the
// coordinate falls outside the ragged grid.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	if col < 0 || col >= len(g[row]) {
		return ""
	}
	return strings.TrimSpace(g[row][col])
}
