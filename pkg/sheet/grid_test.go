package sheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/prismlab/pricebook/pkg/apperrors"
)

// buildWorkbook renders rows into an in-memory xlsx file.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheetName, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Item Name", "Make", "Price"},
		{"Beaker 500ml", "Corning", 450.0},
	})

	grid, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, grid, 2)
	assert.Equal(t, "Item Name", grid.Cell(0, 0))
	assert.Equal(t, "Beaker 500ml", grid.Cell(1, 0))
	assert.Equal(t, "450", grid.Cell(1, 2))
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("this is not a spreadsheet"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnreadableFile)
}

func TestGridCell_OutOfBounds(t *testing.T) {
	grid := Grid{{"a", "b"}}

	assert.Equal(t, "a", grid.Cell(0, 0))
	assert.Equal(t, "", grid.Cell(0, 5))
	assert.Equal(t, "", grid.Cell(3, 0))
	assert.Equal(t, "", grid.Cell(-1, -1))
}

func TestGridCell_TrimsWhitespace(t *testing.T) {
	grid := Grid{{"  Beaker 500ml  "}}
	assert.Equal(t, "Beaker 500ml", grid.Cell(0, 0))
}
