package services

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/prismlab/pricebook/pkg/apperrors"
	"github.com/prismlab/pricebook/pkg/storage"
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

func newTestIngestService(t *testing.T) (IngestService, string) {
	t.Helper()
	dir := t.TempDir()
	uploads, err := storage.NewUploadStore(dir)
	require.NoError(t, err)
	// db and repo stay nil: these tests exercise the file-level
	// rejection paths, which fail before any storage access.
	return NewIngestService(nil, nil, uploads, 20, 10, zap.NewNop()), dir
}

func uploadCount(t *testing.T, dir string) int {
	t.Helper()
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(files)
}

func TestIngest_UnsupportedFileType(t *testing.T) {
	svc, dir := newTestIngestService(t)

	for _, filename := range []string{"quote.pdf", "quote.csv", "quote", "quote.xlsx.exe"} {
		_, err := svc.Ingest(context.Background(), []byte("data"), filename, uuid.New(), false)
		require.Error(t, err, filename)
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedFileType, filename)
	}

	// Rejected extensions are never written to disk.
	assert.Zero(t, uploadCount(t, dir))
}

func TestIngest_UnreadableFile(t *testing.T) {
	svc, dir := newTestIngestService(t)

	_, err := svc.Ingest(context.Background(), []byte("not a workbook"), "quote.xlsx", uuid.New(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnreadableFile)

	// The original is persisted before parsing, so the reference
	// exists even though nothing validated.
	assert.Equal(t, 1, uploadCount(t, dir))
}

func TestIngest_NoItemColumn(t *testing.T) {
	svc, _ := newTestIngestService(t)

	data := buildWorkbook(t, [][]any{
		{"Qty", "Rate", "Amount"},
		{"2", "450", "900"},
	})

	_, err := svc.Ingest(context.Background(), data, "quote.xlsx", uuid.New(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNoItemColumn)
}

func TestIngest_NoQuoteRows(t *testing.T) {
	svc, _ := newTestIngestService(t)

	data := buildWorkbook(t, [][]any{
		{"Item Name", "Price"},
		{"1", "450"},
		{"Total", "450"},
	})

	_, err := svc.Ingest(context.Background(), data, "quote.xlsx", uuid.New(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNoQuoteRows)
}

func TestCapWarnings(t *testing.T) {
	warnings := []string{"w1", "w2", "w3", "w4", "w5"}

	capped := capWarnings(warnings, 3)
	require.Len(t, capped, 4)
	assert.Equal(t, []string{"w1", "w2", "w3"}, capped[:3])
	assert.Equal(t, "... and 2 more", capped[3])

	assert.Len(t, capWarnings(warnings, 5), 5)
	assert.Len(t, capWarnings(warnings, 0), 5)
	assert.Empty(t, capWarnings(nil, 3))
}
