package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prismlab/pricebook/pkg/apperrors"
	"github.com/prismlab/pricebook/pkg/middleware"
	"github.com/prismlab/pricebook/pkg/models"
	"github.com/prismlab/pricebook/pkg/services"
)

// stubIngestService returns canned results for testing the handler.
type stubIngestService struct {
	result     *services.IngestResult
	err        error
	lastUser   uuid.UUID
	lastPriv   bool
	lastedName string
}

func (s *stubIngestService) Ingest(ctx context.Context, data []byte, filename string, uploaderID uuid.UUID, privileged bool) (*services.IngestResult, error) {
	s.lastUser = uploaderID
	s.lastPriv = privileged
	s.lastedName = filename
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// stubIntelService returns canned summaries for testing the handler.
type stubIntelService struct {
	summaries []models.PriceSummary
	lastTerm  string
	lastPriv  bool
}

func (s *stubIntelService) Summaries(ctx context.Context, term string, privileged bool) ([]models.PriceSummary, error) {
	s.lastTerm = term
	s.lastPriv = privileged
	return s.summaries, nil
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func uploadRequest(t *testing.T, identity *middleware.Identity) *http.Request {
	t.Helper()
	body, contentType := multipartBody(t, "quote.xlsx", []byte("workbook bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/quotations/upload", body)
	req.Header.Set("Content-Type", contentType)
	if identity != nil {
		req = req.WithContext(middleware.SetIdentity(req.Context(), *identity))
	}
	return req
}

func TestUpload(t *testing.T) {
	entry := &models.CatalogEntry{ID: uuid.New(), ItemName: "Beaker 500ml", BasePrice: 450}
	ingest := &stubIngestService{result: &services.IngestResult{
		Entries:  []*models.CatalogEntry{entry},
		Warnings: []string{"row 5: skipped"},
	}}
	h := NewCatalogHandler(ingest, &stubIntelService{}, 1<<20, zap.NewNop())

	identity := middleware.Identity{UserID: uuid.New(), Role: middleware.RoleAdmin}
	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, &identity))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.SavedCount)
	assert.Equal(t, []string{"row 5: skipped"}, resp.Warnings)

	assert.Equal(t, identity.UserID, ingest.lastUser)
	assert.True(t, ingest.lastPriv)
	assert.Equal(t, "quote.xlsx", ingest.lastedName)
}

func TestUpload_MissingIdentity(t *testing.T) {
	h := NewCatalogHandler(&stubIngestService{}, &stubIntelService{}, 1<<20, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpload_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"unsupported type", apperrors.ErrUnsupportedFileType, http.StatusBadRequest},
		{"unreadable file", apperrors.ErrUnreadableFile, http.StatusUnprocessableEntity},
		{"no header row", apperrors.ErrNoHeaderRow, http.StatusUnprocessableEntity},
		{"no item column", apperrors.ErrNoItemColumn, http.StatusUnprocessableEntity},
		{"no quote rows", apperrors.ErrNoQuoteRows, http.StatusUnprocessableEntity},
		{"storage failure", fmt.Errorf("commit upload batch: connection reset"), http.StatusInternalServerError},
	}

	identity := middleware.Identity{UserID: uuid.New(), Role: "employee"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCatalogHandler(&stubIngestService{err: tt.err}, &stubIntelService{}, 1<<20, zap.NewNop())

			rec := httptest.NewRecorder()
			h.Upload(rec, uploadRequest(t, &identity))

			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestUpload_MissingFileField(t *testing.T) {
	h := NewCatalogHandler(&stubIngestService{}, &stubIntelService{}, 1<<20, zap.NewNop())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/quotations/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req = req.WithContext(middleware.SetIdentity(req.Context(), middleware.Identity{UserID: uuid.New()}))

	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPriceIntelligence(t *testing.T) {
	intel := &stubIntelService{summaries: []models.PriceSummary{
		{ItemName: "Beaker 500ml", MakeBrand: "Corning", MinPrice: 400, MaxPrice: 500, AvgPrice: 450, QuoteCount: 3},
	}}
	h := NewCatalogHandler(&stubIngestService{}, intel, 1<<20, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/price-intelligence?q=beaker", nil)
	req = req.WithContext(middleware.SetIdentity(req.Context(), middleware.Identity{UserID: uuid.New(), Role: "employee"}))

	rec := httptest.NewRecorder()
	h.PriceIntelligence(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PriceIntelligenceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Summaries, 1)
	assert.Equal(t, "Beaker 500ml", resp.Summaries[0].ItemName)

	assert.Equal(t, "beaker", intel.lastTerm)
	assert.False(t, intel.lastPriv)
}

func TestPriceIntelligence_MissingIdentity(t *testing.T) {
	h := NewCatalogHandler(&stubIngestService{}, &stubIntelService{}, 1<<20, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/price-intelligence", nil)
	rec := httptest.NewRecorder()
	h.PriceIntelligence(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
