package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/prismlab/pricebook/pkg/apperrors"
	"github.com/prismlab/pricebook/pkg/middleware"
	"github.com/prismlab/pricebook/pkg/models"
	"github.com/prismlab/pricebook/pkg/services"
)

// CatalogHandler exposes quotation ingestion and the price
// intelligence view.
type CatalogHandler struct {
	ingest    services.IngestService
	intel     services.PriceIntelligenceService
	maxUpload int64
	logger    *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(ingest services.IngestService, intel services.PriceIntelligenceService, maxUpload int64, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		ingest:    ingest,
		intel:     intel,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// RegisterRoutes registers the catalog routes on the given mux.
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/quotations/upload", h.Upload)
	mux.HandleFunc("GET /api/price-intelligence", h.PriceIntelligence)
}

// UploadResponse reports what an upload produced.
type UploadResponse struct {
	SavedCount int                    `json:"saved_count"`
	Entries    []*models.CatalogEntry `json:"entries"`
	Warnings   []string               `json:"warnings,omitempty"`
}

// Upload handles POST /api/quotations/upload. It expects a multipart
// form with the spreadsheet under the "file" field.
func (h *CatalogHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "missing caller identity")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "could not parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "could not read uploaded file")
		return
	}

	result, err := h.ingest.Ingest(r.Context(), data, header.Filename, identity.UserID, identity.Privileged())
	if err != nil {
		h.writeIngestError(w, header.Filename, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, UploadResponse{
		SavedCount: len(result.Entries),
		Entries:    result.Entries,
		Warnings:   result.Warnings,
	}); err != nil {
		h.logger.Error("Failed to encode upload response", zap.Error(err))
	}
}

// writeIngestError maps ingestion failures onto HTTP statuses. All of
// them are returned as data, never as a 500, except genuine storage
// failures.
func (h *CatalogHandler) writeIngestError(w http.ResponseWriter, filename string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUnsupportedFileType):
		_ = ErrorResponse(w, http.StatusBadRequest, "unsupported_file_type", err.Error())
	case errors.Is(err, apperrors.ErrUnreadableFile),
		errors.Is(err, apperrors.ErrNoHeaderRow),
		errors.Is(err, apperrors.ErrNoItemColumn),
		errors.Is(err, apperrors.ErrNoQuoteRows):
		_ = ErrorResponse(w, http.StatusUnprocessableEntity, "unparseable_file", err.Error())
	default:
		h.logger.Error("Upload failed", zap.String("file", filename), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to process upload")
	}
}

// PriceIntelligenceResponse wraps the grouped price summaries.
type PriceIntelligenceResponse struct {
	Summaries []models.PriceSummary `json:"summaries"`
}

// PriceIntelligence handles GET /api/price-intelligence?q=<term>.
func (h *CatalogHandler) PriceIntelligence(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "missing caller identity")
		return
	}

	summaries, err := h.intel.Summaries(r.Context(), r.URL.Query().Get("q"), identity.Privileged())
	if err != nil {
		h.logger.Error("Price intelligence query failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to compute price summaries")
		return
	}

	if err := WriteJSON(w, http.StatusOK, PriceIntelligenceResponse{Summaries: summaries}); err != nil {
		h.logger.Error("Failed to encode price intelligence response", zap.Error(err))
	}
}
