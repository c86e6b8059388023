package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prismlab/pricebook/pkg/apperrors"
	"github.com/prismlab/pricebook/pkg/database"
	"github.com/prismlab/pricebook/pkg/models"
	"github.com/prismlab/pricebook/pkg/repositories"
	"github.com/prismlab/pricebook/pkg/sheet"
	"github.com/prismlab/pricebook/pkg/storage"
)

// IngestResult is what an upload produced: the saved or refreshed
// catalog entries plus bounded row-level warnings.
type IngestResult struct {
	Entries  []*models.CatalogEntry `json:"entries"`
	Warnings []string               `json:"warnings,omitempty"`
}

// IngestService turns an uploaded supplier quotation spreadsheet into
// deduplicated catalog entries.
type IngestService interface {
	// Ingest saves the original file, extracts product rows and upserts
	// them into the catalog as one transactional batch. File-level
	// problems (unsupported type, unreadable workbook, no item column,
	// zero valid rows) return an error and persist nothing beyond the
	// original file.
	Ingest(ctx context.Context, data []byte, filename string, uploaderID uuid.UUID, privileged bool) (*IngestResult, error)
}

type ingestService struct {
	db             *database.DB
	repo           repositories.CatalogRepository
	uploads        *storage.UploadStore
	headerScanRows int
	maxWarnings    int
	logger         *zap.Logger
}

// NewIngestService creates a new IngestService.
func NewIngestService(db *database.DB, repo repositories.CatalogRepository, uploads *storage.UploadStore, headerScanRows, maxWarnings int, logger *zap.Logger) IngestService {
	return &ingestService{
		db:             db,
		repo:           repo,
		uploads:        uploads,
		headerScanRows: headerScanRows,
		maxWarnings:    maxWarnings,
		logger:         logger.Named("ingest-service"),
	}
}

var _ IngestService = (*ingestService)(nil)

func (s *ingestService) Ingest(ctx context.Context, data []byte, filename string, uploaderID uuid.UUID, privileged bool) (*IngestResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !sheet.AllowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFileType, ext)
	}

	// Persist the original before parsing so a source reference exists
	// even when nothing validates.
	sourceFile, err := s.uploads.Save(filename, data)
	if err != nil {
		return nil, fmt.Errorf("store original file: %w", err)
	}

	grid, err := sheet.Decode(data)
	if err != nil {
		return nil, err
	}

	headerRow := sheet.LocateHeaderRow(grid, s.headerScanRows)
	if headerRow == sheet.HeaderNotFound {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoHeaderRow, filename)
	}

	cols, err := sheet.ResolveColumns(grid[headerRow])
	if err != nil {
		return nil, err
	}

	candidates, warnings := sheet.ExtractRows(grid, headerRow, cols)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoQuoteRows, filename)
	}

	s.logger.Info("Extracted quotation rows",
		zap.String("file", filename),
		zap.Int("header_row", headerRow),
		zap.Int("candidates", len(candidates)),
		zap.Int("warnings", len(warnings)))

	entries, err := s.upsertBatch(ctx, candidates, sourceFile, uploaderID, privileged)
	if err != nil {
		return nil, err
	}

	return &IngestResult{
		Entries:  entries,
		Warnings: capWarnings(warnings, s.maxWarnings),
	}, nil
}

// upsertBatch applies the dedup rule to every candidate inside a
// single transaction: a storage failure rolls back the whole upload.
func (s *ingestService) upsertBatch(ctx context.Context, candidates []sheet.Candidate, sourceFile string, uploaderID uuid.UUID, privileged bool) ([]*models.CatalogEntry, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	now := time.Now().UTC()
	entries := make([]*models.CatalogEntry, 0, len(candidates))

	for _, cand := range candidates {
		key := models.DedupKey{
			ItemName:  cand.ItemName,
			MakeBrand: cand.MakeBrand,
			CASNo:     cand.CASNo,
			CatNo:     cand.CatNo,
			BasePrice: cand.BasePrice,
		}

		existing, err := s.repo.FindByDedupKey(ctx, tx, key)
		switch {
		case err == nil:
			// Same observation seen again: refresh its source reference
			// and timestamp, keep price and ownership untouched.
			if cand.Specification != "" {
				existing.Specification = cand.Specification
			}
			existing.SourceFile = sourceFile
			existing.CreatedAt = now
			if err := s.repo.Update(ctx, tx, existing); err != nil {
				return nil, err
			}
			entries = append(entries, existing)

		case errors.Is(err, apperrors.ErrNotFound):
			entry := &models.CatalogEntry{
				ID:            uuid.New(),
				ItemName:      cand.ItemName,
				CASNo:         cand.CASNo,
				CatNo:         cand.CatNo,
				MakeBrand:     cand.MakeBrand,
				BasePrice:     cand.BasePrice,
				GSTPercent:    cand.GSTPercent,
				Specification: cand.Specification,
				SourceFile:    sourceFile,
				UploadedBy:    uploaderID,
				IsPrivate:     privileged,
				CreatedAt:     now,
			}
			if err := s.repo.Insert(ctx, tx, entry); err != nil {
				return nil, err
			}
			entries = append(entries, entry)

		default:
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit upload batch: %w", err)
	}
	return entries, nil
}

// capWarnings bounds the warning list shown to callers, summarizing
// the excess by count.
func capWarnings(warnings []string, max int) []string {
	if max <= 0 || len(warnings) <= max {
		return warnings
	}
	capped := make([]string, max, max+1)
	copy(capped, warnings[:max])
	return append(capped, fmt.Sprintf("... and %d more", len(warnings)-max))
}
