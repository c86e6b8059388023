package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/prismlab/pricebook/pkg/apperrors"
	"github.com/prismlab/pricebook/pkg/database"
	"github.com/prismlab/pricebook/pkg/models"
)

// CatalogRepository defines data access for catalog entries. Write
// methods take a database.Querier so the ingest service can run a
// whole upload batch inside one transaction.
type CatalogRepository interface {
	// FindByDedupKey returns the entry with an exactly matching dedup
	// key, or apperrors.ErrNotFound.
	FindByDedupKey(ctx context.Context, q database.Querier, key models.DedupKey) (*models.CatalogEntry, error)
	Insert(ctx context.Context, q database.Querier, entry *models.CatalogEntry) error
	// Update rewrites the mutable observation fields (specification,
	// source file, created_at) of an existing entry.
	Update(ctx context.Context, q database.Querier, entry *models.CatalogEntry) error
	// Search returns entries visible to the caller, optionally filtered
	// by a case-insensitive substring over the descriptive fields.
	Search(ctx context.Context, q database.Querier, includePrivate bool, term string) ([]*models.CatalogEntry, error)
}

// catalogRepository implements CatalogRepository using PostgreSQL.
type catalogRepository struct{}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository() CatalogRepository {
	return &catalogRepository{}
}

const catalogColumns = `id, item_name, cas_no, cat_no, make_brand, base_price,
	gst_percent, specification, source_file, uploaded_by, is_private, created_at`

func (r *catalogRepository) FindByDedupKey(ctx context.Context, q database.Querier, key models.DedupKey) (*models.CatalogEntry, error) {
	query := `
		SELECT ` + catalogColumns + `
		FROM catalog_entries
		WHERE item_name = $1 AND make_brand = $2 AND cas_no = $3 AND cat_no = $4 AND base_price = $5
		LIMIT 1`

	row := q.QueryRow(ctx, query, key.ItemName, key.MakeBrand, key.CASNo, key.CatNo, key.BasePrice)
	entry, err := scanCatalogEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find catalog entry: %w", err)
	}
	return entry, nil
}

func (r *catalogRepository) Insert(ctx context.Context, q database.Querier, entry *models.CatalogEntry) error {
	query := `
		INSERT INTO catalog_entries (` + catalogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := q.Exec(ctx, query,
		entry.ID,
		entry.ItemName,
		entry.CASNo,
		entry.CatNo,
		entry.MakeBrand,
		entry.BasePrice,
		entry.GSTPercent,
		entry.Specification,
		entry.SourceFile,
		entry.UploadedBy,
		entry.IsPrivate,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert catalog entry: %w", err)
	}
	return nil
}

func (r *catalogRepository) Update(ctx context.Context, q database.Querier, entry *models.CatalogEntry) error {
	query := `
		UPDATE catalog_entries
		SET specification = $2, source_file = $3, created_at = $4
		WHERE id = $1`

	result, err := q.Exec(ctx, query,
		entry.ID,
		entry.Specification,
		entry.SourceFile,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update catalog entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *catalogRepository) Search(ctx context.Context, q database.Querier, includePrivate bool, term string) ([]*models.CatalogEntry, error) {
	query := `
		SELECT ` + catalogColumns + `
		FROM catalog_entries
		WHERE ($1 OR NOT is_private)`
	args := []any{includePrivate}

	if term != "" {
		query += `
		AND (item_name ILIKE $2 OR make_brand ILIKE $2 OR cas_no ILIKE $2
			OR cat_no ILIKE $2 OR specification ILIKE $2)`
		args = append(args, "%"+term+"%")
	}

	query += `
		ORDER BY created_at, id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.CatalogEntry
	for rows.Next() {
		entry, err := scanCatalogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog entries: %w", err)
	}
	return entries, nil
}

func scanCatalogEntry(row pgx.Row) (*models.CatalogEntry, error) {
	var e models.CatalogEntry
	err := row.Scan(
		&e.ID,
		&e.ItemName,
		&e.CASNo,
		&e.CatNo,
		&e.MakeBrand,
		&e.BasePrice,
		&e.GSTPercent,
		&e.Specification,
		&e.SourceFile,
		&e.UploadedBy,
		&e.IsPrivate,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
