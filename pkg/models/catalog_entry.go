package models

import (
	"time"

	"github.com/google/uuid"
)

// CatalogEntry is one priced product observation extracted from an
// uploaded supplier quotation. Entries are deduplicated on DedupKey:
// re-uploading an identical observation refreshes the existing row
// instead of inserting a new one.
type CatalogEntry struct {
	ID            uuid.UUID `json:"id"`
	ItemName      string    `json:"item_name"`
	CASNo         string    `json:"cas_no,omitempty"`
	CatNo         string    `json:"cat_no,omitempty"`
	MakeBrand     string    `json:"make_brand"`
	BasePrice     float64   `json:"base_price"`
	GSTPercent    float64   `json:"gst_percent"`
	Specification string    `json:"specification,omitempty"`
	SourceFile    string    `json:"source_file"`
	UploadedBy    uuid.UUID `json:"uploaded_by"`
	IsPrivate     bool      `json:"is_private"`
	CreatedAt     time.Time `json:"created_at"`
}

// DedupKey identifies "the same observed quotation". Two entries with
// equal keys are the same observation, not merely the same product.
type DedupKey struct {
	ItemName  string
	MakeBrand string
	CASNo     string
	CatNo     string
	BasePrice float64
}

// Key returns the entry's dedup key. Absent CAS/catalog numbers are
// stored as empty strings so optional fields compare stable.
func (e *CatalogEntry) Key() DedupKey {
	return DedupKey{
		ItemName:  e.ItemName,
		MakeBrand: e.MakeBrand,
		CASNo:     e.CASNo,
		CatNo:     e.CatNo,
		BasePrice: e.BasePrice,
	}
}

// DefaultGSTPercent is applied when a sheet carries no tax column.
const DefaultGSTPercent = 18.0

// UnknownBrand is the make/brand recorded when a sheet has no brand
// column or the cell is empty.
const UnknownBrand = "Unknown"
