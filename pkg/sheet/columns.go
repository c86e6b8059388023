package sheet

import (
	"fmt"
	"strings"

	"github.com/prismlab/pricebook/pkg/apperrors"
)

// Canonical field names the extractor understands, independent of the
// label any given supplier uses for the column.
const (
	FieldItemName      = "item_name"
	FieldBasePrice     = "base_price"
	FieldMakeBrand     = "make_brand"
	FieldCASNo         = "cas_no"
	FieldCatNo         = "cat_no"
	FieldGSTPercent    = "gst_percent"
	FieldSpecification = "specification"
)

// HeaderMap maps canonical field names to the column index that holds
// them. Immutable after ResolveColumns; a missing optional field has
// no entry.
type HeaderMap map[string]int

// columnSynonyms lists, per canonical field, the label substrings that
// identify its column, in match-priority order. Resolution walks
// fields in the order of resolveOrder so the most load-bearing fields
// claim their columns first.
var columnSynonyms = map[string][]string{
	FieldItemName:      {"item name", "item", "description", "particulars", "product name", "product", "material", "name"},
	FieldBasePrice:     {"base price", "unit price", "price", "rate", "cost", "amount"},
	FieldMakeBrand:     {"make", "brand", "manufacturer", "company"},
	FieldCASNo:         {"cas no", "cas number", "cas#", "cas"},
	FieldCatNo:         {"cat no", "catalog no", "cat number", "catalogue", "product no", "cat#"},
	FieldGSTPercent:    {"gst", "tax"},
	FieldSpecification: {"specification", "specs", "spec", "details", "grade", "purity"},
}

var resolveOrder = []string{
	FieldItemName,
	FieldBasePrice,
	FieldCASNo,
	FieldCatNo,
	FieldMakeBrand,
	FieldGSTPercent,
	FieldSpecification,
}

// itemNameAntiKeywords disqualify a label from becoming the item name
// column. Supplier sheets routinely lead with a serial number column
// labeled "S.No" or "Sr. No" whose values would otherwise match the
// loose "no"/"name" synonyms.
var itemNameAntiKeywords = []string{"no.", "sr.", "serial", "code", "qty"}

// ResolveColumns maps the header row's labels onto canonical fields.
// Each column is claimed at most once. The item name column is
// mandatory: without it the whole file is rejected, no partial
// inference is attempted.
func ResolveColumns(headerCells []string) (HeaderMap, error) {
	labels := make([]string, len(headerCells))
	for i, c := range headerCells {
		labels[i] = strings.ToLower(strings.TrimSpace(c))
	}

	cols := make(HeaderMap, len(resolveOrder))
	claimed := make(map[int]bool, len(labels))

	for _, field := range resolveOrder {
	synonyms:
		for _, syn := range columnSynonyms[field] {
			for idx, label := range labels {
				if label == "" || claimed[idx] || !strings.Contains(label, syn) {
					continue
				}
				if field == FieldItemName && matchesAny(label, itemNameAntiKeywords) {
					continue
				}
				cols[field] = idx
				claimed[idx] = true
				break synonyms
			}
		}
	}

	if _, ok := cols[FieldItemName]; !ok {
		return nil, fmt.Errorf("%w: header %v", apperrors.ErrNoItemColumn, headerCells)
	}

	return cols, nil
}

func matchesAny(label string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return false
}
