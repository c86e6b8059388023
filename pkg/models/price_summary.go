package models

// PriceSummary is the aggregated price view for one product group,
// keyed by (item name, make/brand). Derived at query time, never
// persisted.
type PriceSummary struct {
	ItemName      string  `json:"item_name"`
	MakeBrand     string  `json:"make_brand"`
	CASNo         string  `json:"cas_no,omitempty"`
	CatNo         string  `json:"cat_no,omitempty"`
	Specification string  `json:"specification,omitempty"`
	MinPrice      float64 `json:"min_price"`
	MaxPrice      float64 `json:"max_price"`
	AvgPrice      float64 `json:"avg_price"`
	QuoteCount    int     `json:"quote_count"`
	SourceFile    string  `json:"source_file"`
}
