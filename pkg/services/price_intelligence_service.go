package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/prismlab/pricebook/pkg/database"
	"github.com/prismlab/pricebook/pkg/models"
	"github.com/prismlab/pricebook/pkg/repositories"
)

// PriceIntelligenceService aggregates the catalog into per-product
// price ranges.
type PriceIntelligenceService interface {
	// Summaries groups the entries visible to the caller by
	// (item name, make/brand) and computes min/max/average price per
	// group. term, when non-empty, filters by case-insensitive
	// substring before grouping.
	Summaries(ctx context.Context, term string, privileged bool) ([]models.PriceSummary, error)
}

type priceIntelligenceService struct {
	db     *database.DB
	repo   repositories.CatalogRepository
	logger *zap.Logger
}

// NewPriceIntelligenceService creates a new PriceIntelligenceService.
func NewPriceIntelligenceService(db *database.DB, repo repositories.CatalogRepository, logger *zap.Logger) PriceIntelligenceService {
	return &priceIntelligenceService{
		db:     db,
		repo:   repo,
		logger: logger.Named("price-intelligence"),
	}
}

var _ PriceIntelligenceService = (*priceIntelligenceService)(nil)

func (s *priceIntelligenceService) Summaries(ctx context.Context, term string, privileged bool) ([]models.PriceSummary, error) {
	entries, err := s.repo.Search(ctx, s.db, privileged, term)
	if err != nil {
		return nil, err
	}

	summaries := GroupEntries(entries)

	s.logger.Debug("Computed price summaries",
		zap.String("term", term),
		zap.Bool("privileged", privileged),
		zap.Int("entries", len(entries)),
		zap.Int("groups", len(summaries)))

	return summaries, nil
}

type groupKey struct {
	itemName  string
	makeBrand string
}

// GroupEntries folds catalog entries into price summaries keyed by
// exact (item name, make/brand) equality. Case and whitespace variants
// form separate groups. CAS/catalog numbers, specification and the
// source file are carried from the first entry observed per group.
func GroupEntries(entries []*models.CatalogEntry) []models.PriceSummary {
	groups := make(map[groupKey]*models.PriceSummary)
	var order []groupKey

	for _, e := range entries {
		key := groupKey{itemName: e.ItemName, makeBrand: e.MakeBrand}
		g, ok := groups[key]
		if !ok {
			groups[key] = &models.PriceSummary{
				ItemName:      e.ItemName,
				MakeBrand:     e.MakeBrand,
				CASNo:         e.CASNo,
				CatNo:         e.CatNo,
				Specification: e.Specification,
				MinPrice:      e.BasePrice,
				MaxPrice:      e.BasePrice,
				AvgPrice:      e.BasePrice,
				QuoteCount:    1,
				SourceFile:    e.SourceFile,
			}
			order = append(order, key)
			continue
		}

		if e.BasePrice < g.MinPrice {
			g.MinPrice = e.BasePrice
		}
		if e.BasePrice > g.MaxPrice {
			g.MaxPrice = e.BasePrice
		}
		// Running mean keeps AvgPrice consistent with QuoteCount.
		g.AvgPrice = (g.AvgPrice*float64(g.QuoteCount) + e.BasePrice) / float64(g.QuoteCount+1)
		g.QuoteCount++
	}

	summaries := make([]models.PriceSummary, 0, len(order))
	for _, key := range order {
		summaries = append(summaries, *groups[key])
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].ItemName != summaries[j].ItemName {
			return summaries[i].ItemName < summaries[j].ItemName
		}
		return summaries[i].MakeBrand < summaries[j].MakeBrand
	})

	return summaries
}
