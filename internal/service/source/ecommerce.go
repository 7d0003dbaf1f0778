package source

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"trendpulse/internal/domain/trend"
)

// EcommerceConfig holds marketplace API credentials.
type EcommerceConfig struct {
	ShopifyAPIKey   string
	AmazonAccessKey string
}

// Ecommerce aggregates best-seller movement across shopping platforms.
// Real marketplace integrations require per-store partner agreements,
// so fetches synthesize catalog data until credentials are wired to a
// partner endpoint.
type Ecommerce struct {
	cfg EcommerceConfig
	log *zap.Logger
}

// NewEcommerce creates the e-commerce collaborator.
func NewEcommerce(cfg EcommerceConfig, log *zap.Logger) *Ecommerce {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ecommerce{cfg: cfg, log: log}
}

// Name returns the platform identifier.
func (s *Ecommerce) Name() string { return trend.SourceEcommerce }

// Configured reports whether any marketplace credential is set.
func (s *Ecommerce) Configured() bool {
	return validCredential(s.cfg.ShopifyAPIKey) || validCredential(s.cfg.AmazonAccessKey)
}

type ecommerceProduct struct {
	name     string
	category string
	score    int
}

var ecommerceCatalog = []ecommerceProduct{
	{"Oversized Blazer", "Jackets", 95},
	{"Cargo Pants", "Bottoms", 92},
	{"Platform Sneakers", "Footwear", 90},
	{"Mini Skirt", "Bottoms", 88},
	{"Crop Top", "Tops", 87},
	{"Wide Leg Jeans", "Bottoms", 85},
	{"Chunky Boots", "Footwear", 83},
	{"Trench Coat", "Outerwear", 82},
	{"Mesh Top", "Tops", 80},
	{"Cargo Skirt", "Bottoms", 78},
}

// Fetch returns up to limit trending products. Recognized filter
// keys: platform.
func (s *Ecommerce) Fetch(_ context.Context, limit int, filters trend.Filters) []trend.RawItem {
	platform := filters["platform"]
	if platform == "" {
		platform = "general"
	}

	catalog := ecommerceCatalog
	if limit < len(catalog) {
		catalog = catalog[:limit]
	}

	items := make([]trend.RawItem, 0, len(catalog))
	for i, product := range catalog {
		low := gofakeit.Number(25, 80)
		items = append(items, trend.RawItem{
			"id":           fmt.Sprintf("ecom_fashion_%d", i+1),
			"product_name": product.name,
			"category":     product.category,
			"trend_score":  product.score,
			"sales_volume": gofakeit.Number(1_000, 15_000),
			"price_range":  fmt.Sprintf("$%d-$%d", low, low+gofakeit.Number(20, 90)),
			"platform":     platform,
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
		})
	}
	return items
}
