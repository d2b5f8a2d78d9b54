package catalog

import (
	"context"
	"errors"
	"net/http"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/storefront-admin/internal/common"
	"github.com/noah-isme/storefront-admin/internal/obs"
	"github.com/noah-isme/storefront-admin/internal/promo"
)

// store captures the catalog queries the service needs.
type store interface {
	ListProducts(ctx context.Context, limit, offset int32) ([]ProductRow, error)
	CountProducts(ctx context.Context) (int64, error)
	GetProductBySlug(ctx context.Context, slug string) (ProductRow, error)
	InsertProduct(ctx context.Context, p ProductRow) (ProductRow, error)
	UpdateProduct(ctx context.Context, p ProductRow) (ProductRow, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListBundles(ctx context.Context, limit, offset int32) ([]BundleRow, error)
	CountBundles(ctx context.Context) (int64, error)
	GetBundleBySlug(ctx context.Context, slug string) (BundleRow, error)
	InsertBundle(ctx context.Context, b BundleRow) (BundleRow, error)
	UpdateBundle(ctx context.Context, b BundleRow) (BundleRow, error)
	DeleteBundle(ctx context.Context, id uuid.UUID) error
}

// SpecialSource provides the current special set for pricing. The
// service fetches one snapshot per request and captures "now" once, so
// every item on a page is priced against the same instant.
type SpecialSource interface {
	Snapshot(ctx context.Context) ([]promo.Special, error)
}

// DisplayPrice is the priced view of a catalog item.
type DisplayPrice struct {
	PriceCents         int64                `json:"priceCents"`
	OriginalPriceCents int64                `json:"originalPriceCents"`
	Discount           *promo.DiscountLabel `json:"discount,omitempty"`
	SpecialTitle       string               `json:"specialTitle,omitempty"`
}

// ProductItem is the public product payload.
type ProductItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Description string       `json:"description,omitempty"`
	ImageURL    *string      `json:"imageUrl,omitempty"`
	InStock     bool         `json:"inStock"`
	Price       DisplayPrice `json:"price"`
}

// BundleItem is the public bundle payload.
type BundleItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Description string       `json:"description,omitempty"`
	ImageURL    *string      `json:"imageUrl,omitempty"`
	ProductIDs  []string     `json:"productIds"`
	Price       DisplayPrice `json:"price"`
}

// ListResult pairs a page of items with the total count.
type ListResult[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// Service orchestrates catalog queries, display pricing, and caching.
type Service struct {
	store        store
	specials     SpecialSource
	cache        *Cache
	resolver     promo.Resolver
	validate     *validator.Validate
	now          func() time.Time
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store        store
	Specials     SpecialSource
	Cache        *Cache
	TieBreak     promo.Strategy
	Now          func() time.Time
	DefaultLimit int
	MaxLimit     int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("catalog: store is required")
	}
	if cfg.Specials == nil {
		return nil, errors.New("catalog: special source is required")
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < defaultLimit {
		maxLimit = 100
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:        cfg.Store,
		specials:     cfg.Specials,
		cache:        cfg.Cache,
		resolver:     promo.Resolver{TieBreak: cfg.TieBreak},
		validate:     validator.New(),
		now:          now,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// ListProducts returns a priced page of products.
func (s *Service) ListProducts(ctx context.Context, page, limit int) (ListResult[ProductItem], error) {
	page, limit = s.clamp(page, limit)
	offset := int32((page - 1) * limit)

	var rows []ProductRow
	key := s.cache.Key(ctx, "products", limit, offset)
	if ok, _ := s.cache.GetJSON(ctx, key, &rows); !ok {
		var err error
		rows, err = s.store.ListProducts(ctx, int32(limit), offset)
		if err != nil {
			return ListResult[ProductItem]{}, err
		}
		_ = s.cache.SetJSON(ctx, key, rows)
	}
	total, err := s.store.CountProducts(ctx)
	if err != nil {
		return ListResult[ProductItem]{}, err
	}

	specials, now, err := s.pricingSnapshot(ctx)
	if err != nil {
		return ListResult[ProductItem]{}, err
	}
	items := make([]ProductItem, 0, len(rows))
	for _, row := range rows {
		item, err := s.priceProduct(row, specials, now)
		if err != nil {
			return ListResult[ProductItem]{}, err
		}
		items = append(items, item)
	}
	return ListResult[ProductItem]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// GetProduct returns a single priced product by slug.
func (s *Service) GetProduct(ctx context.Context, slug string) (ProductItem, error) {
	var row ProductRow
	key := s.cache.Key(ctx, "product", slug)
	if ok, _ := s.cache.GetJSON(ctx, key, &row); !ok {
		var err error
		row, err = s.store.GetProductBySlug(ctx, slug)
		if err != nil {
			return ProductItem{}, err
		}
		_ = s.cache.SetJSON(ctx, key, row)
	}
	specials, now, err := s.pricingSnapshot(ctx)
	if err != nil {
		return ProductItem{}, err
	}
	return s.priceProduct(row, specials, now)
}

// ListBundles returns a priced page of bundles.
func (s *Service) ListBundles(ctx context.Context, page, limit int) (ListResult[BundleItem], error) {
	page, limit = s.clamp(page, limit)
	offset := int32((page - 1) * limit)

	var rows []BundleRow
	key := s.cache.Key(ctx, "bundles", limit, offset)
	if ok, _ := s.cache.GetJSON(ctx, key, &rows); !ok {
		var err error
		rows, err = s.store.ListBundles(ctx, int32(limit), offset)
		if err != nil {
			return ListResult[BundleItem]{}, err
		}
		_ = s.cache.SetJSON(ctx, key, rows)
	}
	total, err := s.store.CountBundles(ctx)
	if err != nil {
		return ListResult[BundleItem]{}, err
	}

	specials, now, err := s.pricingSnapshot(ctx)
	if err != nil {
		return ListResult[BundleItem]{}, err
	}
	items := make([]BundleItem, 0, len(rows))
	for _, row := range rows {
		item, err := s.priceBundle(row, specials, now)
		if err != nil {
			return ListResult[BundleItem]{}, err
		}
		items = append(items, item)
	}
	return ListResult[BundleItem]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// GetBundle returns a single priced bundle by slug.
func (s *Service) GetBundle(ctx context.Context, slug string) (BundleItem, error) {
	var row BundleRow
	key := s.cache.Key(ctx, "bundle", slug)
	if ok, _ := s.cache.GetJSON(ctx, key, &row); !ok {
		var err error
		row, err = s.store.GetBundleBySlug(ctx, slug)
		if err != nil {
			return BundleItem{}, err
		}
		_ = s.cache.SetJSON(ctx, key, row)
	}
	specials, now, err := s.pricingSnapshot(ctx)
	if err != nil {
		return BundleItem{}, err
	}
	return s.priceBundle(row, specials, now)
}

func (s *Service) pricingSnapshot(ctx context.Context) ([]promo.Special, time.Time, error) {
	specials, err := s.specials.Snapshot(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	return specials, s.now(), nil
}

func (s *Service) priceProduct(row ProductRow, specials []promo.Special, now time.Time) (ProductItem, error) {
	price, err := s.displayPrice(promo.KindProduct, row.ID, row.PriceCents, specials, now)
	if err != nil {
		return ProductItem{}, err
	}
	return ProductItem{
		ID:          row.ID.String(),
		Title:       row.Title,
		Slug:        row.Slug,
		Description: row.Description,
		ImageURL:    row.ImageURL,
		InStock:     row.Stock > 0,
		Price:       price,
	}, nil
}

func (s *Service) priceBundle(row BundleRow, specials []promo.Special, now time.Time) (BundleItem, error) {
	price, err := s.displayPrice(promo.KindBundle, row.ID, row.PriceCents, specials, now)
	if err != nil {
		return BundleItem{}, err
	}
	products := make([]string, 0, len(row.ProductIDs))
	for _, id := range row.ProductIDs {
		products = append(products, id.String())
	}
	return BundleItem{
		ID:          row.ID.String(),
		Title:       row.Title,
		Slug:        row.Slug,
		Description: row.Description,
		ImageURL:    row.ImageURL,
		ProductIDs:  products,
		Price:       price,
	}, nil
}

func (s *Service) displayPrice(kind promo.ItemKind, id uuid.UUID, baseCents int64, specials []promo.Special, now time.Time) (DisplayPrice, error) {
	res, err := s.resolver.Resolve(kind, id, baseCents, specials, now)
	if err != nil {
		// A corrupt discount type means the stored campaign data is
		// broken; surface it instead of guessing a price.
		obs.ObservePriceResolution(string(kind), "error")
		return DisplayPrice{}, common.NewAppError("PRICING_ERROR", "invalid campaign data", http.StatusInternalServerError, err)
	}
	price := DisplayPrice{
		PriceCents:         res.PriceCents,
		OriginalPriceCents: res.OriginalPriceCents,
		Discount:           res.Label,
	}
	if res.Discounted() {
		price.SpecialTitle = res.Applied.Title
		obs.ObservePriceResolution(string(kind), "discounted")
		obs.ObserveSpecialApplied(string(res.Applied.Scope), string(res.Applied.DiscountType))
	} else {
		obs.ObservePriceResolution(string(kind), "base")
	}
	return price, nil
}

func (s *Service) clamp(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return page, limit
}
