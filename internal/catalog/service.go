package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/vetdesign/checkout-api/internal/common"
	"github.com/vetdesign/checkout-api/internal/obs"
	"github.com/vetdesign/checkout-api/internal/storage"
)

// ErrNotFound marks a product id the upstream store does not know.
var ErrNotFound = errors.New("catalog: product not found")

const (
	listCacheKey      = "catalog:products"
	detailCachePrefix = "catalog:product:"
)

// Service serves products from a short-lived cache backed by the upstream
// store API, degrading to a built-in fallback set when the upstream is down.
type Service struct {
	fetcher  Fetcher
	cache    storage.KV
	fallback []Product
	log      zerolog.Logger
}

// ServiceConfig groups Service dependencies. Cache is optional; Fallback
// defaults to the built-in dataset when nil.
type ServiceConfig struct {
	Fetcher  Fetcher
	Cache    storage.KV
	Fallback []Product
	Logger   zerolog.Logger
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("catalog: fetcher is required")
	}
	fallback := cfg.Fallback
	if fallback == nil {
		fallback = FallbackProducts()
	}
	return &Service{
		fetcher:  cfg.Fetcher,
		cache:    cfg.Cache,
		fallback: fallback,
		log:      cfg.Logger,
	}, nil
}

// ListProducts returns the product set, preferring the cache, then the
// upstream API, then the fallback dataset.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	if s.cache != nil {
		var cached []Product
		if ok, err := s.cache.GetJSON(ctx, listCacheKey, &cached); err == nil && ok {
			obs.CountCatalogFetch("cache", "hit")
			return cached, nil
		}
	}
	rows, err := s.fetcher.FetchProducts(ctx)
	if err != nil {
		obs.CountCatalogFetch("upstream", "error")
		s.log.Warn().Err(err).Msg("product fetch failed, serving fallback dataset")
		return s.fallback, nil
	}
	obs.CountCatalogFetch("upstream", "ok")
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, listCacheKey, rows); err != nil {
			s.log.Warn().Err(err).Msg("product cache write failed")
		}
	}
	return rows, nil
}

// GetProduct returns one product by id. An upstream outage falls back to the
// built-in dataset; an id unknown to both yields ErrNotFound.
func (s *Service) GetProduct(ctx context.Context, id int64) (Product, error) {
	key := detailCachePrefix + strconv.FormatInt(id, 10)
	if s.cache != nil {
		var cached Product
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			obs.CountCatalogFetch("cache", "hit")
			return cached, nil
		}
	}
	p, err := s.fetcher.FetchProduct(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			obs.CountCatalogFetch("upstream", "not_found")
			return Product{}, notFound(err)
		}
		obs.CountCatalogFetch("upstream", "error")
		s.log.Warn().Err(err).Int64("product_id", id).Msg("product fetch failed, trying fallback dataset")
		for _, fb := range s.fallback {
			if fb.ID == id {
				return fb, nil
			}
		}
		return Product{}, notFound(ErrNotFound)
	}
	obs.CountCatalogFetch("upstream", "ok")
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, p); err != nil {
			s.log.Warn().Err(err).Msg("product cache write failed")
		}
	}
	return p, nil
}

// notFound wraps ErrNotFound so handlers get a status mapping and callers can
// still match the sentinel with errors.Is.
func notFound(err error) error {
	return common.NewAppError("NOT_FOUND", "product not found", http.StatusNotFound, err)
}
