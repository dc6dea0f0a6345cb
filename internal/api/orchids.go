package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"orchid-storefront/internal/cache"
	"orchid-storefront/internal/domain"
)

// searchCacheTTL bounds how stale a cached catalog page may be.
const searchCacheTTL = 5 * time.Minute

// OrchidService talks to the catalog endpoints. Search results are cached
// per serialized query for a short window.
type OrchidService struct {
	client *Client
	cache  *cache.TTL[domain.Page[domain.Orchid]]
}

func newOrchidService(c *Client) *OrchidService {
	return &OrchidService{
		client: c,
		cache:  cache.NewTTL[domain.Page[domain.Orchid]](searchCacheTTL),
	}
}

func searchQuery(params domain.OrchidSearch) url.Values {
	query := url.Values{}
	if params.ID != "" {
		query.Set("id", params.ID)
	}
	if params.Name != "" {
		query.Set("name", params.Name)
	}
	if params.Description != "" {
		query.Set("description", params.Description)
	}
	if params.IsNatural != nil {
		query.Set("isNatural", strconv.FormatBool(*params.IsNatural))
	}
	if params.MinPrice != nil {
		query.Set("minPrice", params.MinPrice.String())
	}
	if params.MaxPrice != nil {
		query.Set("maxPrice", params.MaxPrice.String())
	}
	if params.CategoryName != "" {
		query.Set("categoryName", params.CategoryName)
	}
	query.Set("page", strconv.Itoa(params.Page))
	if params.Size > 0 {
		query.Set("size", strconv.Itoa(params.Size))
	}
	for _, sort := range params.Sort {
		query.Add("sort", sort)
	}
	return query
}

// Search returns a page of orchids matching the given filters. The encoded
// query doubles as the cache key.
func (s *OrchidService) Search(ctx context.Context, params domain.OrchidSearch) (domain.Page[domain.Orchid], error) {
	query := searchQuery(params)
	key := query.Encode()

	if page, ok := s.cache.Get(key); ok {
		return page, nil
	}

	var page domain.Page[domain.Orchid]
	if err := s.client.do(ctx, http.MethodGet, "/api/orchids/search", query, nil, &page); err != nil {
		return domain.Page[domain.Orchid]{}, err
	}

	s.cache.Set(key, page)
	return page, nil
}

// GetByID fetches a single orchid through the search endpoint. Returns nil
// when no orchid matches.
func (s *OrchidService) GetByID(ctx context.Context, id string) (*domain.Orchid, error) {
	page, err := s.Search(ctx, domain.OrchidSearch{ID: id})
	if err != nil {
		return nil, err
	}
	if len(page.Content) == 0 {
		return nil, nil
	}
	return &page.Content[0], nil
}

// Create adds an orchid to the catalog and returns its id. Mutations
// invalidate the search cache.
func (s *OrchidService) Create(ctx context.Context, orchid domain.OrchidWrite) (string, error) {
	var id string
	if err := s.client.do(ctx, http.MethodPost, "/api/orchids", nil, orchid, &id); err != nil {
		return "", err
	}
	s.cache.Purge()
	return id, nil
}

// Update replaces an orchid's attributes.
func (s *OrchidService) Update(ctx context.Context, id string, orchid domain.OrchidWrite) error {
	if err := s.client.do(ctx, http.MethodPut, "/api/orchids/"+id, nil, orchid, nil); err != nil {
		return err
	}
	s.cache.Purge()
	return nil
}

// Delete removes an orchid from the catalog.
func (s *OrchidService) Delete(ctx context.Context, id string) error {
	if err := s.client.do(ctx, http.MethodDelete, "/api/orchids/"+id, nil, nil, nil); err != nil {
		return err
	}
	s.cache.Purge()
	return nil
}
