package api

import (
	"context"
	"net/http"

	"orchid-storefront/internal/domain"
)

// CategoryService talks to the category endpoints.
type CategoryService struct {
	client *Client
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := s.client.do(ctx, http.MethodGet, "/api/categories", nil, nil, &categories)
	return categories, err
}

// Get returns a single category by id.
func (s *CategoryService) Get(ctx context.Context, id string) (domain.Category, error) {
	var category domain.Category
	err := s.client.do(ctx, http.MethodGet, "/api/categories/"+id, nil, nil, &category)
	return category, err
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, name string) (domain.Category, error) {
	var category domain.Category
	err := s.client.do(ctx, http.MethodPost, "/api/categories", nil, domain.Category{Name: name}, &category)
	return category, err
}

// Update renames a category.
func (s *CategoryService) Update(ctx context.Context, id, name string) (domain.Category, error) {
	var category domain.Category
	err := s.client.do(ctx, http.MethodPut, "/api/categories/"+id, nil, domain.Category{Name: name}, &category)
	return category, err
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/categories/"+id, nil, nil, nil)
}
