package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"orchid-storefront/internal/domain"
)

// OrderService talks to the order endpoints.
type OrderService struct {
	client *Client
}

// Create submits an order and returns the id assigned by the backend.
func (s *OrderService) Create(ctx context.Context, order domain.OrderWrite) (string, error) {
	var id string
	err := s.client.do(ctx, http.MethodPost, "/api/orders", nil, order, &id)
	return id, err
}

// Search returns a page of orders matching the given filters.
func (s *OrderService) Search(ctx context.Context, params domain.OrderSearch) (domain.Page[domain.Order], error) {
	query := url.Values{}
	if params.ID != "" {
		query.Set("id", params.ID)
	}
	if params.AccountID != "" {
		query.Set("accountId", params.AccountID)
	}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	query.Set("page", strconv.Itoa(params.Page))
	if params.Size > 0 {
		query.Set("size", strconv.Itoa(params.Size))
	}
	for _, sort := range params.Sort {
		query.Add("sort", sort)
	}

	var page domain.Page[domain.Order]
	err := s.client.do(ctx, http.MethodGet, "/api/orders/search", query, nil, &page)
	return page, err
}

// DetailsByOrder returns the line items of an order.
func (s *OrderService) DetailsByOrder(ctx context.Context, orderID string) ([]domain.OrderDetail, error) {
	var details []domain.OrderDetail
	err := s.client.do(ctx, http.MethodGet, "/api/orders/details/"+orderID, nil, nil, &details)
	return details, err
}

// Delete removes an order.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/orders/"+id, nil, nil, nil)
}
