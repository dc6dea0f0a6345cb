package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"orchid-storefront/internal/domain"
)

var ErrAccountNotFound = errors.New("account not found")

// AccountService talks to the accounts endpoints.
type AccountService struct {
	client *Client
}

// FindByEmail looks up the full account record for an email address.
func (s *AccountService) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.Account{}, errors.New("email is required")
	}

	query := url.Values{}
	query.Set("email", email)

	var account domain.Account
	err := s.client.do(ctx, http.MethodGet, "/api/accounts/email", query, nil, &account)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}

	return account, nil
}

// Search returns a page of accounts matching the given filters.
func (s *AccountService) Search(ctx context.Context, params domain.AccountSearch) (domain.Page[domain.Account], error) {
	query := url.Values{}
	if params.ID != "" {
		query.Set("id", params.ID)
	}
	if params.Name != "" {
		query.Set("name", params.Name)
	}
	if params.Email != "" {
		query.Set("email", params.Email)
	}
	if params.RoleName != "" {
		query.Set("roleName", params.RoleName)
	}
	query.Set("page", strconv.Itoa(params.Page))
	if params.Size > 0 {
		query.Set("size", strconv.Itoa(params.Size))
	}
	for _, sort := range params.Sort {
		query.Add("sort", sort)
	}

	var page domain.Page[domain.Account]
	err := s.client.do(ctx, http.MethodGet, "/api/accounts/search", query, nil, &page)
	return page, err
}
