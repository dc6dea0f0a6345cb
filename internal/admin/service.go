package admin

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"orchid-storefront/internal/api"
	"orchid-storefront/internal/domain"
)

// overviewPageSize is how many orders are fetched per page when summing
// revenue for the overview.
const overviewPageSize = 50

// Service backs the admin tables: paginated listings over the search
// endpoints plus the dashboard overview. All authority checks live in the
// backend; this is a read-mostly query layer.
type Service struct {
	client *api.Client
	logger *zap.Logger
}

func NewService(client *api.Client, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Orchids returns one page of the product table.
func (s *Service) Orchids(ctx context.Context, params domain.OrchidSearch) (domain.Page[domain.Orchid], error) {
	return s.client.Orchids.Search(ctx, params)
}

// Accounts returns one page of the user table.
func (s *Service) Accounts(ctx context.Context, params domain.AccountSearch) (domain.Page[domain.Account], error) {
	return s.client.Accounts.Search(ctx, params)
}

// Orders returns one page of the order table.
func (s *Service) Orders(ctx context.Context, params domain.OrderSearch) (domain.Page[domain.Order], error) {
	return s.client.Orders.Search(ctx, params)
}

// Categories returns the full category list.
func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.client.Categories.List(ctx)
}

// Overview is the dashboard summary.
type Overview struct {
	TotalOrchids    int
	TotalCategories int
	TotalAccounts   int
	TotalOrders     int
	Revenue         decimal.Decimal
}

// Overview aggregates entity counts from the pagination envelopes and sums
// order totals for revenue.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	overview := Overview{Revenue: decimal.Zero}

	orchids, err := s.client.Orchids.Search(ctx, domain.OrchidSearch{Size: 1})
	if err != nil {
		return Overview{}, fmt.Errorf("failed to count orchids: %w", err)
	}
	overview.TotalOrchids = orchids.TotalElements

	categories, err := s.client.Categories.List(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("failed to list categories: %w", err)
	}
	overview.TotalCategories = len(categories)

	accounts, err := s.client.Accounts.Search(ctx, domain.AccountSearch{Size: 1})
	if err != nil {
		return Overview{}, fmt.Errorf("failed to count accounts: %w", err)
	}
	overview.TotalAccounts = accounts.TotalElements

	for page := 0; ; page++ {
		orders, err := s.client.Orders.Search(ctx, domain.OrderSearch{Page: page, Size: overviewPageSize})
		if err != nil {
			return Overview{}, fmt.Errorf("failed to fetch orders page %d: %w", page, err)
		}
		if page == 0 {
			overview.TotalOrders = orders.TotalElements
		}
		for _, order := range orders.Content {
			overview.Revenue = overview.Revenue.Add(order.TotalAmount)
		}
		if orders.Last || len(orders.Content) == 0 {
			break
		}
	}

	s.logger.Debug("Computed admin overview",
		zap.Int("orchids", overview.TotalOrchids),
		zap.Int("orders", overview.TotalOrders),
	)
	return overview, nil
}
