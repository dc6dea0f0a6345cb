package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orchid-storefront/internal/api"
	"orchid-storefront/internal/config"
	"orchid-storefront/internal/domain"
	"orchid-storefront/internal/events"
	"orchid-storefront/internal/sessionstore"
)

func newService(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := sessionstore.NewMemoryStore()
	cfg := config.APIConfig{BaseURL: server.URL, Timeout: 5 * time.Second}
	client := api.NewClient(cfg, api.StoreTokenSource(store), store, events.NewBus(), zap.NewNop())
	return NewService(client, zap.NewNop())
}

func TestOverviewSumsRevenueAcrossPages(t *testing.T) {
	orders := make([]domain.Order, 120)
	for i := range orders {
		orders[i] = domain.Order{
			ID:          "order",
			Status:      domain.OrderStatusPending,
			TotalAmount: decimal.RequireFromString("10.50"),
		}
	}

	orderPages := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orchids/search", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.PageOf(make([]domain.Orchid, 7), 0, 1))
	})
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]domain.Category{{Name: "Tropical"}, {Name: "Hybrid"}})
	})
	mux.HandleFunc("/api/accounts/search", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.PageOf(make([]domain.Account, 3), 0, 1))
	})
	mux.HandleFunc("/api/orders/search", func(w http.ResponseWriter, r *http.Request) {
		orderPages++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		json.NewEncoder(w).Encode(domain.PageOf(orders, page, 50))
	})

	svc := newService(t, mux)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, overview.TotalOrchids)
	assert.Equal(t, 2, overview.TotalCategories)
	assert.Equal(t, 3, overview.TotalAccounts)
	assert.Equal(t, 120, overview.TotalOrders)
	assert.Equal(t, "1260.00", overview.Revenue.StringFixed(2))
	assert.Equal(t, 3, orderPages, "120 orders at 50 per page is three pages")
}

func TestOverviewPropagatesErrors(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"backend down"}`))
	})

	svc := newService(t, handler)

	_, err := svc.Overview(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count orchids")
}

func TestListingsPassThrough(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PENDING", r.URL.Query().Get("status"))
		json.NewEncoder(w).Encode(domain.PageOf([]domain.Order{{ID: "o-1"}}, 0, 10))
	})

	svc := newService(t, mux)

	page, err := svc.Orders(context.Background(), domain.OrderSearch{Status: "PENDING"})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "o-1", page.Content[0].ID)
}
