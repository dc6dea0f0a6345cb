package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orchid-storefront/internal/config"
	"orchid-storefront/internal/domain"
	"orchid-storefront/internal/events"
	"orchid-storefront/internal/sessionstore"
)

type clientFixture struct {
	client  *Client
	store   sessionstore.Store
	bus     *events.Bus
	expired []events.SessionExpired
}

func newClientFixture(t *testing.T, handler http.Handler) *clientFixture {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := sessionstore.NewMemoryStore()
	bus := events.NewBus()

	f := &clientFixture{store: store, bus: bus}
	bus.SubscribeSessionExpired(func(ev events.SessionExpired) {
		f.expired = append(f.expired, ev)
	})

	cfg := config.APIConfig{BaseURL: server.URL, Timeout: 5 * time.Second}
	f.client = NewClient(cfg, StoreTokenSource(store), store, bus, zap.NewNop())
	return f
}

func TestBearerTokenAttachedFromStore(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	f := newClientFixture(t, handler)
	require.NoError(t, f.store.SaveTokens("tok-123", "refresh"))

	_, err := f.client.Categories.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNoBearerWithoutSession(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	f := newClientFixture(t, handler)

	_, err := f.client.Categories.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedExpiresSessionExactlyOnce(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"Unauthorized","message":"token has expired"}}`))
	})

	f := newClientFixture(t, handler)
	require.NoError(t, f.store.SaveTokens("stale", "refresh"))

	_, err := f.client.Categories.List(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	assert.Len(t, f.expired, 1, "one response yields one expiry notification")
	_, loadErr := f.store.Load()
	assert.ErrorIs(t, loadErr, sessionstore.ErrNoSession, "persisted storage fully cleared")
}

func TestForbiddenWithExpiredMessageExpiresSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Token has EXPIRED"}`))
	})

	f := newClientFixture(t, handler)
	require.NoError(t, f.store.SaveTokens("stale", "refresh"))

	_, err := f.client.Categories.List(context.Background())
	assert.Error(t, err)
	assert.Len(t, f.expired, 1, "case-insensitive match on the body message")
}

func TestRejectedLoginDoesNotExpireExistingSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"Unauthorized","message":"invalid email or password"}}`))
	})

	f := newClientFixture(t, handler)
	// Someone is already signed in when a different login attempt fails
	require.NoError(t, f.store.SaveTokens("tok-current", "refresh"))

	_, err := f.client.Auth.Login(context.Background(), "other@orchid.store", "wrong")
	assert.Error(t, err)

	assert.Empty(t, f.expired, "a credential rejection is not a session verdict")
	rec, loadErr := f.store.Load()
	require.NoError(t, loadErr)
	assert.Equal(t, "tok-current", rec.AccessToken, "the signed-in session survives")
}

func TestAnonymousUnauthorizedDoesNotExpireSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"missing authorization header"}`))
	})

	f := newClientFixture(t, handler)

	_, err := f.client.Categories.List(context.Background())
	assert.Error(t, err)
	assert.Empty(t, f.expired, "a request that carried no token cannot expire one")
}

func TestPlainForbiddenDoesNotExpireSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":"Forbidden","message":"insufficient permissions"}}`))
	})

	f := newClientFixture(t, handler)
	require.NoError(t, f.store.SaveTokens("tok", "refresh"))

	_, err := f.client.Categories.List(context.Background())
	assert.Error(t, err)

	assert.Empty(t, f.expired)
	rec, loadErr := f.store.Load()
	require.NoError(t, loadErr, "a plain 403 must not log the user out")
	assert.Equal(t, "tok", rec.AccessToken)
}

func TestSearchResultsAreCached(t *testing.T) {
	requests := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		page := domain.PageOf([]domain.Orchid{{ID: "o-1", Name: "Phalaenopsis"}}, 0, 10)
		json.NewEncoder(w).Encode(page)
	})

	f := newClientFixture(t, handler)
	ctx := context.Background()

	first, err := f.client.Orchids.Search(ctx, domain.OrchidSearch{Name: "phal", Size: 10})
	require.NoError(t, err)
	second, err := f.client.Orchids.Search(ctx, domain.OrchidSearch{Name: "phal", Size: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, requests, "identical searches inside the window hit the cache")
	assert.Equal(t, first, second)

	// Different params miss the cache
	_, err = f.client.Orchids.Search(ctx, domain.OrchidSearch{Name: "phal", Size: 10, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestMutationsInvalidateSearchCache(t *testing.T) {
	requests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orchids/search", func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(domain.PageOf([]domain.Orchid{}, 0, 10))
	})
	mux.HandleFunc("/api/orchids", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode("o-new")
	})

	f := newClientFixture(t, mux)
	ctx := context.Background()

	_, err := f.client.Orchids.Search(ctx, domain.OrchidSearch{})
	require.NoError(t, err)

	_, err = f.client.Orchids.Create(ctx, domain.OrchidWrite{Name: "New"})
	require.NoError(t, err)

	_, err = f.client.Orchids.Search(ctx, domain.OrchidSearch{})
	require.NoError(t, err)
	assert.Equal(t, 2, requests, "a mutation purges cached pages")
}

func TestPaginationEnvelopeDecodes(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"content":[{"id":"o-1","name":"Phalaenopsis","price":"49.99"}],
			"page":2,"size":5,"totalElements":11,"totalPages":3,
			"numberOfElements":1,"first":false,"last":true
		}`))
	})

	f := newClientFixture(t, handler)

	page, err := f.client.Orchids.Search(context.Background(), domain.OrchidSearch{Page: 2, Size: 5})
	require.NoError(t, err)

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 11, page.TotalElements)
	assert.True(t, page.Last)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "49.99", page.Content[0].Price.StringFixed(2))
}

func TestParseAPIErrorShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"flat message", `{"message":"bad things"}`, "bad things"},
		{"flat error string", `{"error":"bad things"}`, "bad things"},
		{"structured envelope", `{"error":{"code":"Conflict","message":"already exists"}}`, "already exists"},
		{"unparseable", `<html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := parseAPIError(http.StatusBadRequest, []byte(tt.body))
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		})
	}
}
