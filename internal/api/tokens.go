package api

import (
	"orchid-storefront/internal/sessionstore"
)

// storeTokenSource reads the access token from the persisted session store
// on every request, so tokens committed between the two login phases are
// picked up immediately and a cleared store detaches the token without any
// further coordination.
type storeTokenSource struct {
	store sessionstore.Store
}

// StoreTokenSource returns a TokenSource backed by the persisted session
// store.
func StoreTokenSource(store sessionstore.Store) TokenSource {
	return storeTokenSource{store: store}
}

func (s storeTokenSource) AccessToken() string {
	rec, err := s.store.Load()
	if err != nil {
		return ""
	}
	return rec.AccessToken
}
