package stubserver

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"orchid-storefront/internal/domain"
)

const bcryptCost = 10

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountExists        = errors.New("account with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrOrchidNotFound       = errors.New("orchid not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

type account struct {
	domain.Account
	passwordHash string
}

// Store holds all stub backend state in memory. It exists so the client
// has a faithful contract to develop and test against; nothing survives a
// restart.
type Store struct {
	mu            sync.RWMutex
	accounts      map[string]*account // keyed by email
	orchids       map[string]domain.Orchid
	categories    map[string]domain.Category
	orders        map[string]domain.Order
	details       map[string][]domain.OrderDetail // keyed by order id
	refreshTokens map[string]string               // token -> account email
}

func NewStore() *Store {
	return &Store{
		accounts:      make(map[string]*account),
		orchids:       make(map[string]domain.Orchid),
		categories:    make(map[string]domain.Category),
		orders:        make(map[string]domain.Order),
		details:       make(map[string][]domain.OrderDetail),
		refreshTokens: make(map[string]string),
	}
}

// CreateAccount registers a new account with a bcrypt-hashed password.
func (s *Store) CreateAccount(name, email, password, roleName string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[email]; exists {
		return domain.Account{}, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return domain.Account{}, err
	}

	acc := &account{
		Account: domain.Account{
			ID:       uuid.New().String(),
			Name:     name,
			Email:    email,
			RoleID:   uuid.New().String(),
			RoleName: roleName,
		},
		passwordHash: string(hash),
	}
	s.accounts[email] = acc
	return acc.Account, nil
}

// Authenticate verifies credentials and returns the matching account.
func (s *Store) Authenticate(email, password string) (domain.Account, error) {
	s.mu.RLock()
	acc, exists := s.accounts[email]
	s.mu.RUnlock()

	if !exists {
		return domain.Account{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(password)); err != nil {
		return domain.Account{}, ErrInvalidCredentials
	}
	return acc.Account, nil
}

// FindAccountByEmail returns the account record for an email.
func (s *Store) FindAccountByEmail(email string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, exists := s.accounts[email]
	if !exists {
		return domain.Account{}, ErrAccountNotFound
	}
	return acc.Account, nil
}

// SearchAccounts returns a page of accounts matching the filters.
func (s *Store) SearchAccounts(params domain.AccountSearch) domain.Page[domain.Account] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if params.ID != "" && acc.ID != params.ID {
			continue
		}
		if params.Name != "" && !containsFold(acc.Name, params.Name) {
			continue
		}
		if params.Email != "" && !containsFold(acc.Email, params.Email) {
			continue
		}
		if params.RoleName != "" && acc.RoleName != params.RoleName {
			continue
		}
		matched = append(matched, acc.Account)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Email < matched[j].Email })
	return domain.PageOf(matched, params.Page, params.Size)
}

// IssueRefreshToken mints an opaque refresh token for an account.
func (s *Store) IssueRefreshToken(email string) string {
	token := uuid.New().String()
	s.mu.Lock()
	s.refreshTokens[token] = email
	s.mu.Unlock()
	return token
}

// RedeemRefreshToken resolves a refresh token to its account.
func (s *Store) RedeemRefreshToken(token string) (domain.Account, error) {
	s.mu.RLock()
	email, exists := s.refreshTokens[token]
	s.mu.RUnlock()

	if !exists {
		return domain.Account{}, ErrRefreshTokenNotFound
	}
	return s.FindAccountByEmail(email)
}

// CreateOrchid adds an orchid and returns its id.
func (s *Store) CreateOrchid(w domain.OrchidWrite) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, exists := s.categories[w.CategoryID]
	if !exists {
		return "", ErrCategoryNotFound
	}

	orchid := domain.Orchid{
		ID:           uuid.New().String(),
		Name:         w.Name,
		Description:  w.Description,
		IsNatural:    w.IsNatural,
		URL:          w.URL,
		Price:        w.Price,
		CategoryName: category.Name,
	}
	s.orchids[orchid.ID] = orchid
	return orchid.ID, nil
}

// UpdateOrchid replaces an orchid's attributes.
func (s *Store) UpdateOrchid(id string, w domain.OrchidWrite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orchids[id]; !exists {
		return ErrOrchidNotFound
	}
	category, exists := s.categories[w.CategoryID]
	if !exists {
		return ErrCategoryNotFound
	}

	s.orchids[id] = domain.Orchid{
		ID:           id,
		Name:         w.Name,
		Description:  w.Description,
		IsNatural:    w.IsNatural,
		URL:          w.URL,
		Price:        w.Price,
		CategoryName: category.Name,
	}
	return nil
}

// DeleteOrchid removes an orchid.
func (s *Store) DeleteOrchid(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orchids[id]; !exists {
		return ErrOrchidNotFound
	}
	delete(s.orchids, id)
	return nil
}

// SearchOrchids returns a page of orchids matching the filters.
func (s *Store) SearchOrchids(params domain.OrchidSearch) domain.Page[domain.Orchid] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Orchid, 0, len(s.orchids))
	for _, o := range s.orchids {
		if params.ID != "" && o.ID != params.ID {
			continue
		}
		if params.Name != "" && !containsFold(o.Name, params.Name) {
			continue
		}
		if params.Description != "" && !containsFold(o.Description, params.Description) {
			continue
		}
		if params.IsNatural != nil && o.IsNatural != *params.IsNatural {
			continue
		}
		if params.MinPrice != nil && o.Price.LessThan(*params.MinPrice) {
			continue
		}
		if params.MaxPrice != nil && o.Price.GreaterThan(*params.MaxPrice) {
			continue
		}
		if params.CategoryName != "" && !strings.EqualFold(o.CategoryName, params.CategoryName) {
			continue
		}
		matched = append(matched, o)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return domain.PageOf(matched, params.Page, params.Size)
}

// ListCategories returns all categories sorted by name.
func (s *Store) ListCategories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories
}

// GetCategory returns a category by id.
func (s *Store) GetCategory(id string) (domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.categories[id]
	if !exists {
		return domain.Category{}, ErrCategoryNotFound
	}
	return c, nil
}

// CreateCategory adds a category.
func (s *Store) CreateCategory(name string) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := domain.Category{ID: uuid.New().String(), Name: name}
	s.categories[c.ID] = c
	return c
}

// UpdateCategory renames a category.
func (s *Store) UpdateCategory(id, name string) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.categories[id]
	if !exists {
		return domain.Category{}, ErrCategoryNotFound
	}
	c.Name = name
	s.categories[id] = c
	return c, nil
}

// DeleteCategory removes a category.
func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[id]; !exists {
		return ErrCategoryNotFound
	}
	delete(s.categories, id)
	return nil
}

// CreateOrder stores an order and its line items, returning the order id.
func (s *Store) CreateOrder(w domain.OrderWrite) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := domain.Order{
		ID:          uuid.New().String(),
		AccountID:   w.AccountID,
		OrderDate:   w.OrderDate,
		Status:      w.Status,
		TotalAmount: w.TotalAmount,
	}
	s.orders[order.ID] = order

	details := make([]domain.OrderDetail, 0, len(w.OrderDetails))
	for _, d := range w.OrderDetails {
		details = append(details, domain.OrderDetail{
			ID:       uuid.New().String(),
			OrderID:  order.ID,
			OrchidID: d.OrchidID,
			Quantity: d.Quantity,
			Price:    d.Price,
		})
	}
	s.details[order.ID] = details
	return order.ID
}

// SearchOrders returns a page of orders matching the filters.
func (s *Store) SearchOrders(params domain.OrderSearch) domain.Page[domain.Order] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if params.ID != "" && o.ID != params.ID {
			continue
		}
		if params.AccountID != "" && o.AccountID != params.AccountID {
			continue
		}
		if params.Status != "" && !strings.EqualFold(o.Status, params.Status) {
			continue
		}
		matched = append(matched, o)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].OrderDate.After(matched[j].OrderDate) })
	return domain.PageOf(matched, params.Page, params.Size)
}

// OrderDetails returns the line items of an order.
func (s *Store) OrderDetails(orderID string) ([]domain.OrderDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	details, exists := s.details[orderID]
	if !exists {
		return nil, ErrOrderNotFound
	}
	return details, nil
}

// DeleteOrder removes an order and its line items.
func (s *Store) DeleteOrder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[id]; !exists {
		return ErrOrderNotFound
	}
	delete(s.orders, id)
	delete(s.details, id)
	return nil
}

// Seed populates the store with an admin account, a customer account and
// a small catalog for local development.
func (s *Store) Seed() {
	s.CreateAccount("Admin User", "admin@orchid.store", "admin12345", "ROLE_ADMIN")
	s.CreateAccount("Jane Bloom", "jane@orchid.store", "password123", "ROLE_USER")

	tropical := s.CreateCategory("Tropical")
	hybrid := s.CreateCategory("Hybrid")

	s.CreateOrchid(domain.OrchidWrite{
		Name:        "Phalaenopsis Aurora",
		Description: "Moth orchid with pale pink blooms",
		IsNatural:   true,
		URL:         "https://images.orchid.store/aurora.jpg",
		Price:       decimal.RequireFromString("49.99"),
		CategoryID:  tropical.ID,
	})
	s.CreateOrchid(domain.OrchidWrite{
		Name:        "Cattleya Midnight",
		Description: "Deep purple hybrid cattleya",
		IsNatural:   false,
		URL:         "https://images.orchid.store/midnight.jpg",
		Price:       decimal.RequireFromString("74.50"),
		CategoryID:  hybrid.ID,
	})
	s.CreateOrchid(domain.OrchidWrite{
		Name:        "Dendrobium Snowfall",
		Description: "White cascading sprays",
		IsNatural:   true,
		URL:         "https://images.orchid.store/snowfall.jpg",
		Price:       decimal.RequireFromString("32.00"),
		CategoryID:  tropical.ID,
	})
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
