package stubserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"orchid-storefront/internal/domain"
)

var validate = validator.New()

// decodeAndValidate decodes a JSON body and validates its tags.
func decodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type authResponse struct {
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// Handlers serves the stub backend routes.
type Handlers struct {
	store     *Store
	jwtSecret string
	logger    *zap.Logger
}

func NewHandlers(store *Store, jwtSecret string, logger *zap.Logger) *Handlers {
	return &Handlers{store: store, jwtSecret: jwtSecret, logger: logger}
}

// RegisterRoutes wires all stub endpoints onto the router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	auth := authMiddleware(h.jwtSecret, h.logger)
	admin := requireAdmin(h.logger)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Post("/refresh", h.Refresh)
	})

	r.Route("/api/accounts", func(r chi.Router) {
		r.Use(auth)
		r.Get("/email", h.FindAccountByEmail)
		r.Get("/search", h.SearchAccounts)
	})

	r.Route("/api/orchids", func(r chi.Router) {
		r.Get("/search", h.SearchOrchids)
		r.Group(func(r chi.Router) {
			r.Use(auth, admin)
			r.Post("/", h.CreateOrchid)
			r.Put("/{id}", h.UpdateOrchid)
			r.Delete("/{id}", h.DeleteOrchid)
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/{id}", h.GetCategory)
		r.Group(func(r chi.Router) {
			r.Use(auth, admin)
			r.Post("/", h.CreateCategory)
			r.Put("/{id}", h.UpdateCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(auth)
		r.Post("/", h.CreateOrder)
		r.Get("/search", h.SearchOrders)
		r.Get("/details/{orderID}", h.OrderDetails)
		r.With(admin).Delete("/{id}", h.DeleteOrder)
	})
}

// Login authenticates and returns a token pair plus the email, not the
// full profile. The profile is fetched separately by the client.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.String("email", req.Email))
		respondWithError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	h.respondWithTokens(w, acc)
}

// Register creates an account and returns a token pair for it.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := h.store.CreateAccount(req.Name, req.Email, req.Password, "ROLE_USER")
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			respondWithError(w, http.StatusConflict, "account with this email already exists")
			return
		}
		h.logger.Error("Registration failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	h.respondWithTokens(w, acc)
}

// Refresh exchanges a refresh token for a fresh token pair.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := h.store.RedeemRefreshToken(req.RefreshToken)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	h.respondWithTokens(w, acc)
}

func (h *Handlers) respondWithTokens(w http.ResponseWriter, acc domain.Account) {
	accessToken, err := generateAccessToken(h.jwtSecret, acc)
	if err != nil {
		h.logger.Error("Failed to generate access token", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	respondWithJSON(w, http.StatusOK, authResponse{
		Email:        acc.Email,
		AccessToken:  accessToken,
		RefreshToken: h.store.IssueRefreshToken(acc.Email),
	})
}

// FindAccountByEmail returns the full account record for an email.
func (h *Handlers) FindAccountByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		respondWithError(w, http.StatusBadRequest, "email parameter is required")
		return
	}

	acc, err := h.store.FindAccountByEmail(email)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "account not found")
		return
	}
	respondWithJSON(w, http.StatusOK, acc)
}

// SearchAccounts returns a page of accounts.
func (h *Handlers) SearchAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := domain.AccountSearch{
		ID:       q.Get("id"),
		Name:     q.Get("name"),
		Email:    q.Get("email"),
		RoleName: q.Get("roleName"),
		Page:     atoiOrZero(q.Get("page")),
		Size:     atoiOrZero(q.Get("size")),
	}
	respondWithJSON(w, http.StatusOK, h.store.SearchAccounts(params))
}

// SearchOrchids returns a page of the catalog.
func (h *Handlers) SearchOrchids(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := domain.OrchidSearch{
		ID:           q.Get("id"),
		Name:         q.Get("name"),
		Description:  q.Get("description"),
		CategoryName: q.Get("categoryName"),
		Page:         atoiOrZero(q.Get("page")),
		Size:         atoiOrZero(q.Get("size")),
	}
	if v := q.Get("isNatural"); v != "" {
		natural := v == "true"
		params.IsNatural = &natural
	}
	if v := q.Get("minPrice"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			params.MinPrice = &d
		}
	}
	if v := q.Get("maxPrice"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			params.MaxPrice = &d
		}
	}
	respondWithJSON(w, http.StatusOK, h.store.SearchOrchids(params))
}

// CreateOrchid adds an orchid and returns its id.
func (h *Handlers) CreateOrchid(w http.ResponseWriter, r *http.Request) {
	var req domain.OrchidWrite
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.store.CreateOrchid(req)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			respondWithError(w, http.StatusBadRequest, "unknown category")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to create orchid")
		return
	}
	respondWithJSON(w, http.StatusCreated, id)
}

// UpdateOrchid replaces an orchid's attributes.
func (h *Handlers) UpdateOrchid(w http.ResponseWriter, r *http.Request) {
	var req domain.OrchidWrite
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.UpdateOrchid(chi.URLParam(r, "id"), req); err != nil {
		if errors.Is(err, ErrOrchidNotFound) {
			respondWithError(w, http.StatusNotFound, "orchid not found")
			return
		}
		if errors.Is(err, ErrCategoryNotFound) {
			respondWithError(w, http.StatusBadRequest, "unknown category")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to update orchid")
		return
	}
	respondWithJSON(w, http.StatusOK, chi.URLParam(r, "id"))
}

// DeleteOrchid removes an orchid.
func (h *Handlers) DeleteOrchid(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteOrchid(chi.URLParam(r, "id")); err != nil {
		respondWithError(w, http.StatusNotFound, "orchid not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories returns all categories.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.ListCategories())
}

// GetCategory returns one category.
func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetCategory(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "category not found")
		return
	}
	respondWithJSON(w, http.StatusOK, c)
}

// CreateCategory adds a category.
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	respondWithJSON(w, http.StatusCreated, h.store.CreateCategory(req.Name))
}

// UpdateCategory renames a category.
func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.store.UpdateCategory(chi.URLParam(r, "id"), req.Name)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "category not found")
		return
	}
	respondWithJSON(w, http.StatusOK, c)
}

// DeleteCategory removes a category.
func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCategory(chi.URLParam(r, "id")); err != nil {
		respondWithError(w, http.StatusNotFound, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateOrder stores an order and returns its id.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderWrite
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.AccountID == "" || len(req.OrderDetails) == 0 {
		respondWithError(w, http.StatusBadRequest, "accountId and orderDetails are required")
		return
	}

	id := h.store.CreateOrder(req)
	if requester, ok := accountIDFrom(r.Context()); ok {
		h.logger.Info("Order created",
			zap.String("order_id", id),
			zap.String("requested_by", requester),
		)
	}
	respondWithJSON(w, http.StatusCreated, id)
}

// SearchOrders returns a page of orders.
func (h *Handlers) SearchOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := domain.OrderSearch{
		ID:        q.Get("id"),
		AccountID: q.Get("accountId"),
		Status:    q.Get("status"),
		Page:      atoiOrZero(q.Get("page")),
		Size:      atoiOrZero(q.Get("size")),
	}
	respondWithJSON(w, http.StatusOK, h.store.SearchOrders(params))
}

// OrderDetails returns the line items of an order.
func (h *Handlers) OrderDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.store.OrderDetails(chi.URLParam(r, "orderID"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "order not found")
		return
	}
	respondWithJSON(w, http.StatusOK, details)
}

// DeleteOrder removes an order.
func (h *Handlers) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteOrder(chi.URLParam(r, "id")); err != nil {
		respondWithError(w, http.StatusNotFound, "order not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
