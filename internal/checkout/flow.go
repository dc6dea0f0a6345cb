package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"orchid-storefront/internal/cart"
	"orchid-storefront/internal/domain"
)

// Step is a checkout stage. The flow moves strictly forward; the only
// backward transition is review to shipping.
type Step int

const (
	StepShipping Step = iota
	StepReview
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepReview:
		return "review"
	case StepConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

var (
	ErrNotOpen     = errors.New("checkout flow is not open")
	ErrWrongStep   = errors.New("operation not valid for current step")
	ErrNotSignedIn = errors.New("checkout requires an authenticated session")
	ErrEmptyCart   = errors.New("checkout requires a non-empty cart")
	ErrInvalidForm = errors.New("shipping information is invalid")
)

// Identity is the slice of the session manager the flow needs.
type Identity interface {
	Current() (domain.User, bool)
}

// OrderPlacer is the slice of the API client the flow needs.
type OrderPlacer interface {
	Create(ctx context.Context, order domain.OrderWrite) (string, error)
}

// Flow walks a cart and a session through shipping, review and
// confirmation. It exists only while a checkout is in progress and is
// never persisted.
type Flow struct {
	session Identity
	cart    *cart.Store
	orders  OrderPlacer
	policy  Policy
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	open     bool
	step     Step
	shipping *ShippingInfo
	orderID  string
}

// NewFlow creates a closed checkout flow.
func NewFlow(session Identity, cartStore *cart.Store, orders OrderPlacer, policy Policy, logger *zap.Logger) *Flow {
	return &Flow{
		session: session,
		cart:    cartStore,
		orders:  orders,
		policy:  policy,
		logger:  logger,
		now:     time.Now,
	}
}

// Open starts the flow at the shipping step. It refuses to open for an
// unauthenticated session or an empty cart. The shipping form is seeded
// from the session identity once per open, and only when nothing has been
// entered yet.
func (f *Flow) Open() error {
	user, ok := f.session.Current()
	if !ok {
		return ErrNotSignedIn
	}
	if f.cart.IsEmpty() {
		return ErrEmptyCart
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.open = true
	f.step = StepShipping
	f.orderID = ""

	if f.shipping == nil {
		firstName, lastName := splitDisplayName(user.Name)
		f.shipping = &ShippingInfo{
			FirstName: firstName,
			LastName:  lastName,
			Email:     user.Email,
			Country:   "US",
		}
	}
	return nil
}

// Close resets the flow completely: step back to shipping, shipping data
// cleared. Closing is the only way out of the confirmation step.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.step = StepShipping
	f.shipping = nil
	f.orderID = ""
}

// IsOpen reports whether the flow is in progress.
func (f *Flow) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Step returns the current stage.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Shipping returns the shipping info entered (or seeded) so far.
func (f *Flow) Shipping() (ShippingInfo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.shipping == nil {
		return ShippingInfo{}, false
	}
	return *f.shipping, true
}

// SubmitShipping validates info and, when valid, stores it and advances to
// review. Validation failure blocks the transition and returns per-field
// messages; the flow never partially advances.
func (f *Flow) SubmitShipping(info ShippingInfo) (FieldErrors, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.open {
		return nil, ErrNotOpen
	}
	if f.step != StepShipping {
		return nil, ErrWrongStep
	}

	if errs := ValidateShipping(info); len(errs) > 0 {
		return errs, ErrInvalidForm
	}

	f.shipping = &info
	f.step = StepReview
	return nil, nil
}

// Back returns from review to shipping, keeping the entered data.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.open {
		return ErrNotOpen
	}
	if f.step != StepReview {
		return ErrWrongStep
	}
	f.step = StepShipping
	return nil
}

// Totals derives the checkout amounts from the current cart subtotal.
func (f *Flow) Totals() Totals {
	return f.policy.Totals(f.cart.State().Subtotal)
}

// PlaceOrder submits the order built from the current cart and session. On
// success the cart is cleared and the flow advances to confirmation. On
// failure the flow stays on review and the cart is untouched; retry is the
// caller submitting again.
func (f *Flow) PlaceOrder(ctx context.Context) error {
	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return ErrNotOpen
	}
	if f.step != StepReview {
		f.mu.Unlock()
		return ErrWrongStep
	}
	f.mu.Unlock()

	user, ok := f.session.Current()
	if !ok {
		return ErrNotSignedIn
	}

	state := f.cart.State()
	if len(state.Lines) == 0 {
		return ErrEmptyCart
	}

	details := make([]domain.OrderDetailWrite, 0, len(state.Lines))
	for _, line := range state.Lines {
		details = append(details, domain.OrderDetailWrite{
			OrchidID: line.Orchid.ID,
			Quantity: line.Quantity,
			Price:    line.Orchid.Price,
		})
	}

	order := domain.OrderWrite{
		AccountID:    user.ID,
		OrderDate:    f.now().UTC(),
		Status:       domain.OrderStatusPending,
		TotalAmount:  f.policy.Totals(state.Subtotal).Total,
		OrderDetails: details,
	}

	orderID, err := f.orders.Create(ctx, order)
	if err != nil {
		f.logger.Warn("Order submission failed", zap.Error(err))
		return fmt.Errorf("failed to place order: %w", err)
	}

	// Cart is cleared only on confirmed submission
	f.cart.Clear()

	f.mu.Lock()
	f.orderID = orderID
	f.step = StepConfirmation
	f.mu.Unlock()

	f.logger.Info("Order placed",
		zap.String("order_id", orderID),
		zap.String("account_id", user.ID),
	)
	return nil
}

// OrderID returns the id assigned to the placed order, once on the
// confirmation step.
func (f *Flow) OrderID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderID
}

// splitDisplayName splits a display name on the first space.
func splitDisplayName(name string) (first, last string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	first = parts[0]
	if len(parts) == 2 {
		last = parts[1]
	}
	return first, last
}
