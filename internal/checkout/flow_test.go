package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orchid-storefront/internal/cart"
	"orchid-storefront/internal/domain"
)

type fakeIdentity struct {
	user *domain.User
}

func (f fakeIdentity) Current() (domain.User, bool) {
	if f.user == nil {
		return domain.User{}, false
	}
	return *f.user, true
}

type fakeOrders struct {
	fail    bool
	created []domain.OrderWrite
}

func (f *fakeOrders) Create(ctx context.Context, order domain.OrderWrite) (string, error) {
	if f.fail {
		return "", errors.New("backend unavailable")
	}
	f.created = append(f.created, order)
	return "order-1", nil
}

func signedInUser() *domain.User {
	return &domain.User{
		ID:    "acc-1",
		Name:  "Jane Q Bloom",
		Email: "jane@orchid.store",
		Role:  domain.RoleCustomer,
	}
}

func filledCart(t *testing.T) *cart.Store {
	t.Helper()
	store := cart.NewStore(cart.NewReducer(), zap.NewNop())
	store.AddItem(domain.Orchid{ID: "o-1", Name: "OrchidA", Price: decimal.NewFromInt(10)}, 2)
	store.AddItem(domain.Orchid{ID: "o-2", Name: "OrchidB", Price: decimal.NewFromInt(20)}, 1)
	return store
}

func newTestFlow(t *testing.T, user *domain.User, cartStore *cart.Store, orders *fakeOrders) *Flow {
	t.Helper()
	return NewFlow(fakeIdentity{user: user}, cartStore, orders, DefaultPolicy(), zap.NewNop())
}

func TestOpenRequiresSessionAndCart(t *testing.T) {
	orders := &fakeOrders{}

	flow := newTestFlow(t, nil, filledCart(t), orders)
	assert.ErrorIs(t, flow.Open(), ErrNotSignedIn)

	empty := cart.NewStore(cart.NewReducer(), zap.NewNop())
	flow = newTestFlow(t, signedInUser(), empty, orders)
	assert.ErrorIs(t, flow.Open(), ErrEmptyCart)

	flow = newTestFlow(t, signedInUser(), filledCart(t), orders)
	require.NoError(t, flow.Open())
	assert.True(t, flow.IsOpen())
	assert.Equal(t, StepShipping, flow.Step())
}

func TestOpenSeedsShippingOncePerFlow(t *testing.T) {
	flow := newTestFlow(t, signedInUser(), filledCart(t), &fakeOrders{})
	require.NoError(t, flow.Open())

	seeded, ok := flow.Shipping()
	require.True(t, ok)
	assert.Equal(t, "Jane", seeded.FirstName)
	assert.Equal(t, "Q Bloom", seeded.LastName)
	assert.Equal(t, "jane@orchid.store", seeded.Email)

	// Entered data survives a re-open, seeding does not overwrite it
	info := validShipping()
	info.FirstName = "Janet"
	_, err := flow.SubmitShipping(info)
	require.NoError(t, err)

	require.NoError(t, flow.Open())
	kept, ok := flow.Shipping()
	require.True(t, ok)
	assert.Equal(t, "Janet", kept.FirstName)
}

func TestInvalidShippingBlocksTransition(t *testing.T) {
	flow := newTestFlow(t, signedInUser(), filledCart(t), &fakeOrders{})
	require.NoError(t, flow.Open())

	info := validShipping()
	info.ZipCode = "1234"

	fieldErrs, err := flow.SubmitShipping(info)
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Contains(t, fieldErrs, "ZipCode")
	assert.Equal(t, StepShipping, flow.Step())
}

func TestBackPreservesShippingData(t *testing.T) {
	flow := newTestFlow(t, signedInUser(), filledCart(t), &fakeOrders{})
	require.NoError(t, flow.Open())

	info := validShipping()
	_, err := flow.SubmitShipping(info)
	require.NoError(t, err)
	require.Equal(t, StepReview, flow.Step())

	require.NoError(t, flow.Back())
	assert.Equal(t, StepShipping, flow.Step())

	kept, ok := flow.Shipping()
	require.True(t, ok)
	assert.Equal(t, info.Address, kept.Address)
}

func TestPlaceOrderSuccessClearsCartAndAdvances(t *testing.T) {
	orders := &fakeOrders{}
	cartStore := filledCart(t)
	flow := newTestFlow(t, signedInUser(), cartStore, orders)

	require.NoError(t, flow.Open())
	_, err := flow.SubmitShipping(validShipping())
	require.NoError(t, err)

	require.NoError(t, flow.PlaceOrder(context.Background()))

	assert.Equal(t, StepConfirmation, flow.Step())
	assert.Equal(t, "order-1", flow.OrderID())
	assert.True(t, cartStore.IsEmpty(), "cart clears only on confirmed submission")

	require.Len(t, orders.created, 1)
	order := orders.created[0]
	assert.Equal(t, "acc-1", order.AccountID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Len(t, order.OrderDetails, 2)
	// subtotal 40 -> shipping 9.99, tax 3.20, total 53.19
	assert.Equal(t, "53.19", order.TotalAmount.Round(2).StringFixed(2))
}

func TestPlaceOrderFailureKeepsCartAndStep(t *testing.T) {
	orders := &fakeOrders{fail: true}
	cartStore := filledCart(t)
	before := cartStore.State()
	flow := newTestFlow(t, signedInUser(), cartStore, orders)

	require.NoError(t, flow.Open())
	_, err := flow.SubmitShipping(validShipping())
	require.NoError(t, err)

	err = flow.PlaceOrder(context.Background())
	assert.Error(t, err)

	assert.Equal(t, StepReview, flow.Step())
	after := cartStore.State()
	assert.Equal(t, before.Lines, after.Lines)
	assert.True(t, before.Subtotal.Equal(after.Subtotal))
}

func TestPlaceOrderRefusedOffReviewStep(t *testing.T) {
	flow := newTestFlow(t, signedInUser(), filledCart(t), &fakeOrders{})
	require.NoError(t, flow.Open())

	assert.ErrorIs(t, flow.PlaceOrder(context.Background()), ErrWrongStep)
}

func TestCloseResetsEverything(t *testing.T) {
	flow := newTestFlow(t, signedInUser(), filledCart(t), &fakeOrders{})
	require.NoError(t, flow.Open())
	_, err := flow.SubmitShipping(validShipping())
	require.NoError(t, err)
	require.NoError(t, flow.PlaceOrder(context.Background()))

	flow.Close()

	assert.False(t, flow.IsOpen())
	assert.Equal(t, StepShipping, flow.Step())
	assert.Equal(t, "", flow.OrderID())
	_, ok := flow.Shipping()
	assert.False(t, ok, "shipping data clears on close")
}

func TestTotalsTrackCartMutations(t *testing.T) {
	cartStore := filledCart(t)
	flow := newTestFlow(t, signedInUser(), cartStore, &fakeOrders{})
	require.NoError(t, flow.Open())

	assert.Equal(t, "53.19", flow.Totals().Round().Total.StringFixed(2))

	// crossing the free-shipping threshold changes the derived totals
	cartStore.SetQuantity("o-2", 4)
	totals := flow.Totals().Round()
	assert.Equal(t, "100.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", totals.Shipping.StringFixed(2))
	assert.Equal(t, "108.00", totals.Total.StringFixed(2))
}
