package main

import (
	"context"
	"fmt"

	"orchid-storefront/internal/api"
	"orchid-storefront/internal/cart"
	"orchid-storefront/internal/checkout"
	"orchid-storefront/internal/config"
	"orchid-storefront/internal/domain"
	"orchid-storefront/internal/events"
	"orchid-storefront/internal/logger"
	"orchid-storefront/internal/session"
	"orchid-storefront/internal/sessionstore"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Scripted walkthrough of the client core against a running backend:
// sign in, browse the catalog, fill a cart, and place an order.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Stub.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	store := sessionstore.NewFileStore(cfg.Session.FilePath)
	bus := events.NewBus()
	client := api.NewClient(cfg.API, api.StoreTokenSource(store), store, bus, log)
	sessions := session.NewManager(client.Auth, client.Accounts, store, bus, log)

	policy, err := checkout.PolicyFromConfig(cfg.Checkout)
	if err != nil {
		log.Fatal("Invalid checkout policy", zap.Error(err))
	}

	reducer, err := cart.ReducerFromConfig(cfg.Checkout)
	if err != nil {
		log.Fatal("Invalid cart pricing config", zap.Error(err))
	}
	cartStore := cart.NewStore(reducer, log)
	flow := checkout.NewFlow(sessions, cartStore, client.Orders, policy, log)

	ctx := context.Background()

	if !sessions.Resume() {
		if !sessions.Login(ctx, "jane@orchid.store", "password123") {
			log.Fatal("Login failed")
		}
	}
	user, _ := sessions.Current()
	log.Info("Signed in", zap.String("name", user.Name), zap.String("role", string(user.Role)))

	page, err := client.Orchids.Search(ctx, domain.OrchidSearch{Size: 10})
	if err != nil {
		log.Fatal("Catalog fetch failed", zap.Error(err))
	}
	log.Info("Catalog page",
		zap.Int("orchids", page.NumberOfElements),
		zap.Int("total", page.TotalElements),
	)

	for _, orchid := range page.Content {
		cartStore.AddItem(orchid, 1)
	}
	state := cartStore.State()
	log.Info("Cart filled",
		zap.Int("items", state.ItemCount),
		zap.String("subtotal", state.Subtotal.StringFixed(2)),
	)

	if err := flow.Open(); err != nil {
		log.Fatal("Checkout refused to open", zap.Error(err))
	}

	if fieldErrs, err := flow.SubmitShipping(checkout.ShippingInfo{
		FirstName: "Jane",
		LastName:  "Bloom",
		Email:     user.Email,
		Phone:     "(555) 010-2233",
		Address:   "12 Greenhouse Lane",
		City:      "Portland",
		State:     "OR",
		ZipCode:   "97201",
		Country:   "US",
	}); err != nil {
		log.Fatal("Shipping rejected", zap.Any("fields", fieldErrs))
	}

	totals := flow.Totals().Round()
	log.Info("Order review",
		zap.String("subtotal", totals.Subtotal.StringFixed(2)),
		zap.String("shipping", totals.Shipping.StringFixed(2)),
		zap.String("tax", totals.Tax.StringFixed(2)),
		zap.String("total", totals.Total.StringFixed(2)),
	)

	if err := flow.PlaceOrder(ctx); err != nil {
		log.Fatal("Order failed", zap.Error(err))
	}
	log.Info("Order confirmed", zap.String("order_id", flow.OrderID()))

	flow.Close()
	sessions.Logout()
}
