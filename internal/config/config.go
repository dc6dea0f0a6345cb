package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API      APIConfig
	Session  SessionConfig
	Checkout CheckoutConfig
	Stub     StubConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	FilePath string
}

// CheckoutConfig carries the pricing policy as decimal strings so the
// checkout package can parse them without float round-trips.
type CheckoutConfig struct {
	FreeShippingThreshold string // subtotal at or above which shipping is free
	FlatShippingCost      string
	TaxRate               string // fraction of subtotal
	FallbackUnitPrice     string // used when a product carries no price
}

type StubConfig struct {
	Port      string
	Env       string
	JWTSecret string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("API_TIMEOUT_SECONDS", 10)
	viper.SetDefault("SESSION_FILE", ".orchid_session.json")
	viper.SetDefault("CHECKOUT_FREE_SHIPPING_THRESHOLD", "100")
	viper.SetDefault("CHECKOUT_FLAT_SHIPPING_COST", "9.99")
	viper.SetDefault("CHECKOUT_TAX_RATE", "0.08")
	viper.SetDefault("CART_FALLBACK_UNIT_PRICE", "50")
	viper.SetDefault("STUB_PORT", "8080")
	viper.SetDefault("STUB_ENV", "development")
	viper.SetDefault("STUB_JWT_SECRET", "dev-only-secret")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		API: APIConfig{
			BaseURL: viper.GetString("API_BASE_URL"),
			Timeout: time.Duration(viper.GetInt("API_TIMEOUT_SECONDS")) * time.Second,
		},
		Session: SessionConfig{
			FilePath: viper.GetString("SESSION_FILE"),
		},
		Checkout: CheckoutConfig{
			FreeShippingThreshold: viper.GetString("CHECKOUT_FREE_SHIPPING_THRESHOLD"),
			FlatShippingCost:      viper.GetString("CHECKOUT_FLAT_SHIPPING_COST"),
			TaxRate:               viper.GetString("CHECKOUT_TAX_RATE"),
			FallbackUnitPrice:     viper.GetString("CART_FALLBACK_UNIT_PRICE"),
		},
		Stub: StubConfig{
			Port:      viper.GetString("STUB_PORT"),
			Env:       viper.GetString("STUB_ENV"),
			JWTSecret: viper.GetString("STUB_JWT_SECRET"),
		},
	}
}
