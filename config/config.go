// Package config loads gateway settings from the environment.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all the tuneable values for the gateway.
type Config struct {
	// ClientID and ClientSecret are the processor service credentials.
	ClientID     string
	ClientSecret string

	// Environment selects the processor host: "sandbox" or "live".
	Environment string

	// Port is the address the HTTP server listens on.
	Port string

	// CacheTTL is how long a one-click idempotency record lives before
	// the sweeper may evict it.
	CacheTTL time.Duration

	// SweepInterval is how often the background sweeper runs.
	SweepInterval time.Duration

	// Checkout experience settings for interactive orders.
	BrandName string
	Locale    string
	ReturnURL string
	CancelURL string
}

// Load reads configuration from the environment, consulting a .env file
// when one is present. Missing credentials are not an error here; they
// surface as an auth-config failure at the point a token is requested.
func Load() *Config {
	godotenv.Load()

	return &Config{
		ClientID:      os.Getenv("PAYPAL_CLIENT_ID"),
		ClientSecret:  os.Getenv("PAYPAL_CLIENT_SECRET"),
		Environment:   getenv("PAYPAL_ENV", "sandbox"),
		Port:          getenv("PORT", "8888"),
		CacheTTL:      getduration("ONECLICK_CACHE_TTL", time.Hour),
		SweepInterval: getduration("ONECLICK_SWEEP_INTERVAL", 10*time.Minute),
		BrandName:     getenv("BRAND_NAME", "Vaultpay Store"),
		Locale:        getenv("CHECKOUT_LOCALE", "ja-JP"),
		ReturnURL:     getenv("RETURN_URL", "http://localhost:8888/return"),
		CancelURL:     getenv("CANCEL_URL", "http://localhost:8888/cancel"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
