package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPricingBaseURL = "https://app.wewantwaste.co.uk"
	DefaultImageBaseURL   = "https://yozbrydxdlcxghkphhtq.supabase.co/storage/v1/object/public/skips/skip-sizes"
	DefaultPostcode       = "NR32"
	DefaultArea           = "Lowestoft"
)

// Config holds deployment settings. None of these are exposed to page users.
type Config struct {
	Addr           string
	SQLitePath     string
	PricingBaseURL string
	Postcode       string
	Area           string
	ImageBaseURL   string
	FetchTimeout   time.Duration
}

// Load reads an optional .env file and then the process environment.
// A missing .env is not an error.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment with defaults applied.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:           getenv("APP_ADDR", ":8080"),
		SQLitePath:     getenv("SQLITE_PATH", "skiphire.db"),
		PricingBaseURL: strings.TrimRight(getenv("PRICING_BASE_URL", DefaultPricingBaseURL), "/"),
		Postcode:       getenv("PRICING_POSTCODE", DefaultPostcode),
		Area:           getenv("PRICING_AREA", DefaultArea),
		ImageBaseURL:   strings.TrimRight(getenv("SKIP_IMAGE_BASE_URL", DefaultImageBaseURL), "/"),
	}

	timeout, err := time.ParseDuration(getenv("FETCH_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		return Config{}, fmt.Errorf("invalid FETCH_TIMEOUT %q", os.Getenv("FETCH_TIMEOUT"))
	}
	cfg.FetchTimeout = timeout
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
