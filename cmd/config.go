package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	RedisURL   string

	// GatewaySecret signs payment callbacks. Empty disables signature checks.
	GatewaySecret string

	PaymentWindow   time.Duration
	CartTTL         time.Duration
	NotificationTTL time.Duration

	CheckoutLimit     int
	StatusUpdateLimit int
	RateLimitWindow   time.Duration
}

func DefaultConfig() Config {
	return Config{
		HTTPPort:          "8080",
		DBPort:            "5432",
		DBSslMode:         "disable",
		PaymentWindow:     15 * time.Minute,
		CartTTL:           30 * time.Minute,
		NotificationTTL:   5 * time.Minute,
		CheckoutLimit:     5,
		StatusUpdateLimit: 60,
		RateLimitWindow:   time.Minute,
	}
}

// LoadConfig reads the environment, after loading path into it when the file exists.
// Unset variables keep their DefaultConfig value.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}

	c := DefaultConfig()
	stringVar(&c.HTTPPort, "HTTP_PORT")
	stringVar(&c.DBHost, "DB_HOST")
	stringVar(&c.DBPort, "DB_PORT")
	stringVar(&c.DBUser, "DB_USER")
	stringVar(&c.DBPassword, "DB_PASSWORD")
	stringVar(&c.DBName, "DB_NAME")
	stringVar(&c.DBSslMode, "DB_SSLMODE")
	stringVar(&c.RedisURL, "REDIS_URL")
	stringVar(&c.GatewaySecret, "GATEWAY_SECRET")

	err := errors.Join(
		durationVar(&c.PaymentWindow, "PAYMENT_WINDOW"),
		durationVar(&c.CartTTL, "CART_TTL"),
		durationVar(&c.NotificationTTL, "NOTIFICATION_TTL"),
		durationVar(&c.RateLimitWindow, "RATE_LIMIT_WINDOW"),
		intVar(&c.CheckoutLimit, "RATE_LIMIT_CHECKOUT"),
		intVar(&c.StatusUpdateLimit, "RATE_LIMIT_STATUS_UPDATE"),
	)
	if err != nil {
		return Config{}, err
	}
	return c, nil
}

// UsesPostgres reports whether a database is configured. Without one the ledger is kept
// in memory.
func (c Config) UsesPostgres() bool {
	return c.DBHost != ""
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func stringVar(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func durationVar(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fmt.Errorf("%s: %q is not a positive duration", key, v)
	}
	*dst = d
	return nil
}

func intVar(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fmt.Errorf("%s: %q is not a positive integer", key, v)
	}
	*dst = n
	return nil
}
