package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/posys/pos_ledger_app/internal/core/domain"
	"github.com/posys/pos_ledger_app/internal/utils/fining"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Ledger currency used on all money responses.
	Currency          string
	CurrencyPrecision int32

	// Fining schedule, all amounts in minor units.
	FineThreshold int64
	FineRate      float64
	FineMinimum   int64
	FineMaximum   int64

	// Debt notification hook.
	NotificationWebhookURL string
	DisableDebtNotifier    bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "pos-ledger-app")
	viper.SetDefault("CURRENCY", "EUR")
	viper.SetDefault("CURRENCY_PRECISION", 2)
	viper.SetDefault("FINE_THRESHOLD", -500)
	viper.SetDefault("FINE_RATE", 0.2)
	viper.SetDefault("FINE_MINIMUM", 100)
	viper.SetDefault("FINE_MAXIMUM", 500)
	viper.SetDefault("NOTIFICATION_WEBHOOK_URL", "")
	viper.SetDefault("DISABLE_DEBT_NOTIFIER", false)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour * 1 // Default to 1 hour
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}

	jwtIssuer := viper.GetString("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "pos-ledger-app"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", jwtIssuer)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTSecret = jwtSecret
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = jwtIssuer

	cfg.Currency = viper.GetString("CURRENCY")
	cfg.CurrencyPrecision = viper.GetInt32("CURRENCY_PRECISION")

	cfg.FineThreshold = viper.GetInt64("FINE_THRESHOLD")
	cfg.FineRate = viper.GetFloat64("FINE_RATE")
	cfg.FineMinimum = viper.GetInt64("FINE_MINIMUM")
	cfg.FineMaximum = viper.GetInt64("FINE_MAXIMUM")
	if cfg.FineThreshold > 0 {
		log.Printf("Warning: FINE_THRESHOLD is positive (%d); fining triggers on balance <= threshold.\n", cfg.FineThreshold)
	}

	cfg.NotificationWebhookURL = viper.GetString("NOTIFICATION_WEBHOOK_URL")
	cfg.DisableDebtNotifier = viper.GetBool("DISABLE_DEBT_NOTIFIER")
	if cfg.NotificationWebhookURL == "" && !cfg.DisableDebtNotifier {
		log.Println("Warning: NOTIFICATION_WEBHOOK_URL not set. Debt notifications will be logged only.")
	}

	return cfg, nil
}

// FineSchedule builds the fining schedule from the configured amounts.
func (c *Config) FineSchedule() fining.Schedule {
	return fining.Schedule{
		Threshold: decimal.NewFromInt(c.FineThreshold),
		Rate:      decimal.NewFromFloat(c.FineRate),
		Minimum:   decimal.NewFromInt(c.FineMinimum),
		Maximum:   decimal.NewFromInt(c.FineMaximum),
	}
}

// NotifiableUserTypes returns the user types that receive notifications.
func (c *Config) NotifiableUserTypes() []domain.UserType {
	return domain.NotifiableUserTypes
}
