package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nexalink/referral_network_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	SnapshotPath string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// AuthRateLimit is the limit applied to the public signup/login routes,
	// in ulule/limiter format (e.g. "20-M").
	AuthRateLimit string

	// Root admin seeded on first start when the store is empty. Seeding is
	// skipped when the password is unset.
	RootAdminUsername string
	RootAdminEmail    string
	RootAdminPassword string

	Plan domain.CompensationPlan
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("SNAPSHOT_PATH", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "referral-network-app")
	viper.SetDefault("AUTH_RATE_LIMIT", "20-M")
	viper.SetDefault("ROOT_ADMIN_USERNAME", "admin")
	viper.SetDefault("ROOT_ADMIN_EMAIL", "admin@example.com")
	viper.SetDefault("ROOT_ADMIN_PASSWORD", "")
	viper.SetDefault("MAX_DIRECTS", 12)
	viper.SetDefault("ACTIVATION_COST", "25")
	viper.SetDefault("MATCHING_PER_PAIR", "10")
	viper.SetDefault("LEVEL_INCOME_SCHEDULE", "")
	viper.SetDefault("DIRECT_REQUIREMENTS_SCHEDULE", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.SnapshotPath = viper.GetString("SNAPSHOT_PATH")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.AuthRateLimit = viper.GetString("AUTH_RATE_LIMIT")
	cfg.RootAdminUsername = viper.GetString("ROOT_ADMIN_USERNAME")
	cfg.RootAdminEmail = viper.GetString("ROOT_ADMIN_EMAIL")
	cfg.RootAdminPassword = viper.GetString("ROOT_ADMIN_PASSWORD")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	expiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_DURATION: %w", err)
	}
	cfg.JWTExpiryDuration = expiry

	plan, err := loadCompensationPlan()
	if err != nil {
		return nil, fmt.Errorf("invalid compensation plan configuration: %w", err)
	}
	cfg.Plan = plan

	return cfg, nil
}

// loadCompensationPlan builds the plan from the environment, starting from
// the default schedules and overriding whatever is set.
func loadCompensationPlan() (domain.CompensationPlan, error) {
	plan := domain.DefaultCompensationPlan()

	plan.MaxDirects = viper.GetInt("MAX_DIRECTS")

	cost, err := decimal.NewFromString(viper.GetString("ACTIVATION_COST"))
	if err != nil {
		return plan, fmt.Errorf("invalid ACTIVATION_COST: %w", err)
	}
	plan.ActivationCost = cost

	perPair, err := decimal.NewFromString(viper.GetString("MATCHING_PER_PAIR"))
	if err != nil {
		return plan, fmt.Errorf("invalid MATCHING_PER_PAIR: %w", err)
	}
	plan.MatchingPerPair = perPair

	if raw := viper.GetString("LEVEL_INCOME_SCHEDULE"); raw != "" {
		amounts, err := parseDecimalSchedule(raw)
		if err != nil {
			return plan, fmt.Errorf("invalid LEVEL_INCOME_SCHEDULE: %w", err)
		}
		plan.LevelIncome = amounts
	}

	if raw := viper.GetString("DIRECT_REQUIREMENTS_SCHEDULE"); raw != "" {
		requirements, err := parseIntSchedule(raw)
		if err != nil {
			return plan, fmt.Errorf("invalid DIRECT_REQUIREMENTS_SCHEDULE: %w", err)
		}
		plan.DirectRequirements = requirements
	}

	if err := plan.Validate(); err != nil {
		return plan, err
	}
	return plan, nil
}

// parseDecimalSchedule parses a comma-separated list of exactly 30 amounts.
func parseDecimalSchedule(raw string) ([domain.MaxLevelDepth]decimal.Decimal, error) {
	var out [domain.MaxLevelDepth]decimal.Decimal
	parts := strings.Split(raw, ",")
	if len(parts) != domain.MaxLevelDepth {
		return out, fmt.Errorf("expected %d values, got %d", domain.MaxLevelDepth, len(parts))
	}
	for i, part := range parts {
		value, err := decimal.NewFromString(strings.TrimSpace(part))
		if err != nil {
			return out, fmt.Errorf("value %d: %w", i+1, err)
		}
		out[i] = value
	}
	return out, nil
}

// parseIntSchedule parses a comma-separated list of exactly 30 integers.
func parseIntSchedule(raw string) ([domain.MaxLevelDepth]int, error) {
	var out [domain.MaxLevelDepth]int
	parts := strings.Split(raw, ",")
	if len(parts) != domain.MaxLevelDepth {
		return out, fmt.Errorf("expected %d values, got %d", domain.MaxLevelDepth, len(parts))
	}
	for i, part := range parts {
		var value int
		if _, err := fmt.Sscanf(strings.TrimSpace(part), "%d", &value); err != nil {
			return out, fmt.Errorf("value %d: %w", i+1, err)
		}
		out[i] = value
	}
	return out, nil
}
