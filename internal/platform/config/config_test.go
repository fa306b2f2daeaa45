package config_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexalink/referral_network_app/internal/platform/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "20-M", cfg.AuthRateLimit)
	assert.Equal(t, 12, cfg.Plan.MaxDirects)
	assert.True(t, decimal.NewFromInt(25).Equal(cfg.Plan.ActivationCost))
	assert.True(t, decimal.NewFromInt(10).Equal(cfg.Plan.MatchingPerPair))
}

func TestLoadConfig_ScheduleOverrides(t *testing.T) {
	levels := make([]string, 30)
	gates := make([]string, 30)
	for i := range levels {
		levels[i] = "1.5"
		gates[i] = "3"
	}
	t.Setenv("LEVEL_INCOME_SCHEDULE", strings.Join(levels, ","))
	t.Setenv("DIRECT_REQUIREMENTS_SCHEDULE", strings.Join(gates, ","))

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.True(t, decimal.NewFromFloat(1.5).Equal(cfg.Plan.LevelIncomeAt(1)))
	assert.True(t, decimal.NewFromFloat(1.5).Equal(cfg.Plan.LevelIncomeAt(30)))
	assert.Equal(t, 3, cfg.Plan.DirectRequirementAt(15))
}

func TestLoadConfig_RejectsShortSchedule(t *testing.T) {
	t.Setenv("LEVEL_INCOME_SCHEDULE", "1,2,3")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_RejectsInvalidPlanValues(t *testing.T) {
	t.Setenv("ACTIVATION_COST", "not-a-number")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_JWTExpiry(t *testing.T) {
	t.Setenv("JWT_EXPIRY_DURATION", "30m")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "30m0s", cfg.JWTExpiryDuration.String())
}

func TestLoadConfig_RejectsBadExpiry(t *testing.T) {
	t.Setenv("JWT_EXPIRY_DURATION", "soon")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}
