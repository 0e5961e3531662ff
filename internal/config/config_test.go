package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, 15, cfg.JWTExpirationMinutes)
	assert.Equal(t, 168, cfg.JWTRefreshExpirationHours)
	assert.Contains(t, cfg.Database.DSN, "clinic_portal")

	assert.Equal(t, DefaultScheduling(), cfg.Scheduling)
}

func TestLoadConfigSchedulingOverrides(t *testing.T) {
	t.Setenv("SLOT_DURATION_MINUTES", "15")
	t.Setenv("CANCELLATION_CUTOFF_HOURS", "48")
	t.Setenv("DEFAULT_WORKING_HOURS", "08:00-16:00")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Scheduling.SlotDurationMinutes)
	assert.Equal(t, 48, cfg.Scheduling.CancellationCutoffHours)
	assert.Equal(t, "08:00-16:00", cfg.Scheduling.DefaultWorkingHours)
	// Untouched knobs keep their defaults.
	assert.Equal(t, 24, cfg.Scheduling.ConfirmationWindowHours)
}

func TestLoadConfigRejectsMalformedInts(t *testing.T) {
	t.Setenv("CONFIRMATION_WINDOW_HOURS", "one day")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIRMATION_WINDOW_HOURS")
}
