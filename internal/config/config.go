package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port             string
	Origin           string
	Environment      string
	JWTSecret        string
	JWTRefreshSecret string
	Database         DatabaseConfig
	Scheduling       SchedulingConfig

	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// SchedulingConfig holds the appointment policy knobs. The defaults match
// the clinic's standing policy; they are environment-tunable so a deployment
// can tighten or relax the windows without a code change.
type SchedulingConfig struct {
	SlotDurationMinutes     int    // length of one bookable block
	ConfirmationWindowHours int    // patient must confirm within this many hours of booking
	CancellationCutoffHours int    // cancellation forbidden inside this many hours of the appointment
	CompletionGraceHours    int    // checked-in appointments auto-complete this long after their slot
	DefaultWorkingHours     string // fallback when a doctor's hours are missing or malformed
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "clinic_portal"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	schedCfg, err := loadSchedulingConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                      getEnv("PORT", "3001"),
		Origin:                    getEnv("ORIGIN", "http://localhost:4200"),
		Environment:               getEnv("APP_ENV", "development"),
		JWTSecret:                 getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		Database:                  dbConfig,
		Scheduling:                schedCfg,
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
	}, nil
}

func loadSchedulingConfig() (SchedulingConfig, error) {
	cfg := SchedulingConfig{
		DefaultWorkingHours: getEnv("DEFAULT_WORKING_HOURS", "09:00-17:00"),
	}

	var err error
	if cfg.SlotDurationMinutes, err = getEnvInt("SLOT_DURATION_MINUTES", 30); err != nil {
		return cfg, err
	}
	if cfg.ConfirmationWindowHours, err = getEnvInt("CONFIRMATION_WINDOW_HOURS", 24); err != nil {
		return cfg, err
	}
	if cfg.CancellationCutoffHours, err = getEnvInt("CANCELLATION_CUTOFF_HOURS", 24); err != nil {
		return cfg, err
	}
	if cfg.CompletionGraceHours, err = getEnvInt("COMPLETION_GRACE_HOURS", 1); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultScheduling returns the standing policy values without consulting the
// environment. Used by tests and anywhere a full Config is not available.
func DefaultScheduling() SchedulingConfig {
	return SchedulingConfig{
		SlotDurationMinutes:     30,
		ConfirmationWindowHours: 24,
		CancellationCutoffHours: 24,
		CompletionGraceHours:    1,
		DefaultWorkingHours:     "09:00-17:00",
	}
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
