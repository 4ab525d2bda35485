package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"staffcast/internal/stats"
)

// CalendarPeriod names a block of calendar months with an elevated or
// suppressed call multiplier (AEP, plan-year start, summer lull).
type CalendarPeriod struct {
	Name           string  `json:"name"`
	Months         []int   `json:"months"`
	CallMultiplier float64 `json:"call_multiplier"`
}

// EngineConfig is the explicit configuration value handed to the forecast
// engine at construction. There is no global settings object.
type EngineConfig struct {
	MaxForecastMonths           int
	DefaultForecastMonths       int
	MaxMonteCarloIterations     int
	DefaultMonteCarloIterations int

	CacheTTL         time.Duration // forecast results
	SeasonalCacheTTL time.Duration // seasonal profiles, derived data changes rarely

	CalendarPeriods        []CalendarPeriod
	SegmentCallRates       map[string]float64 // per 1000 members
	DefaultSegmentCallRate float64            // for segments absent from the table

	AccuracyThresholds []stats.HorizonThreshold
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath string
	LogDir   string
	Engine   EngineConfig
}

// DefaultEngine returns the engine configuration for Medicare Advantage
// enrollment support operations.
func DefaultEngine() EngineConfig {
	return EngineConfig{
		MaxForecastMonths:           24,
		DefaultForecastMonths:       12,
		MaxMonteCarloIterations:     10000,
		DefaultMonteCarloIterations: 1000,
		CacheTTL:                    time.Hour,
		SeasonalCacheTTL:            24 * time.Hour,
		CalendarPeriods: []CalendarPeriod{
			{Name: "aep_period", Months: []int{10, 11, 12}, CallMultiplier: 2.1},
			{Name: "plan_year_start", Months: []int{1}, CallMultiplier: 1.6},
			{Name: "summer_lull", Months: []int{6, 7, 8}, CallMultiplier: 0.75},
		},
		SegmentCallRates: map[string]float64{
			"Highly Engaged":       85,
			"Reactive Engagers":    145,
			"Content & Complacent": 95,
			"Unengaged":            180,
		},
		DefaultSegmentCallRate: 120,
		AccuracyThresholds: []stats.HorizonThreshold{
			{Name: "short_term", MaxMonths: 3, MAPELimit: 15.0},
			{Name: "medium_term", MaxMonths: 6, MAPELimit: 22.0},
			{Name: "long_term", MaxMonths: 12, MAPELimit: 30.0},
		},
	}
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve data paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}
	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	engine := DefaultEngine()
	engine.MaxForecastMonths = getEnvInt("MAX_FORECAST_MONTHS", engine.MaxForecastMonths)
	engine.DefaultForecastMonths = getEnvInt("DEFAULT_FORECAST_MONTHS", engine.DefaultForecastMonths)
	engine.MaxMonteCarloIterations = getEnvInt("MAX_MONTE_CARLO_ITERATIONS", engine.MaxMonteCarloIterations)
	engine.DefaultMonteCarloIterations = getEnvInt("DEFAULT_MONTE_CARLO_ITERATIONS", engine.DefaultMonteCarloIterations)

	ttlSecs := getEnvInt("CACHE_TTL", int(engine.CacheTTL.Seconds()))
	engine.CacheTTL = time.Duration(ttlSecs) * time.Second
	engine.SeasonalCacheTTL = 24 * engine.CacheTTL

	return &AppConfig{
		DataPath: dataPath,
		LogDir:   logDir,
		Engine:   engine,
	}, nil
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
