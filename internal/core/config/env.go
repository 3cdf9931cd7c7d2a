package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: HDRGEN_[SECTION]_[KEY] (e.g., HDRGEN_OUTPUT_DIR).
func ApplyEnvOverrides(cfg *Config) {
	// Paths
	setEnvString(&cfg.Paths.ProjectRoot, "HDRGEN_PATHS_PROJECT_ROOT")
	setEnvString(&cfg.Paths.StateDir, "HDRGEN_PATHS_STATE_DIR")
	setEnvString(&cfg.Paths.DatabaseDir, "HDRGEN_PATHS_DATABASE_DIR")

	// Output
	setEnvString(&cfg.Output.Dir, "HDRGEN_OUTPUT_DIR")
	setEnvString(&cfg.Output.Prefix, "HDRGEN_OUTPUT_PREFIX")
	setEnvString(&cfg.Output.Suffix, "HDRGEN_OUTPUT_SUFFIX")
	setEnvString(&cfg.Output.LicenseFile, "HDRGEN_OUTPUT_LICENSE_FILE")

	// Generate
	setEnvBool(&cfg.Generate.Force, "HDRGEN_GENERATE_FORCE")
	setEnvInt(&cfg.Generate.Workers, "HDRGEN_GENERATE_WORKERS")
	setEnvBool(&cfg.Generate.Audit, "HDRGEN_GENERATE_AUDIT")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "HDRGEN_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxRegensPerSecond, "HDRGEN_WATCH_MAX_REGENS_PER_SECOND")

	// Database
	setEnvBool(&cfg.DB.Enabled, "HDRGEN_DB_ENABLED")
	setEnvString(&cfg.DB.Path, "HDRGEN_DB_PATH")
	setEnvString(&cfg.DB.ProjectKey, "HDRGEN_DB_PROJECT_KEY")

	// Observability
	setEnvBool(&cfg.Observability.Enabled, "HDRGEN_OBSERVABILITY_ENABLED")
	setEnvInt(&cfg.Observability.Port, "HDRGEN_OBSERVABILITY_PORT")
	setEnvString(&cfg.Observability.OTLPEndpoint, "HDRGEN_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.EnableTracing, "HDRGEN_OBSERVABILITY_ENABLE_TRACING")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
