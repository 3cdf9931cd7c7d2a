package config

import (
	"fmt"
	"hdrgen/internal/shared/util"
	"strings"

	"github.com/gobwas/glob"
)

// Validate checks a fully defaulted config.
func Validate(cfg *Config) error {
	validators := []func(*Config) error{
		validateVersion,
		validateSourceRoots,
		validateExclude,
		validateOutput,
		validateTypes,
		validateGenerate,
		validateWatch,
		validateDatabase,
		validateObservability,
	}
	for _, v := range validators {
		if err := v(cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateSourceRoots(cfg *Config) error {
	if len(cfg.SourceRoots) == 0 {
		return fmt.Errorf("source_roots must contain at least one path")
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for _, p := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("exclude.dirs pattern %q is invalid: %w", p, err)
		}
	}
	for _, p := range cfg.Exclude.Files {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("exclude.files pattern %q is invalid: %w", p, err)
		}
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if util.ContainsPathSeparator(cfg.Output.Prefix) {
		return fmt.Errorf("output.prefix must be a plain file name prefix, got %q", cfg.Output.Prefix)
	}
	if util.ContainsPathSeparator(cfg.Output.Suffix) {
		return fmt.Errorf("output.suffix must be a plain file name suffix, got %q", cfg.Output.Suffix)
	}
	return nil
}

// validateTypes rejects table entries the translator could never look up:
// base type names are matched as a single whitespace-free token.
func validateTypes(cfg *Config) error {
	keys := util.SortedStringKeys(cfg.Types)
	for _, k := range keys {
		if k == "" || strings.ContainsAny(k, " \t\r\n") {
			return fmt.Errorf("types key %q must be a single Rust type name without whitespace", k)
		}
		if cfg.Types[k] == "" {
			return fmt.Errorf("types.%q must map to a non-empty C type", k)
		}
	}
	return nil
}

func validateGenerate(cfg *Config) error {
	if cfg.Generate.Workers < 1 {
		return fmt.Errorf("generate.workers must be >= 1, got %d", cfg.Generate.Workers)
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Watch.MaxRegensPerSecond <= 0 {
		return fmt.Errorf("watch.max_regens_per_second must be > 0")
	}
	if cfg.Watch.RegenBurst < 1 {
		return fmt.Errorf("watch.regen_burst must be >= 1")
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if cfg.DB.Driver != "sqlite" {
		return fmt.Errorf("db.driver must be sqlite, got %q", cfg.DB.Driver)
	}
	if cfg.DB.Path == "" {
		return fmt.Errorf("db.path must not be empty")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if cfg.Observability.Port < 1 || cfg.Observability.Port > 65535 {
		return fmt.Errorf("observability.port must be between 1 and 65535, got %d", cfg.Observability.Port)
	}
	if cfg.Observability.EnableTracing && cfg.Observability.OTLPEndpoint == "" {
		return fmt.Errorf("observability.otlp_endpoint is required when enable_tracing=true")
	}
	return nil
}
