package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const DefaultFile = "hdrgen.toml"

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)
	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.SourceRoots) == 0 {
		cfg.SourceRoots = []string{"src"}
	}

	if strings.TrimSpace(cfg.Paths.StateDir) == "" {
		cfg.Paths.StateDir = "data/state"
	}
	if strings.TrimSpace(cfg.Paths.DatabaseDir) == "" {
		cfg.Paths.DatabaseDir = "data/database"
	}

	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{".git", "target"}
	}

	if strings.TrimSpace(cfg.Output.Dir) == "" {
		cfg.Output.Dir = "gen/c-headers"
	}
	if strings.TrimSpace(cfg.Output.Prefix) == "" {
		cfg.Output.Prefix = "rust"
	}
	if strings.TrimSpace(cfg.Output.Suffix) == "" {
		cfg.Output.Suffix = "-gen.h"
	}

	if cfg.Generate.Workers <= 0 {
		cfg.Generate.Workers = runtime.NumCPU()
	}

	// Default debounce if not set.
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRegensPerSecond <= 0 {
		cfg.Watch.MaxRegensPerSecond = 20
	}
	if cfg.Watch.RegenBurst <= 0 {
		cfg.Watch.RegenBurst = 50
	}

	if strings.TrimSpace(cfg.DB.Driver) == "" {
		cfg.DB.Driver = "sqlite"
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "history.db"
	}
	if strings.TrimSpace(cfg.DB.ProjectKey) == "" {
		cfg.DB.ProjectKey = "default"
	}

	if cfg.Observability.Port == 0 {
		cfg.Observability.Port = 9464
	}
	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "hdrgen"
	}
}

func normalize(cfg *Config) {
	cfg.SourceRoots = trimAll(cfg.SourceRoots)
	cfg.Exclude.Dirs = trimAll(cfg.Exclude.Dirs)
	cfg.Exclude.Files = trimAll(cfg.Exclude.Files)
	cfg.Output.Dir = strings.TrimSpace(cfg.Output.Dir)
	cfg.Output.Prefix = strings.TrimSpace(cfg.Output.Prefix)
	cfg.Output.Suffix = strings.TrimSpace(cfg.Output.Suffix)
	cfg.Output.LicenseFile = strings.TrimSpace(cfg.Output.LicenseFile)
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	cfg.DB.Path = strings.TrimSpace(cfg.DB.Path)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)

	if len(cfg.Types) > 0 {
		types := make(map[string]string, len(cfg.Types))
		for k, v := range cfg.Types {
			types[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		cfg.Types = types
	}
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
