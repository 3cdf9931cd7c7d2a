package config

import (
	"time"
)

type Config struct {
	Version       int               `toml:"version"`
	SourceRoots   []string          `toml:"source_roots"`
	Paths         Paths             `toml:"paths"`
	Exclude       Exclude           `toml:"exclude"`
	Output        Output            `toml:"output"`
	Types         map[string]string `toml:"types"`
	Generate      Generate          `toml:"generate"`
	Watch         Watch             `toml:"watch"`
	DB            Database          `toml:"db"`
	Observability Observability     `toml:"observability"`
}

type Paths struct {
	ProjectRoot string `toml:"project_root"`
	StateDir    string `toml:"state_dir"`
	DatabaseDir string `toml:"database_dir"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

// Output controls where headers go and how they are named:
// <dir>/<prefix>-<source dirs joined by ->-<stem><suffix>.
type Output struct {
	Dir         string `toml:"dir"`
	Prefix      string `toml:"prefix"`
	Suffix      string `toml:"suffix"`
	LicenseFile string `toml:"license_file"`
}

type Generate struct {
	Force   bool `toml:"force"`
	Workers int  `toml:"workers"`
	Audit   bool `toml:"audit"`
}

type Watch struct {
	Debounce           time.Duration `toml:"debounce"`
	MaxRegensPerSecond float64       `toml:"max_regens_per_second"`
	RegenBurst         int           `toml:"regen_burst"`
}

type Database struct {
	Enabled    bool   `toml:"enabled"`
	Driver     string `toml:"driver"`
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Observability struct {
	Enabled       bool   `toml:"enabled"`
	Port          int    `toml:"port"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
	EnableTracing bool   `toml:"enable_tracing"`
	ServiceName   string `toml:"service_name"`
}

// DefaultConfig returns a config with every default applied, matching what
// Load produces for an empty file.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	normalize(cfg)
	return cfg
}
