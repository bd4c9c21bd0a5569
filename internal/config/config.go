// Package config builds the immutable process configuration.
//
// The configuration is read exactly once at startup and passed by value into
// every component; nothing re-reads the environment per call. A missing
// GitHub token is not a startup error — HTTP-backed tools fail on first use.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Baked-in defaults, overridable via config file and environment.
const (
	defaultOwner         = "devbridge"
	defaultRepo          = "devbridge"
	defaultADBPath       = "adb"
	defaultSummariesDir  = "summaries"
	defaultBugreportsDir = "bugreports"
)

// Config is the immutable startup configuration.
type Config struct {
	GitHubToken   string
	GitHubAPIBase string
	DefaultOwner  string
	DefaultRepo   string
	ADBPath       string
	SummariesDir  string
	BugreportsDir string
	MetricsListen string
}

type fileConfig struct {
	GitHub struct {
		Owner   string `yaml:"owner"`
		Repo    string `yaml:"repo"`
		APIBase string `yaml:"api_base"`
	} `yaml:"github"`
	ADB struct {
		Path string `yaml:"path"`
	} `yaml:"adb"`
	Dirs struct {
		Summaries  string `yaml:"summaries"`
		Bugreports string `yaml:"bugreports"`
	} `yaml:"dirs"`
	Metrics struct {
		Listen string `yaml:"listen"`
	} `yaml:"metrics"`
}

// Load builds the configuration. Precedence: defaults, then the YAML file
// (path argument, falling back to DEVBRIDGE_CONFIG), then environment.
func Load(path string) (Config, error) {
	cfg := Config{
		DefaultOwner:  defaultOwner,
		DefaultRepo:   defaultRepo,
		ADBPath:       defaultADBPath,
		SummariesDir:  defaultSummariesDir,
		BugreportsDir: defaultBugreportsDir,
	}

	if path == "" {
		path = strings.TrimSpace(os.Getenv("DEVBRIDGE_CONFIG"))
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		overlay(&cfg.DefaultOwner, fc.GitHub.Owner)
		overlay(&cfg.DefaultRepo, fc.GitHub.Repo)
		overlay(&cfg.GitHubAPIBase, fc.GitHub.APIBase)
		overlay(&cfg.ADBPath, fc.ADB.Path)
		overlay(&cfg.SummariesDir, fc.Dirs.Summaries)
		overlay(&cfg.BugreportsDir, fc.Dirs.Bugreports)
		overlay(&cfg.MetricsListen, fc.Metrics.Listen)
	}

	overlay(&cfg.GitHubToken, os.Getenv("GITHUB_TOKEN"))
	overlay(&cfg.DefaultOwner, os.Getenv("GITHUB_OWNER"))
	overlay(&cfg.DefaultRepo, os.Getenv("GITHUB_REPO"))
	overlay(&cfg.GitHubAPIBase, os.Getenv("GITHUB_API_BASE"))
	overlay(&cfg.ADBPath, os.Getenv("ADB_PATH"))
	overlay(&cfg.SummariesDir, os.Getenv("DEVBRIDGE_SUMMARIES_DIR"))
	overlay(&cfg.BugreportsDir, os.Getenv("DEVBRIDGE_BUGREPORTS_DIR"))
	overlay(&cfg.MetricsListen, os.Getenv("DEVBRIDGE_METRICS_LISTEN"))

	return cfg, nil
}

func overlay(dst *string, v string) {
	v = strings.TrimSpace(v)
	if v != "" {
		*dst = v
	}
}
