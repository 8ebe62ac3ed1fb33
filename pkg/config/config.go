package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/corel/pkg/release"
)

const DefaultFile = ".corel.yml"

type Config struct {
	InitialVersion string `yaml:"initial_version"`
	AutoInit       bool   `yaml:"auto_init"`
	NoPush         bool   `yaml:"no_push"`
	Remote         string `yaml:"remote"`
	Output         string `yaml:"output"`
	Backend        string `yaml:"backend"`
	GitHub         GitHub `yaml:"github"`

	Quiet          bool   `yaml:"-"`
	Debug          bool   `yaml:"-"`
	PrintVersion   bool   `yaml:"-"`
	DryRun         bool   `yaml:"-"`
	RepositoryPath string `yaml:"-"`
}

type GitHub struct {
	Repo  string `yaml:"repo"`
	Ref   string `yaml:"ref"`
	Token string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		InitialVersion: release.DefaultInitialVersion,
		Remote:         "origin",
		Output:         "text",
		Backend:        "git",
		RepositoryPath: ".",
	}
}

// Load reads a yaml config file over the defaults. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// MergeFlags overrides file values with flags the user actually passed.
func MergeFlags(cfg *Config, flags *pflag.FlagSet) *Config {
	if v, err := flags.GetString("repository-path"); err == nil && v != "" {
		cfg.RepositoryPath = v
	}
	if v, err := flags.GetString("initial-version"); err == nil && flags.Changed("initial-version") {
		cfg.InitialVersion = v
	}
	if v, err := flags.GetString("output"); err == nil && flags.Changed("output") {
		cfg.Output = v
	}
	if v, err := flags.GetString("backend"); err == nil && flags.Changed("backend") {
		cfg.Backend = v
	}
	if v, err := flags.GetString("remote"); err == nil && flags.Changed("remote") {
		cfg.Remote = v
	}
	if v, err := flags.GetString("github-repo"); err == nil && v != "" {
		cfg.GitHub.Repo = v
	}
	if v, err := flags.GetString("ref"); err == nil && flags.Changed("ref") {
		cfg.GitHub.Ref = v
	}
	if v, err := flags.GetString("github-token"); err == nil && v != "" {
		cfg.GitHub.Token = v
	}
	if v, err := flags.GetBool("auto-init-tag"); err == nil && flags.Changed("auto-init-tag") {
		cfg.AutoInit = v
	}
	if v, err := flags.GetBool("no-push"); err == nil && flags.Changed("no-push") {
		cfg.NoPush = v
	}
	if v, err := flags.GetBool("quiet"); err == nil {
		cfg.Quiet = v
	}
	if v, err := flags.GetBool("debug"); err == nil {
		cfg.Debug = v
	}
	if v, err := flags.GetBool("print-version"); err == nil {
		cfg.PrintVersion = v
	}
	if v, err := flags.GetBool("dry-run"); err == nil {
		cfg.DryRun = v
	}
	return cfg
}

// Options converts the configuration into engine options. Print-version takes
// precedence over dry-run.
func (c *Config) Options() release.Options {
	mode := release.Tag
	switch {
	case c.PrintVersion:
		mode = release.PrintOnly
	case c.DryRun:
		mode = release.DryRun
	}
	return release.Options{
		Mode:           mode,
		AutoInit:       c.AutoInit,
		InitialVersion: c.InitialVersion,
		NoPush:         c.NoPush,
	}
}
