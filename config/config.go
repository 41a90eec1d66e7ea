// Package config holds the configuration for a verification run.
//
// Configuration is layered: built-in defaults, then an optional YAML or
// JSON(C) file, then environment variables for credentials, then
// command-line flags.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/quay/hound"
)

// Environment variables consulted for credentials.
const (
	EnvAPIKey = "HOUND_API_KEY"
	EnvToken  = "HOUND_TOKEN"
)

// Defaults.
const (
	DefaultWorkers   = 10
	DefaultTimeout   = Duration(10 * time.Second)
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config is the configuration for one run.
type Config struct {
	// Input is the artifact list to read.
	Input string `yaml:"input" json:"input"`
	// Output is where results are written.
	Output string `yaml:"output" json:"output"`
	// Format selects the output encoding: "csv", "jsonl", or "sqlite". Empty
	// means guess from Output.
	Format string `yaml:"format" json:"format"`

	// BaseURL is the root of the artifact store.
	BaseURL string `yaml:"base_url" json:"base_url"`
	// APIKey is sent in the "X-JFrog-Art-Api" header.
	APIKey string `yaml:"api_key" json:"api_key"`
	// Token is sent as a bearer token if APIKey is unset.
	Token string `yaml:"token" json:"token"`
	// CAFile is a PEM bundle trusted in addition to the system roots.
	CAFile string `yaml:"ca_file" json:"ca_file"`
	// Insecure disables TLS verification.
	Insecure bool `yaml:"insecure" json:"insecure"`

	// Workers is the number of concurrent verifications.
	Workers int `yaml:"workers" json:"workers"`
	// Timeout bounds each existence probe.
	Timeout Duration `yaml:"timeout" json:"timeout"`
	// Rate limits probes per second. Zero is unlimited.
	Rate float64 `yaml:"rate" json:"rate"`
	// Repositories replaces the default candidate repositories, keyed by
	// ecosystem.
	Repositories map[string][]string `yaml:"repositories" json:"repositories"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`
	// Verbose is shorthand for a "debug" LogLevel.
	Verbose bool `yaml:"verbose" json:"verbose"`

	// MetricsFile, if set, receives the metrics in the Prometheus text
	// format when the run ends.
	MetricsFile string `yaml:"metrics_file" json:"metrics_file"`
	// OTLPEndpoint, if set, receives traces over OTLP/HTTP.
	OTLPEndpoint string `yaml:"otlp_endpoint" json:"otlp_endpoint"`
}

// Default returns a Config with every default filled in.
func Default() *Config {
	return &Config{
		Workers:   DefaultWorkers,
		Timeout:   DefaultTimeout,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// Load reads the named file over "cfg". Files ending in ".yaml" or ".yml"
// are YAML; anything else is JSON, with comments and trailing commas
// allowed.
func Load(name string, cfg *Config) error {
	const op = "config.Load"
	b, err := os.ReadFile(name)
	if err != nil {
		return &hound.Error{Op: op, Kind: hound.ErrInvalid, Message: "unable to read config", Inner: err}
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(b)))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	}
	if err != nil {
		return &hound.Error{Op: op, Kind: hound.ErrInvalid, Message: name, Inner: err}
	}
	return nil
}

// FromEnv fills unset credentials from the environment.
func (c *Config) FromEnv(getenv func(string) string) {
	if c.APIKey == "" {
		c.APIKey = getenv(EnvAPIKey)
	}
	if c.Token == "" {
		c.Token = getenv(EnvToken)
	}
}

// AddFlags registers flags that write directly into "c". Flags only change
// fields when given, so file values set beforehand survive.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Input, "input", "i", c.Input, "input CSV of package paths and types (\".gz\" is decompressed)")
	fs.StringVarP(&c.Output, "output", "o", c.Output, "output file for results")
	fs.StringVar(&c.Format, "format", c.Format, "output format: csv, jsonl, or sqlite (default: from output name)")
	fs.StringVar(&c.BaseURL, "base-url", c.BaseURL, "artifact store base URL")
	fs.StringVar(&c.APIKey, "api-key", c.APIKey, "artifact store API key (or $"+EnvAPIKey+")")
	fs.StringVar(&c.Token, "token", c.Token, "artifact store access token (or $"+EnvToken+")")
	fs.StringVar(&c.CAFile, "ca-file", c.CAFile, "additional PEM certificates to trust")
	fs.BoolVar(&c.Insecure, "insecure", c.Insecure, "skip TLS certificate verification")
	fs.IntVar(&c.Workers, "workers", c.Workers, "number of concurrent workers")
	fs.Var(&c.Timeout, "timeout", "timeout for each existence probe")
	fs.Float64Var(&c.Rate, "rate", c.Rate, "maximum probes per second (0 is unlimited)")
	fs.Var((*repoValue)(&c.Repositories), "repositories", "candidate repositories as ecosystem=key,key (repeatable)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, or error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: text or json")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "enable debug logging")
	fs.StringVar(&c.MetricsFile, "metrics-file", c.MetricsFile, "write metrics in the Prometheus text format to this file")
	fs.StringVar(&c.OTLPEndpoint, "otlp-endpoint", c.OTLPEndpoint, "send traces to this OTLP/HTTP endpoint")
}

// Parse builds a Config from command-line arguments. The file named by
// "--config", if any, is loaded over the defaults, then credentials are
// taken from the environment, then the remaining flags are applied.
//
// The returned FlagSet is for printing usage; it is non-nil even on error.
func Parse(name string, args []string, getenv func(string) string) (*Config, *pflag.FlagSet, error) {
	cfg, fs, err := parse(name, args, getenv)
	if err != nil {
		return nil, fs, err
	}
	if fs.NArg() != 0 {
		return nil, fs, &hound.Error{Op: "config.Parse", Kind: hound.ErrInvalid, Message: "unexpected argument: " + fs.Arg(0)}
	}
	return cfg, fs, nil
}

// Query names a package for a package details lookup.
type Query struct {
	Ecosystem hound.Ecosystem
	Name      string
	// Repository, if set, is the only repository consulted.
	Repository string
}

// ParseInfo is [Parse] for the "info" command, which takes an ecosystem, a
// canonical package name, and optionally a repository as arguments.
func ParseInfo(name string, args []string, getenv func(string) string) (*Config, *Query, *pflag.FlagSet, error) {
	const op = "config.ParseInfo"
	cfg, fs, err := parse(name, args, getenv)
	if err != nil {
		return nil, nil, fs, err
	}
	if fs.NArg() < 2 || fs.NArg() > 3 {
		return nil, nil, fs, &hound.Error{Op: op, Kind: hound.ErrInvalid, Message: "want arguments: ecosystem name [repository]"}
	}
	e, err := hound.ParseEcosystem(fs.Arg(0))
	if err != nil {
		return nil, nil, fs, err
	}
	q := Query{Ecosystem: e, Name: fs.Arg(1), Repository: fs.Arg(2)}
	return cfg, &q, fs, nil
}

func parse(name string, args []string, getenv func(string) string) (*Config, *pflag.FlagSet, error) {
	file := configFile(args)
	cfg := Default()
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.StringP("config", "c", file, "configuration file (YAML or JSON)")
	if file != "" {
		if err := Load(file, cfg); err != nil {
			cfg.AddFlags(fs)
			return nil, fs, err
		}
	}
	cfg.FromEnv(getenv)
	cfg.AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	return cfg, fs, nil
}

// ConfigFile finds the value of the "--config" flag ahead of the full parse,
// so the file can be loaded before the other flags are applied.
func configFile(args []string) string {
	for i, a := range args {
		switch {
		case a == "--":
			return ""
		case a == "--config" || a == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		case strings.HasPrefix(a, "-c=") && len(a) > 3:
			return a[3:]
		case strings.HasPrefix(a, "-c") && !strings.HasPrefix(a, "--") && len(a) > 2:
			return a[2:]
		}
	}
	return ""
}

// Validate reports the first problem with the configuration.
func (c *Config) Validate() error {
	switch {
	case c.Input == "":
		return invalid("missing input file")
	case c.Output == "":
		return invalid("missing output file")
	case !slices.Contains([]string{"", "csv", "jsonl", "sqlite"}, c.Format):
		return invalid("unknown output format %q", c.Format)
	}
	return c.ValidateStore()
}

// ValidateStore is [Config.Validate] without the input and output
// settings, for commands that only talk to the store.
func (c *Config) ValidateStore() error {
	switch {
	case c.BaseURL == "":
		return invalid("missing base URL")
	case c.Workers < 1:
		return invalid("workers must be positive: %d", c.Workers)
	case c.Timeout <= 0:
		return invalid("timeout must be positive: %v", &c.Timeout)
	case c.Rate < 0:
		return invalid("rate must not be negative: %v", c.Rate)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return invalid("unknown log format %q", c.LogFormat)
	}
	if _, err := c.Level(); err != nil {
		return invalid("bad log level %q: %v", c.LogLevel, err)
	}
	if _, err := c.Overrides(); err != nil {
		return err
	}
	return nil
}

func invalid(format string, args ...any) error {
	return &hound.Error{Op: "config.Validate", Kind: hound.ErrInvalid, Message: fmt.Sprintf(format, args...)}
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}
	var l slog.Level
	err := l.UnmarshalText([]byte(c.LogLevel))
	return l, err
}

// Overrides returns the candidate repository overrides keyed by Ecosystem.
func (c *Config) Overrides() (map[hound.Ecosystem][]string, error) {
	if len(c.Repositories) == 0 {
		return nil, nil
	}
	m := make(map[hound.Ecosystem][]string, len(c.Repositories))
	for tag, keys := range c.Repositories {
		e, err := hound.ParseEcosystem(tag)
		if err != nil {
			return nil, err
		}
		m[e] = append(m[e], keys...)
	}
	return m, nil
}

// RepoValue implements [pflag.Value] for "ecosystem=key,key" pairs. Each
// use sets the keys for one ecosystem.
type repoValue map[string][]string

func (v *repoValue) Set(s string) error {
	tag, list, ok := strings.Cut(s, "=")
	tag = strings.TrimSpace(tag)
	if !ok || tag == "" {
		return fmt.Errorf("expected ecosystem=key[,key...]: %q", s)
	}
	if *v == nil {
		*v = make(map[string][]string)
	}
	var keys []string
	for k := range strings.SplitSeq(list, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	(*v)[tag] = keys
	return nil
}

func (v *repoValue) String() string {
	if v == nil || len(*v) == 0 {
		return ""
	}
	tags := make([]string, 0, len(*v))
	for t := range *v {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	var b strings.Builder
	for i, t := range tags {
		if i != 0 {
			b.WriteByte(';')
		}
		b.WriteString(t + "=" + strings.Join((*v)[t], ","))
	}
	return b.String()
}

func (*repoValue) Type() string { return "ecosystem=keys" }
