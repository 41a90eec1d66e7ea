package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/quay/hound"
)

func noenv(string) string { return "" }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad(t *testing.T) {
	t.Parallel()
	want := &Config{
		Input:        "in.csv",
		Output:       "out.csv",
		BaseURL:      "https://example.jfrog.io/artifactory",
		APIKey:       "from-file",
		Workers:      4,
		Timeout:      Duration(3 * time.Second),
		Rate:         25,
		Repositories: map[string][]string{"maven": {"libs-release", "maven-remote"}},
		LogLevel:     "debug",
		LogFormat:    "json",
	}
	tt := map[string]string{
		"hound.yaml": `
input: in.csv
output: out.csv
base_url: https://example.jfrog.io/artifactory
api_key: from-file
workers: 4
timeout: 3s
rate: 25
repositories:
  maven: [libs-release, maven-remote]
log_level: debug
log_format: json
`,
		"hound.jsonc": `{
	// Comments and trailing commas are fine.
	"input": "in.csv",
	"output": "out.csv",
	"base_url": "https://example.jfrog.io/artifactory",
	"api_key": "from-file",
	"workers": 4,
	"timeout": "3s",
	"rate": 25,
	"repositories": {"maven": ["libs-release", "maven-remote"],},
	"log_level": "debug",
	"log_format": "json",
}`,
	}
	for name, content := range tt {
		t.Run(name, func(t *testing.T) {
			got := Default()
			if err := Load(writeFile(t, name, content), got); err != nil {
				t.Fatal(err)
			}
			if !cmp.Equal(got, want) {
				t.Error(cmp.Diff(got, want))
			}
		})
	}
}

func TestLoadUnknownField(t *testing.T) {
	t.Parallel()
	for name, content := range map[string]string{
		"bad.yaml": "wokers: 4\n",
		"bad.json": `{"wokers": 4}`,
	} {
		err := Load(writeFile(t, name, content), Default())
		if !errors.Is(err, hound.ErrInvalid) {
			t.Errorf("%s: got: %v, want: %v", name, err, hound.ErrInvalid)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	file := writeFile(t, "hound.yaml", `
base_url: https://file.example.com
workers: 4
timeout: 3s
`)
	env := func(k string) string {
		if k == EnvAPIKey {
			return "from-env"
		}
		return ""
	}
	args := []string{
		"--config", file,
		"-i", "in.csv",
		"--output=out.jsonl",
		"--workers", "8",
		"--repositories", "npm=npm-a, npm-b",
		"--repositories", "docker=hub",
	}
	got, _, err := Parse("hound", args, env)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Input:     "in.csv",
		Output:    "out.jsonl",
		BaseURL:   "https://file.example.com",
		APIKey:    "from-env",
		Workers:   8,
		Timeout:   Duration(3 * time.Second),
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Repositories: map[string][]string{
			"npm":    {"npm-a", "npm-b"},
			"docker": {"hub"},
		},
	}
	if !cmp.Equal(got, want) {
		t.Error(cmp.Diff(got, want))
	}
	if err := got.Validate(); err != nil {
		t.Error(err)
	}
	o, err := got.Overrides()
	if err != nil {
		t.Fatal(err)
	}
	if want := map[hound.Ecosystem][]string{hound.NPM: {"npm-a", "npm-b"}, hound.Docker: {"hub"}}; !cmp.Equal(o, want) {
		t.Error(cmp.Diff(o, want))
	}
}

func TestParseFlagBeatsEnv(t *testing.T) {
	t.Parallel()
	env := func(string) string { return "from-env" }
	got, _, err := Parse("hound", []string{"--api-key", "from-flag"}, env)
	if err != nil {
		t.Fatal(err)
	}
	if got.APIKey != "from-flag" || got.Token != "from-env" {
		t.Errorf("unexpected credentials: %q, %q", got.APIKey, got.Token)
	}
}

func TestParseHelp(t *testing.T) {
	t.Parallel()
	_, fs, err := Parse("hound", []string{"-h"}, noenv)
	if !errors.Is(err, pflag.ErrHelp) {
		t.Errorf("got: %v, want: %v", err, pflag.ErrHelp)
	}
	if fs.Lookup("base-url") == nil {
		t.Error("usage missing flags")
	}
}

func TestParseExtraArgs(t *testing.T) {
	t.Parallel()
	_, _, err := Parse("hound", []string{"--workers", "2", "stray"}, noenv)
	if !errors.Is(err, hound.ErrInvalid) {
		t.Errorf("got: %v, want: %v", err, hound.ErrInvalid)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	ok := func() *Config {
		c := Default()
		c.Input, c.Output, c.BaseURL = "in.csv", "out.csv", "https://example.com"
		return c
	}
	if err := ok().Validate(); err != nil {
		t.Fatal(err)
	}
	tt := map[string]func(*Config){
		"NoInput":      func(c *Config) { c.Input = "" },
		"NoOutput":     func(c *Config) { c.Output = "" },
		"NoBaseURL":    func(c *Config) { c.BaseURL = "" },
		"ZeroWorkers":  func(c *Config) { c.Workers = 0 },
		"ZeroTimeout":  func(c *Config) { c.Timeout = 0 },
		"NegativeRate": func(c *Config) { c.Rate = -1 },
		"BadFormat":    func(c *Config) { c.Format = "xml" },
		"BadLogFormat": func(c *Config) { c.LogFormat = "logfmt" },
		"BadLogLevel":  func(c *Config) { c.LogLevel = "loud" },
		"BadOverride":  func(c *Config) { c.Repositories = map[string][]string{"cargo": {"crates"}} },
	}
	for name, mod := range tt {
		t.Run(name, func(t *testing.T) {
			c := ok()
			mod(c)
			err := c.Validate()
			t.Log(err)
			if !errors.Is(err, hound.ErrInvalid) {
				t.Errorf("got: %v, want: %v", err, hound.ErrInvalid)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	t.Parallel()
	c := Default()
	if l, err := c.Level(); err != nil || l.String() != "INFO" {
		t.Errorf("got: %v, %v", l, err)
	}
	c.Verbose = true
	if l, _ := c.Level(); l.String() != "DEBUG" {
		t.Errorf("got: %v", l)
	}
}

func TestParseInfo(t *testing.T) {
	t.Parallel()
	cfg, q, _, err := ParseInfo("hound info", []string{"--base-url", "https://example.com", "npm", "@angular/core"}, noenv)
	if err != nil {
		t.Fatal(err)
	}
	if want := (&Query{Ecosystem: hound.NPM, Name: "@angular/core"}); !cmp.Equal(q, want) {
		t.Error(cmp.Diff(q, want))
	}
	if err := cfg.ValidateStore(); err != nil {
		t.Errorf("store settings rejected: %v", err)
	}
	if err := cfg.Validate(); !errors.Is(err, hound.ErrInvalid) {
		t.Errorf("run settings accepted without input: %v", err)
	}

	_, q, _, err = ParseInfo("hound info", []string{"maven", "org.example:app", "libs-release"}, noenv)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := q.Repository, "libs-release"; got != want {
		t.Errorf("repository: got: %q, want: %q", got, want)
	}

	for _, args := range [][]string{
		{"npm"},
		{"npm", "a", "b", "c"},
		{"cargo", "serde"},
	} {
		if _, _, _, err := ParseInfo("hound info", args, noenv); !errors.Is(err, hound.ErrInvalid) {
			t.Errorf("%q: got: %v, want: %v", args, err, hound.ErrInvalid)
		}
	}
}
