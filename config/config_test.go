package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type clientConfig struct {
	BaseURL string            `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	Accept  string            `yaml:"accept" mapstructure:"accept"`
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	HTTP    struct {
		Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
		Retries int           `yaml:"retries" mapstructure:"retries" validate:"gte=0,lte=5"`
	} `yaml:"http" mapstructure:"http"`

	defaulted bool
}

func (c *clientConfig) ApplyDefaults() {
	c.defaulted = true
	if c.Accept == "" {
		c.Accept = "application/xml"
	}
}

func (c *clientConfig) Validate() error {
	return ValidateStruct(c)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "client.yml", `
base_url: https://api.example.com/v1
headers:
  x-tenant: acme
http:
  timeout: 5s
  retries: 2
`)

	var cfg clientConfig
	if err := LoadConfig("client", &cfg, WithConfigFile(path), WithEnvPrefix("RKTEST_NONE")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.BaseURL != "https://api.example.com/v1" {
		t.Errorf("expected base url, got %q", cfg.BaseURL)
	}
	if cfg.Headers["x-tenant"] != "acme" {
		t.Errorf("expected x-tenant header, got %v", cfg.Headers)
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.HTTP.Timeout)
	}
	if !cfg.defaulted || cfg.Accept != "application/xml" {
		t.Errorf("expected ApplyDefaults to run, got accept %q", cfg.Accept)
	}
}

func TestLoadConfigEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "client.yml", "base_url: https://file.example.com\nhttp:\n  timeout: 5s\n")

	t.Setenv("RKTEST_BASE_URL", "https://env.example.com")
	t.Setenv("RKTEST_HTTP_TIMEOUT", "9s")

	var cfg clientConfig
	if err := LoadConfig("client", &cfg, WithConfigFile(path), WithEnvPrefix("RKTEST")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.BaseURL != "https://env.example.com" {
		t.Errorf("expected env base url, got %q", cfg.BaseURL)
	}
	if cfg.HTTP.Timeout != 9*time.Second {
		t.Errorf("expected 9s timeout from env, got %v", cfg.HTTP.Timeout)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env.client", "RKDOTENV_ACCEPT=text/xml\n")
	t.Cleanup(func() { os.Unsetenv("RKDOTENV_ACCEPT") })

	var cfg clientConfig
	err := LoadConfig("client", &cfg,
		WithConfigFile(filepath.Join(dir, "missing.yml")),
		WithEnvFile(envPath),
		WithEnvPrefix("RKDOTENV"),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Accept != "text/xml" {
		t.Errorf("expected accept from .env, got %q", cfg.Accept)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg clientConfig
	err := LoadConfig("nonexistent", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvPrefix("RKTEST_NONE"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
	if cfg.Accept != "application/xml" {
		t.Errorf("expected defaults on empty config, got %q", cfg.Accept)
	}
}

func TestLoadConfigValidationFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "client.yml", "base_url: not a url\nhttp:\n  retries: 9\n")

	var cfg clientConfig
	err := LoadConfig("client", &cfg, WithConfigFile(path), WithEnvPrefix("RKTEST_NONE"))
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %v", verr.Fields)
	}
	msg := err.Error()
	if !strings.Contains(msg, "base_url: must be a valid URL") {
		t.Errorf("expected base_url message, got %q", msg)
	}
	if !strings.Contains(msg, "http.retries: must be at most 5") {
		t.Errorf("expected http.retries message, got %q", msg)
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "client.yml", "base_url: [unterminated\n")

	var cfg clientConfig
	if err := LoadConfig("client", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolverSearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./config/orders.yaml": true,
		"./config.yml":         true,
		"./config/.env.orders": true,
		"./.env":               true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("orders", LoaderConfig{})
	if files.ConfigFile != "./config/orders.yaml" {
		t.Errorf("expected ./config/orders.yaml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./config/.env.orders" {
		t.Errorf("expected ./config/.env.orders, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPaths(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{}}
	files := resolver.ResolveFiles("orders", LoaderConfig{ConfigFile: "a.yml", EnvFile: "b.env"})
	if files.ConfigFile != "a.yml" || files.EnvFile != "b.env" {
		t.Errorf("expected explicit paths, got %+v", files)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("HTTP_BASE_URL")
	for _, want := range []string{"http_base_url", "http.base.url", "http.base_url", "http_base.url"} {
		found := false
		for _, g := range got {
			if g == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if v := envKeyVariants("TIMEOUT"); len(v) != 1 || v[0] != "timeout" {
		t.Errorf("expected single variant, got %v", v)
	}
}

func TestOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("restkit_")(&lc)

	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
	if lc.EnvPrefix != "RESTKIT" {
		t.Errorf("expected normalized prefix RESTKIT, got %q", lc.EnvPrefix)
	}
}

func TestValidateStruct(t *testing.T) {
	type target struct {
		Name string `mapstructure:"name" validate:"required"`
		Mode string `validate:"omitempty,oneof=a b"`
	}
	if err := ValidateStruct(&target{Name: "x", Mode: "a"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateStruct(&target{Mode: "c"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Fields[0].Field != "name" || verr.Fields[0].Message != "is required" {
		t.Errorf("unexpected first field error: %+v", verr.Fields[0])
	}
	if verr.Fields[1].Field != "mode" || verr.Fields[1].Message != "must be one of: a b" {
		t.Errorf("unexpected second field error: %+v", verr.Fields[1])
	}
}
