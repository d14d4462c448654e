package config

import (
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so host state cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "READ_TIMEOUT", "READ_HEADER_TIMEOUT", "WRITE_TIMEOUT",
		"IDLE_TIMEOUT", "MAX_HEADER_BYTES", "GIN_MODE",
		"LOG_LEVEL", "LOG_PRETTY", "SWAGGER_ENABLED", "API_BASE_PATH",
		"DB_PATH", "CACHE_TTL", "FLIGHT_WAIT_TIMEOUT",
		"DEFAULT_PAGE_SIZE", "MAX_PAGE_SIZE",
		"RATE_RPS", "RATE_BURST",
		"CORS_ALLOWED_ORIGINS", "ENABLE_HSTS", "HSTS_MAX_AGE",
		"IDEMPOTENCY_TTL",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SERVICE_NAME",
		"OTEL_TRACES_SAMPLER_ARG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.GinMode != "release" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CacheTTL != 5*time.Minute || cfg.FlightWait != 10*time.Second {
		t.Fatalf("cache defaults: ttl=%v wait=%v", cfg.CacheTTL, cfg.FlightWait)
	}
	if cfg.DefaultPageSize != 20 || cfg.MaxPageSize != 100 {
		t.Fatalf("page defaults: %d/%d", cfg.DefaultPageSize, cfg.MaxPageSize)
	}
	if cfg.APIBasePath != "/api/v1" || cfg.DBPath != "adopta.db" {
		t.Fatalf("path defaults: %q %q", cfg.APIBasePath, cfg.DBPath)
	}
	if cfg.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("idempotency ttl = %v", cfg.IdempotencyTTL)
	}
	if len(cfg.CORS.AllowedOrigins) != 0 {
		t.Fatalf("origins should default empty: %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.OTEL.Enabled || cfg.OTEL.SampleRatio != 1.0 {
		t.Fatalf("otel defaults: %+v", cfg.OTEL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("FLIGHT_WAIT_TIMEOUT", "2s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("RATE_RPS", "2.5")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("GIN_MODE", "bogus")
	t.Setenv("API_BASE_PATH", "api/v2/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.CacheTTL != 90*time.Second || cfg.FlightWait != 2*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("csv parse: %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.RateRPS != 2.5 {
		t.Fatalf("RateRPS = %v", cfg.RateRPS)
	}
	// "warning" normalizes to "warn"; unknown gin modes fall back to release.
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("GinMode = %q", cfg.GinMode)
	}
	// Base path gains a leading slash and loses the trailing one.
	if cfg.APIBasePath != "/api/v2" {
		t.Fatalf("APIBasePath = %q", cfg.APIBasePath)
	}
}

func TestLoad_BoolVariants(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_PRETTY", "YES")
	t.Setenv("OTEL_ENABLED", " on ")
	t.Setenv("SWAGGER_ENABLED", "off")
	t.Setenv("ENABLE_HSTS", "garbage")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.LogPretty || !cfg.OTEL.Enabled {
		t.Fatalf("truthy forms not honored: pretty=%v otel=%v", cfg.LogPretty, cfg.OTEL.Enabled)
	}
	if cfg.SwaggerEnabled {
		t.Fatal("explicit off should disable swagger")
	}
	// Unrecognized values keep the default.
	if cfg.Security.EnableHSTS {
		t.Fatal("garbage should fall back to the HSTS default")
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad log level", "LOG_LEVEL", "loud"},
		{"negative cache ttl", "CACHE_TTL", "-1s"},
		{"zero flight wait", "FLIGHT_WAIT_TIMEOUT", "0s"},
		{"page size inversion", "MAX_PAGE_SIZE", "5"},
		{"negative rps", "RATE_RPS", "-1"},
		{"zero burst", "RATE_BURST", "0"},
		{"zero idempotency ttl", "IDEMPOTENCY_TTL", "0s"},
		{"sample ratio out of range", "OTEL_TRACES_SAMPLER_ARG", "1.5"},
		{"zero header bytes", "MAX_HEADER_BYTES", "0"},
		{"zero read timeout", "READ_TIMEOUT", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%s should fail validation", tt.key, tt.value)
			}
		})
	}
}

func TestNormalizeBasePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "/"},
		{"/", "/"},
		{"api", "/api"},
		{"/api/", "/api"},
		{" /api/v1 ", "/api/v1"},
		{"/api/v1///", "/api/v1"},
	}
	for _, tt := range tests {
		if got := normalizeBasePath(tt.in); got != tt.want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
