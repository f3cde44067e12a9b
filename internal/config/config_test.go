package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8000},
		Database: DatabaseConfig{
			DSN: "postgres://localhost:5432/cytokb",
		},
		Query: QueryConfig{
			DefaultPageSize:   50,
			MaxPageSize:       200,
			FilterValuesLimit: 100,
			FilterValuesMax:   1000,
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.HTTP.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for port %d", port)
		}
	}
}

func TestValidate_MissingDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database.DSN = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database.dsn")
	}
}

func TestValidate_DefaultPageSizeExceedsMax(t *testing.T) {
	cfg := validConfig()
	cfg.Query.DefaultPageSize = 500
	cfg.Query.MaxPageSize = 200
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when default page size exceeds max")
	}
}

func TestValidate_FilterValuesLimitExceedsMax(t *testing.T) {
	cfg := validConfig()
	cfg.Query.FilterValuesLimit = 5000
	cfg.Query.FilterValuesMax = 1000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when filter values limit exceeds max")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Table != "cytokine_effects" {
		t.Errorf("expected table cytokine_effects, got %q", cfg.Database.Table)
	}
	if cfg.Query.DefaultPageSize != 50 {
		t.Errorf("expected DefaultPageSize=50, got %d", cfg.Query.DefaultPageSize)
	}
	if cfg.Query.MaxPageSize != 200 {
		t.Errorf("expected MaxPageSize=200, got %d", cfg.Query.MaxPageSize)
	}
	if cfg.Query.FilterValuesLimit != 100 {
		t.Errorf("expected FilterValuesLimit=100, got %d", cfg.Query.FilterValuesLimit)
	}
	if cfg.Query.TimeoutSec != 15 {
		t.Errorf("expected TimeoutSec=15, got %d", cfg.Query.TimeoutSec)
	}
	if cfg.Cache.TTLSec != 300 {
		t.Errorf("expected Cache.TTLSec=300, got %d", cfg.Cache.TTLSec)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{Table: "custom_table", MaxOpenConns: 50},
		Query:    QueryConfig{DefaultPageSize: 25, MaxPageSize: 100},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Database.Table != "custom_table" {
		t.Errorf("expected table custom_table, got %q", cfg.Database.Table)
	}
	if cfg.Query.DefaultPageSize != 25 {
		t.Errorf("expected DefaultPageSize=25, got %d", cfg.Query.DefaultPageSize)
	}
}

func TestCacheConfig_Enabled(t *testing.T) {
	if (CacheConfig{}).Enabled() {
		t.Error("empty addrs must disable the cache")
	}
	if !(CacheConfig{Addrs: []string{"localhost:6379"}}).Enabled() {
		t.Error("configured addrs must enable the cache")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CYTOKB_TEST_DSN", "postgres://db:5432/x")

	got := string(expandEnvVars([]byte("dsn: ${CYTOKB_TEST_DSN}")))
	if got != "dsn: postgres://db:5432/x" {
		t.Errorf("unexpected expansion: %q", got)
	}

	got = string(expandEnvVars([]byte("table: ${CYTOKB_TEST_UNSET:-fallback}")))
	if got != "table: fallback" {
		t.Errorf("unexpected default expansion: %q", got)
	}

	got = string(expandEnvVars([]byte("table: ${CYTOKB_TEST_UNSET}")))
	if got != "table: " {
		t.Errorf("unset variable without default must expand empty: %q", got)
	}
}
