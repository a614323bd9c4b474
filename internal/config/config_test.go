package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("DB_URL", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("EMBEDDER_URL", "")
	t.Setenv("EMBEDDER_ENABLED", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("expected memory storage without DB_URL, got %q", cfg.StorageDriver)
	}
	if cfg.EmbedderEnabled {
		t.Fatalf("expected embedder disabled without EMBEDDER_URL")
	}
	if cfg.ResolverKickoffTolerance != 24*time.Hour {
		t.Fatalf("unexpected kickoff tolerance %s", cfg.ResolverKickoffTolerance)
	}
	if cfg.ResolverNameThreshold != 0.85 {
		t.Fatalf("unexpected name threshold %v", cfg.ResolverNameThreshold)
	}
	if cfg.EmbeddingDimension != 768 || cfg.RetrievalDefaultLimit != 5 || cfg.MetricsWorkers != 8 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_StorageDriver(t *testing.T) {
	t.Run("db url selects postgres", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("STORAGE_DRIVER", "")
		t.Setenv("DB_URL", "postgres://localhost:5432/matchlens")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StoragePostgres {
			t.Fatalf("expected postgres storage, got %q", cfg.StorageDriver)
		}
	})

	t.Run("postgres requires db url", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("STORAGE_DRIVER", "postgres")
		t.Setenv("DB_URL", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when STORAGE_DRIVER=postgres without DB_URL")
		}
	})

	t.Run("unknown driver is rejected", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("STORAGE_DRIVER", "sqlite")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORAGE_DRIVER")
		}
	})
}

func TestLoad_EmbedderConfig(t *testing.T) {
	t.Run("enabled requires url", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("EMBEDDER_ENABLED", "true")
		t.Setenv("EMBEDDER_URL", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when EMBEDDER_ENABLED=true without EMBEDDER_URL")
		}
	})

	t.Run("url enables embedder", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("EMBEDDER_ENABLED", "")
		t.Setenv("EMBEDDER_URL", "http://localhost:11434/api/embeddings")
		t.Setenv("EMBEDDER_TIMEOUT", "4s")
		t.Setenv("EMBEDDER_CIRCUIT_FAILURE_COUNT", "3")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.EmbedderEnabled {
			t.Fatalf("expected embedder enabled")
		}
		if cfg.EmbedderTimeout != 4*time.Second {
			t.Fatalf("unexpected EmbedderTimeout: %s", cfg.EmbedderTimeout)
		}
		if cfg.EmbedderCircuitFailureCount != 3 {
			t.Fatalf("unexpected EmbedderCircuitFailureCount: %d", cfg.EmbedderCircuitFailureCount)
		}
	})

	t.Run("rejects non-positive timeout", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("EMBEDDER_TIMEOUT", "0s")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error for EMBEDDER_TIMEOUT=0s")
		}
	})
}

func TestLoad_PipelineValidation(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "threshold above one", key: "RESOLVER_NAME_THRESHOLD", value: "1.5"},
		{name: "threshold not a number", key: "RESOLVER_NAME_THRESHOLD", value: "high"},
		{name: "zero workers", key: "METRICS_WORKERS", value: "0"},
		{name: "limit too large", key: "RETRIEVAL_DEFAULT_LIMIT", value: "500"},
		{name: "bad tolerance", key: "RESOLVER_KICKOFF_TOLERANCE", value: "one day"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoadAliases(t *testing.T) {
	t.Run("empty path yields empty book", func(t *testing.T) {
		got, err := LoadAliases("")
		if err != nil || len(got) != 0 {
			t.Fatalf("unexpected result %v err=%v", got, err)
		}
	})

	t.Run("reads groups from yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "aliases.yaml")
		body := "aliases:\n  psv: [PSV Eindhoven, Philips Sport Vereniging]\n  az: [AZ Alkmaar]\n"
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write aliases: %v", err)
		}

		got, err := LoadAliases(path)
		if err != nil {
			t.Fatalf("load aliases: %v", err)
		}
		if len(got["psv"]) != 2 || got["psv"][1] != "Philips Sport Vereniging" {
			t.Fatalf("unexpected psv group %v", got["psv"])
		}
		if len(got["az"]) != 1 {
			t.Fatalf("unexpected az group %v", got["az"])
		}
	})

	t.Run("rejects empty names", func(t *testing.T) {
		if _, err := ParseAliases([]byte("aliases:\n  psv: [\"\"]\n")); err == nil {
			t.Fatalf("expected error for empty alias name")
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		if _, err := LoadAliases(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})
}
