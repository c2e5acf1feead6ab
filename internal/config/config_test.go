package config

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PhewFetchTimeout != 10*time.Second {
		t.Fatalf("unexpected phew timeout: got=%s want=%s", cfg.PhewFetchTimeout, 10*time.Second)
	}
	if cfg.DetailWorkers != 6 {
		t.Fatalf("unexpected detail workers: got=%d want=%d", cfg.DetailWorkers, 6)
	}
	if cfg.DetailRatePerSecond != 4 {
		t.Fatalf("unexpected detail rate: got=%v want=%v", cfg.DetailRatePerSecond, 4)
	}
	if cfg.MarinosRenderMode != "fallback" {
		t.Fatalf("unexpected render mode: got=%s want=fallback", cfg.MarinosRenderMode)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: got=%v want=%v", cfg.LogLevel, logging.LevelInfo)
	}
	wantPriority := []fixture.Source{fixture.SourceJLeague, fixture.SourceMarinos, fixture.SourcePhew, fixture.SourceGCal}
	if !reflect.DeepEqual(cfg.SourcePriority, wantPriority) {
		t.Fatalf("unexpected source priority: got=%v want=%v", cfg.SourcePriority, wantPriority)
	}
	if !cfg.FetchCircuit.Enabled || cfg.FetchCircuit.FailureThreshold != 5 {
		t.Fatalf("unexpected circuit config: %+v", cfg.FetchCircuit)
	}
	if len(cfg.SeasonYears) != 0 {
		t.Fatalf("expected no season years by default, got=%v", cfg.SeasonYears)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_LogLevel(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("debug", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "DEBUG")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LogLevel != logging.LevelDebug {
			t.Fatalf("unexpected log level: got=%v want=%v", cfg.LogLevel, logging.LevelDebug)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "verbose")
		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "LOG_LEVEL") {
			t.Fatalf("expected LOG_LEVEL error, got=%v", err)
		}
	})
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
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1, uptrace-dsn=\"https://token@api.uptrace.dev?grpc=4317\"")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if want := "https://token@api.uptrace.dev?grpc=4317"; cfg.UptraceDSN != want {
		t.Fatalf("unexpected uptrace dsn: got=%q want=%q", cfg.UptraceDSN, want)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SERVICE_NAME", "marinos-fixtures-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "marinos-fixtures-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := []string{"https://a.example.com", "http://localhost:5173"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Fatalf("unexpected CORS origins: got=%v want=%v", cfg.CORSAllowedOrigins, want)
	}
}

func TestLoad_Sources(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("dedup and case", func(t *testing.T) {
		t.Setenv("ENABLED_SOURCES", "Phew, jleague ,phew")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		want := []fixture.Source{fixture.SourcePhew, fixture.SourceJLeague}
		if !reflect.DeepEqual(cfg.EnabledSources, want) {
			t.Fatalf("unexpected enabled sources: got=%v want=%v", cfg.EnabledSources, want)
		}
		if cfg.SourceEnabled(fixture.SourceGCal) {
			t.Fatalf("gcal should be disabled")
		}
		if !cfg.SourceEnabled(fixture.SourcePhew) {
			t.Fatalf("phew should be enabled")
		}
	})

	t.Run("unknown source", func(t *testing.T) {
		t.Setenv("SOURCE_PRIORITY", "jleague,espn")
		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "SOURCE_PRIORITY") {
			t.Fatalf("expected SOURCE_PRIORITY error, got=%v", err)
		}
	})
}

func TestLoad_SeasonYears(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("valid", func(t *testing.T) {
		t.Setenv("SEASON_YEARS", "2024, 2025")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !reflect.DeepEqual(cfg.SeasonYears, []int{2024, 2025}) {
			t.Fatalf("unexpected season years: got=%v", cfg.SeasonYears)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("SEASON_YEARS", "2025,next")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid SEASON_YEARS")
		}
	})
}

func TestLoad_PositiveValues(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cases := map[string]string{
		"DETAIL_WORKERS":      "0",
		"DETAIL_RATE_PER_SEC": "-1",
		"FETCH_TIMEOUT":       "0s",
		"FETCH_MAX_ATTEMPTS":  "abc",
		"QUERY_CACHE_TTL":     "bad",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), key) {
				t.Fatalf("expected %s error, got=%v", key, err)
			}
		})
	}
}

func TestLoad_RenderModeValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("MARINOS_RENDER_MODE", "browser")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid MARINOS_RENDER_MODE")
	}
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}
