package observability

import (
	"errors"
	"testing"

	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
)

func TestIsHealthRequestLog(t *testing.T) {
	t.Parallel()

	if !isHealthRequestLog("http_request", []any{"http_path", "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if isHealthRequestLog("http_request", []any{"http_path", "/v1/fixtures"}) {
		t.Fatalf("did not expect fixtures request log to be skipped")
	}
	if isHealthRequestLog("fixture pipeline finished", []any{"http_path", "/healthz"}) {
		t.Fatalf("did not expect non-request event to be skipped")
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	t.Parallel()

	attrs := buildOTelLogAttributes([]any{
		"source", fixture.SourcePhew,
		"attempts", 3,
		"error", errors.New("status=503"),
		"years", []int{2024, 2025},
		"dangling",
	})
	if len(attrs) != 5 {
		t.Fatalf("unexpected attribute count: got=%d want=5", len(attrs))
	}
	if attrs[0].Key != "source" || attrs[0].Value.AsString() != "phew" {
		t.Fatalf("unexpected source attribute: %+v", attrs[0])
	}
	if attrs[1].Value.AsInt64() != 3 {
		t.Fatalf("unexpected attempts attribute: got=%d want=3", attrs[1].Value.AsInt64())
	}
	if attrs[2].Value.AsString() != "status=503" {
		t.Fatalf("unexpected error attribute: %q", attrs[2].Value.AsString())
	}
	if attrs[3].Value.AsString() != "[2024,2025]" {
		t.Fatalf("unexpected years attribute: got=%q want=[2024,2025]", attrs[3].Value.AsString())
	}
	if attrs[4].Key != "dangling" || attrs[4].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected dangling attribute: %+v", attrs[4])
	}
}

func TestToOTelSeverity(t *testing.T) {
	t.Parallel()

	cases := map[logging.Level]otellog.Severity{
		logging.LevelDebug: otellog.SeverityDebug,
		logging.LevelInfo:  otellog.SeverityInfo,
		logging.LevelWarn:  otellog.SeverityWarn,
		logging.LevelError: otellog.SeverityError,
	}
	for level, want := range cases {
		if got := toOTelSeverity(level); got != want {
			t.Fatalf("severity for %s: got=%v want=%v", level, got, want)
		}
	}
}
