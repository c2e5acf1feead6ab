package postgres

import (
	"database/sql"
	"testing"
)

func TestNullString(t *testing.T) {
	t.Parallel()

	if got := nullString("  "); got.Valid {
		t.Fatalf("expected blank string to be null, got %+v", got)
	}
	if got := nullString(" 19:00 "); !got.Valid || got.String != "19:00" {
		t.Fatalf("unexpected null string: %+v", got)
	}
}

func TestNullIntConversions(t *testing.T) {
	t.Parallel()

	three := 3
	if got := nullInt64FromPtr(&three); !got.Valid || got.Int64 != 3 {
		t.Fatalf("unexpected null int: %+v", got)
	}
	if got := nullInt64FromPtr(nil); got.Valid {
		t.Fatalf("expected nil pointer to be null")
	}
	if got := nullPositiveInt64(0); got.Valid {
		t.Fatalf("expected zero round number to be null")
	}
	if got := intPtrFromNull(sql.NullInt64{Int64: 0, Valid: true}); got == nil || *got != 0 {
		t.Fatalf("expected explicit zero score to survive, got %v", got)
	}
	if got := intPtrFromNull(sql.NullInt64{}); got != nil {
		t.Fatalf("expected null score to be nil, got %v", *got)
	}
	if got := nullInt64ToInt(sql.NullInt64{}); got != 0 {
		t.Fatalf("unexpected int: got=%d want=0", got)
	}
}

func TestMatchDateRoundTrip(t *testing.T) {
	t.Parallel()

	parsed, err := parseMatchDate("2025-02-15")
	if err != nil {
		t.Fatalf("parse match date: %v", err)
	}
	if got := formatMatchDate(parsed); got != "2025-02-15" {
		t.Fatalf("unexpected date: got=%s want=2025-02-15", got)
	}
	if _, err := parseMatchDate("2025/02/15"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}
