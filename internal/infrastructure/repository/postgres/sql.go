package postgres

import (
	"database/sql"
	"strings"
	"time"
)

const matchDateLayout = "2006-01-02"

func nullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	return sql.NullString{String: value, Valid: value != ""}
}

func nullInt64FromPtr(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func nullPositiveInt64(value int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(value), Valid: value > 0}
}

func intPtrFromNull(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	out := int(value.Int64)
	return &out
}

func nullInt64ToInt(value sql.NullInt64) int {
	if !value.Valid {
		return 0
	}
	return int(value.Int64)
}

func parseMatchDate(value string) (time.Time, error) {
	return time.ParseInLocation(matchDateLayout, strings.TrimSpace(value), time.UTC)
}

func formatMatchDate(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(matchDateLayout)
}
