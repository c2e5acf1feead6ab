package postgres

import (
	"database/sql"
	"time"
)

type fixtureTableModel struct {
	SourceKey   string         `db:"source_key"`
	MatchDate   time.Time      `db:"match_date"`
	Kickoff     sql.NullString `db:"kickoff"`
	Competition string         `db:"competition"`
	RoundLabel  sql.NullString `db:"round_label"`
	RoundNumber sql.NullInt64  `db:"round_number"`
	HomeTeam    string         `db:"home_team"`
	AwayTeam    string         `db:"away_team"`
	Opponent    string         `db:"opponent"`
	Stadium     sql.NullString `db:"stadium"`
	MarinosSide string         `db:"marinos_side"`
	HomeScore   sql.NullInt64  `db:"home_score"`
	AwayScore   sql.NullInt64  `db:"away_score"`
	IsResult    bool           `db:"is_result"`
	Outcome     sql.NullString `db:"outcome"`
	MatchURL    sql.NullString `db:"match_url"`
	Sources     string         `db:"sources"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
