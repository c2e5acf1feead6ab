package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	qb "github.com/riskibarqy/marinos-fixtures/internal/platform/querybuilder"
)

const (
	fixturesTable     = "fixtures"
	upsertBatchSize   = 200
	fixtureConflictOn = "source_key"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

// UpsertFixtures writes records keyed by source key. Later records in the
// slice win over earlier ones with the same key.
func (r *FixtureRepository) UpsertFixtures(ctx context.Context, records []fixture.Record) error {
	rows, err := toFixtureRows(records)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert fixtures tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for start := 0; start < len(rows); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(rows))
		builder, err := qb.InsertModels(fixturesTable, rows[start:end])
		if err != nil {
			return fmt.Errorf("build upsert fixtures query: %w", err)
		}
		query, args, err := builder.OnConflictDoUpdate([]string{fixtureConflictOn}).ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert fixtures query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert fixtures: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert fixtures tx: %w", err)
	}
	return nil
}

func (r *FixtureRepository) QueryFixtures(ctx context.Context, filter fixture.Filter) ([]fixture.Record, error) {
	columns, err := qb.Columns(fixtureTableModel{})
	if err != nil {
		return nil, fmt.Errorf("resolve fixture columns: %w", err)
	}

	builder := qb.Select(columns...).From(fixturesTable)
	if filter.Year > 0 {
		from := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(filter.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
		builder.Where(qb.Between("match_date", from, to))
	}
	if competition := strings.TrimSpace(filter.Competition); competition != "" {
		builder.Where(qb.Contains("competition", competition))
	}
	query, args, err := builder.
		OrderBy("match_date", "kickoff NULLS LAST", "source_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	out := make([]fixture.Record, 0, len(rows))
	for _, row := range rows {
		record, err := fromFixtureRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func toFixtureRows(records []fixture.Record) ([]fixtureTableModel, error) {
	index := make(map[string]int, len(records))
	rows := make([]fixtureTableModel, 0, len(records))
	for _, record := range records {
		key := strings.TrimSpace(record.SourceKey)
		if key == "" {
			return nil, fmt.Errorf("fixture record on %q has empty source key", record.Date)
		}
		row, err := toFixtureRow(record)
		if err != nil {
			return nil, err
		}
		if i, ok := index[key]; ok {
			rows[i] = row
			continue
		}
		index[key] = len(rows)
		rows = append(rows, row)
	}
	return rows, nil
}

func toFixtureRow(record fixture.Record) (fixtureTableModel, error) {
	matchDate, err := parseMatchDate(record.Date)
	if err != nil {
		return fixtureTableModel{}, fmt.Errorf("fixture %s has invalid date %q: %w", record.SourceKey, record.Date, err)
	}

	sources := make([]string, 0, len(record.Sources))
	for _, source := range record.Sources {
		sources = append(sources, string(source))
	}
	encoded, err := sonic.Marshal(sources)
	if err != nil {
		return fixtureTableModel{}, fmt.Errorf("encode sources of fixture %s: %w", record.SourceKey, err)
	}

	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	return fixtureTableModel{
		SourceKey:   strings.TrimSpace(record.SourceKey),
		MatchDate:   matchDate,
		Kickoff:     nullString(record.Kickoff),
		Competition: record.Competition,
		RoundLabel:  nullString(record.RoundLabel),
		RoundNumber: nullPositiveInt64(record.RoundNumber),
		HomeTeam:    record.HomeTeam,
		AwayTeam:    record.AwayTeam,
		Opponent:    record.Opponent,
		Stadium:     nullString(record.Stadium),
		MarinosSide: string(record.MarinosSide),
		HomeScore:   nullInt64FromPtr(record.HomeScore),
		AwayScore:   nullInt64FromPtr(record.AwayScore),
		IsResult:    record.IsResult,
		Outcome:     nullString(record.Outcome),
		MatchURL:    nullString(record.MatchURL),
		Sources:     string(encoded),
		UpdatedAt:   updatedAt,
	}, nil
}

func fromFixtureRow(row fixtureTableModel) (fixture.Record, error) {
	var names []string
	if len(row.Sources) > 0 {
		if err := sonic.UnmarshalString(row.Sources, &names); err != nil {
			return fixture.Record{}, fmt.Errorf("decode sources of fixture %s: %w", row.SourceKey, err)
		}
	}
	sources := make([]fixture.Source, 0, len(names))
	for _, name := range names {
		sources = append(sources, fixture.Source(name))
	}

	return fixture.Record{
		SourceKey:   row.SourceKey,
		Date:        formatMatchDate(row.MatchDate),
		Kickoff:     row.Kickoff.String,
		Competition: row.Competition,
		RoundLabel:  row.RoundLabel.String,
		RoundNumber: nullInt64ToInt(row.RoundNumber),
		HomeTeam:    row.HomeTeam,
		AwayTeam:    row.AwayTeam,
		Opponent:    row.Opponent,
		Stadium:     row.Stadium.String,
		MarinosSide: fixture.Side(row.MarinosSide),
		HomeScore:   intPtrFromNull(row.HomeScore),
		AwayScore:   intPtrFromNull(row.AwayScore),
		IsResult:    row.IsResult,
		Outcome:     row.Outcome.String,
		MatchURL:    row.MatchURL.String,
		Sources:     sources,
		UpdatedAt:   row.UpdatedAt.UTC(),
	}, nil
}
