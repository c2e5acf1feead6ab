package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
)

type FixtureRepository struct {
	mu    sync.RWMutex
	items map[string]fixture.Record
}

func NewFixtureRepository(records ...fixture.Record) *FixtureRepository {
	items := make(map[string]fixture.Record, len(records))
	for _, record := range records {
		items[record.SourceKey] = cloneRecord(record)
	}
	return &FixtureRepository{items: items}
}

func (r *FixtureRepository) UpsertFixtures(_ context.Context, records []fixture.Record) error {
	for _, record := range records {
		if strings.TrimSpace(record.SourceKey) == "" {
			return fmt.Errorf("fixture record on %q has empty source key", record.Date)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range records {
		r.items[strings.TrimSpace(record.SourceKey)] = cloneRecord(record)
	}
	return nil
}

func (r *FixtureRepository) QueryFixtures(_ context.Context, filter fixture.Filter) ([]fixture.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Record, 0, len(r.items))
	for _, record := range r.items {
		if !filter.Matches(record) {
			continue
		}
		out = append(out, cloneRecord(record))
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Kickoff != b.Kickoff {
			if a.Kickoff == "" || b.Kickoff == "" {
				return b.Kickoff == ""
			}
			return a.Kickoff < b.Kickoff
		}
		return a.SourceKey < b.SourceKey
	})
	return out, nil
}

func cloneRecord(record fixture.Record) fixture.Record {
	record.SourceKey = strings.TrimSpace(record.SourceKey)
	record.Sources = append([]fixture.Source(nil), record.Sources...)
	if record.HomeScore != nil {
		record.HomeScore = fixture.IntPtr(*record.HomeScore)
	}
	if record.AwayScore != nil {
		record.AwayScore = fixture.IntPtr(*record.AwayScore)
	}
	return record
}
