package fixture

import (
	"fmt"
	"strings"
	"time"
)

const (
	OutcomeWin  = "W"
	OutcomeDraw = "D"
	OutcomeLoss = "L"
)

// Record is the storage shape of a merged fixture. SourceKey is the
// StorageKey of the fixture, not the merge key.
type Record struct {
	SourceKey   string
	Date        string
	Kickoff     string
	Competition string
	RoundLabel  string
	RoundNumber int
	HomeTeam    string
	AwayTeam    string
	Opponent    string
	Stadium     string
	MarinosSide Side
	HomeScore   *int
	AwayScore   *int
	IsResult    bool
	Outcome     string
	MatchURL    string
	Sources     []Source
	UpdatedAt   time.Time
}

// Filter narrows QueryFixtures. Zero values match everything.
type Filter struct {
	Year        int
	Competition string
}

func (f Filter) Matches(r Record) bool {
	if f.Year > 0 && !strings.HasPrefix(r.Date, yearPrefix(f.Year)) {
		return false
	}
	competition := strings.TrimSpace(f.Competition)
	if competition != "" && !strings.Contains(strings.ToLower(r.Competition), strings.ToLower(competition)) {
		return false
	}
	return true
}

func yearPrefix(year int) string {
	return fmt.Sprintf("%04d-", year)
}

// Outcome reports W/D/L from the tracked side's point of view, or "" when
// the fixture has no result.
func Outcome(side Side, homeScore, awayScore *int) string {
	if homeScore == nil || awayScore == nil {
		return ""
	}
	own, other := *homeScore, *awayScore
	switch side {
	case SideHome:
	case SideAway:
		own, other = other, own
	default:
		return ""
	}
	switch {
	case own > other:
		return OutcomeWin
	case own < other:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}

func ToRecord(f MergedFixture, now time.Time) Record {
	sources := make([]Source, len(f.Sources))
	copy(sources, f.Sources)
	return Record{
		SourceKey:   StorageKey(f.Date, f.Opponent),
		Date:        f.Date,
		Kickoff:     f.Kickoff,
		Competition: f.Competition,
		RoundLabel:  f.RoundLabel,
		RoundNumber: f.RoundNumber,
		HomeTeam:    f.HomeTeam,
		AwayTeam:    f.AwayTeam,
		Opponent:    f.Opponent,
		Stadium:     f.Stadium,
		MarinosSide: f.TrackedSide,
		HomeScore:   copyInt(f.HomeScore),
		AwayScore:   copyInt(f.AwayScore),
		IsResult:    f.IsResult,
		Outcome:     Outcome(f.TrackedSide, f.HomeScore, f.AwayScore),
		MatchURL:    f.SourceURL,
		Sources:     sources,
		UpdatedAt:   now.UTC(),
	}
}

func ToRecords(fixtures []MergedFixture, now time.Time) []Record {
	out := make([]Record, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, ToRecord(f, now))
	}
	return out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
