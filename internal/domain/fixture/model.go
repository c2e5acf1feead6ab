package fixture

import (
	"strings"
	"time"
)

// Source identifies where a fixture record was scraped from.
type Source string

const (
	SourceJLeague Source = "jleague"
	SourceMarinos Source = "marinos"
	SourcePhew    Source = "phew"
	SourceGCal    Source = "gcal"
)

func (s Source) Valid() bool {
	switch s {
	case SourceJLeague, SourceMarinos, SourcePhew, SourceGCal:
		return true
	default:
		return false
	}
}

// Side is the tracked club's side in a fixture. The empty value means unresolved.
type Side string

const (
	SideHome       Side = "home"
	SideAway       Side = "away"
	SideUnresolved Side = ""
)

const (
	StatusScheduled = "scheduled"
	StatusFinished  = "finished"
)

// RawFixture is one parser's view of a single match occurrence, before the
// tracked club has been identified.
type RawFixture struct {
	Source      Source
	Date        string
	Kickoff     string
	Competition string
	RoundLabel  string
	RoundNumber int
	HomeTeam    string
	AwayTeam    string
	Stadium     string
	HomeScore   *int
	AwayScore   *int
	Status      string
	SourceURL   string
}

// HasScore reports whether both sides of the score are known.
func (f RawFixture) HasScore() bool {
	return f.HomeScore != nil && f.AwayScore != nil
}

// ResolvedFixture is a RawFixture whose tracked side and opponent are known.
type ResolvedFixture struct {
	RawFixture
	TrackedSide Side
	Opponent    string
	IsResult    bool
	Key         string
}

// MergedFixture is the reconciled record emitted by the merge engine.
type MergedFixture struct {
	ResolvedFixture
	Sources []Source
}

type FetchError struct {
	Source    Source
	URL       string
	Message   string
	Timestamp time.Time
}

type PipelineStats struct {
	Total   int
	Success int
	Failed  int
}

type PipelineResult struct {
	Fixtures []MergedFixture
	Results  []MergedFixture
	Upcoming []MergedFixture
	Errors   []FetchError
	Stats    PipelineStats
}

// NormalizeStatus folds the status vocabulary of every source into
// StatusScheduled or StatusFinished.
func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	switch {
	case status == "":
		return StatusScheduled
	case status == StatusFinished, status == "ft", status == "result",
		strings.Contains(status, "試合終了"), strings.Contains(status, "終了"):
		return StatusFinished
	default:
		return StatusScheduled
	}
}

func IsFinishedStatus(status string) bool {
	return NormalizeStatus(status) == StatusFinished
}

// IntPtr is a helper for optional score fields.
func IntPtr(v int) *int {
	return &v
}

// MatchDetail is what a per-match detail page adds to a list stub.
type MatchDetail struct {
	HomeTeam  string
	AwayTeam  string
	HomeScore *int
	AwayScore *int
	Stadium   string
	Kickoff   string
	Status    string
}

func (d MatchDetail) HasScore() bool {
	return d.HomeScore != nil && d.AwayScore != nil
}

func (m MergedFixture) HasSource(source Source) bool {
	for _, s := range m.Sources {
		if s == source {
			return true
		}
	}
	return false
}
