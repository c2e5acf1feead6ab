package main

import (
	"time"

	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
)

type recordOutput struct {
	Key         string   `json:"key"`
	Date        string   `json:"date"`
	Kickoff     string   `json:"kickoff,omitempty"`
	Competition string   `json:"competition"`
	Round       string   `json:"round,omitempty"`
	Home        string   `json:"home"`
	Away        string   `json:"away"`
	Opponent    string   `json:"opponent"`
	Stadium     string   `json:"stadium,omitempty"`
	Side        string   `json:"side"`
	HomeScore   *int     `json:"homeScore"`
	AwayScore   *int     `json:"awayScore"`
	IsResult    bool     `json:"isResult"`
	Outcome     string   `json:"outcome,omitempty"`
	MatchURL    string   `json:"matchUrl,omitempty"`
	Sources     []string `json:"sources"`
}

type fetchErrorOutput struct {
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type refreshOutput struct {
	Fixtures []recordOutput        `json:"fixtures"`
	Results  int                   `json:"results"`
	Upcoming int                   `json:"upcoming"`
	Errors   []fetchErrorOutput    `json:"errors"`
	Stats    fixture.PipelineStats `json:"stats"`
}

func toRecordOutputs(records []fixture.Record) []recordOutput {
	out := make([]recordOutput, 0, len(records))
	for _, r := range records {
		sources := make([]string, 0, len(r.Sources))
		for _, s := range r.Sources {
			sources = append(sources, string(s))
		}
		out = append(out, recordOutput{
			Key:         r.SourceKey,
			Date:        r.Date,
			Kickoff:     r.Kickoff,
			Competition: r.Competition,
			Round:       r.RoundLabel,
			Home:        r.HomeTeam,
			Away:        r.AwayTeam,
			Opponent:    r.Opponent,
			Stadium:     r.Stadium,
			Side:        string(r.MarinosSide),
			HomeScore:   r.HomeScore,
			AwayScore:   r.AwayScore,
			IsResult:    r.IsResult,
			Outcome:     r.Outcome,
			MatchURL:    r.MatchURL,
			Sources:     sources,
		})
	}
	return out
}

func toRefreshOutput(result fixture.PipelineResult, now time.Time) refreshOutput {
	errs := make([]fetchErrorOutput, 0, len(result.Errors))
	for _, e := range result.Errors {
		errs = append(errs, fetchErrorOutput{
			Source:    string(e.Source),
			URL:       e.URL,
			Message:   e.Message,
			Timestamp: e.Timestamp.UTC(),
		})
	}
	return refreshOutput{
		Fixtures: toRecordOutputs(fixture.ToRecords(result.Fixtures, now)),
		Results:  len(result.Results),
		Upcoming: len(result.Upcoming),
		Errors:   errs,
		Stats:    result.Stats,
	}
}
