package jleague

import (
	"strings"

	"github.com/riskibarqy/marinos-fixtures/external/scrape"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/roster"
)

// Parser reads jleague.jp search and detail pages.
type Parser struct {
	baseURL string
	lines   scrape.LineExtractor
}

func NewParser(baseURL string, rosters roster.Set, resolver *fixture.TeamResolver) *Parser {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = fixture.JLeagueBaseURL
	}
	return &Parser{
		baseURL: baseURL,
		lines: scrape.LineExtractor{
			Source:   fixture.SourceJLeague,
			Rosters:  rosters,
			Resolver: resolver,
			Rules: scrape.LineRules{
				Score:    lineScoreRegex,
				Finished: func(text string) bool { return strings.Contains(text, finishedStatus) },
			},
		},
	}
}
