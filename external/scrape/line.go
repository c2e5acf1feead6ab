package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/roster"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/textnorm"
)

var (
	homeMarkerRegex = regexp.MustCompile(`(?i)\bHOME\b|ホーム`)
	awayMarkerRegex = regexp.MustCompile(`(?i)\bAWAY\b|アウェイ|アウェー`)
)

// LineRules configures how a LineExtractor reads scores from one source.
type LineRules struct {
	// Score must have two capture groups.
	Score *regexp.Regexp
	// Finished reports whether the text marks the match as played. A score
	// is only accepted when it does.
	Finished func(text string) bool
	// TrackedFirst means Score lists the tracked club's goals first.
	TrackedFirst bool
	// RequireSideMarker drops text without an explicit HOME/AWAY label
	// instead of inferring the side from name order.
	RequireSideMarker  bool
	DefaultCompetition string
}

// LineExtractor turns one line or element text into a RawFixture using
// regex patterns and roster containment.
type LineExtractor struct {
	Source   fixture.Source
	Rosters  roster.Set
	Resolver *fixture.TeamResolver
	Rules    LineRules
}

// Extract reports false when the text has no date or no resolvable side.
func (e LineExtractor) Extract(text string, yearHint int) (fixture.RawFixture, bool) {
	text = textnorm.NormalizeText(text)
	if text == "" {
		return fixture.RawFixture{}, false
	}

	date, ok := textnorm.ParseLocalizedDateToISO(text, yearHint)
	if !ok {
		return fixture.RawFixture{}, false
	}

	opponent, ok := e.Rosters.Opponents.Contains(text)
	if !ok {
		return fixture.RawFixture{}, false
	}
	side := e.sideOf(text, opponent)
	if side == fixture.SideUnresolved {
		return fixture.RawFixture{}, false
	}

	tracked := e.Resolver.TrackedName()
	raw := fixture.RawFixture{
		Source:      e.Source,
		Date:        date,
		Competition: e.Rules.DefaultCompetition,
		Status:      fixture.StatusScheduled,
	}
	if side == fixture.SideHome {
		raw.HomeTeam, raw.AwayTeam = tracked, opponent
	} else {
		raw.HomeTeam, raw.AwayTeam = opponent, tracked
	}
	if kickoff, ok := textnorm.ExtractKickoff(text); ok {
		raw.Kickoff = kickoff
	}
	if stadium, ok := e.Rosters.Stadiums.Contains(text); ok {
		raw.Stadium = stadium
	}
	if competition, ok := e.Rosters.Competitions.Contains(text); ok {
		raw.Competition = competition
	}
	if round := textnorm.ParseRound(text); round.Label != "" {
		raw.RoundLabel = round.Label
		raw.RoundNumber = round.Number
	}

	if home, away, ok := e.score(text, side); ok {
		raw.HomeScore = fixture.IntPtr(home)
		raw.AwayScore = fixture.IntPtr(away)
		raw.Status = fixture.StatusFinished
	}
	return raw, true
}

// ExtractLines applies Extract to every line, keeping document order.
func (e LineExtractor) ExtractLines(lines []string, yearHint int) []fixture.RawFixture {
	out := make([]fixture.RawFixture, 0)
	for _, line := range lines {
		if raw, ok := e.Extract(line, yearHint); ok {
			out = append(out, raw)
		}
	}
	return out
}

func (e LineExtractor) sideOf(text, opponent string) fixture.Side {
	if side := SideFromMarkers(text); side != fixture.SideUnresolved || e.Rules.RequireSideMarker {
		return side
	}

	normalized := textnorm.NormalizeTeamName(text)
	opponentAt := strings.Index(normalized, textnorm.NormalizeTeamName(opponent))
	trackedAt := -1
	for _, variant := range e.Rosters.TrackedClub {
		if idx := strings.Index(normalized, textnorm.NormalizeTeamName(variant)); idx >= 0 && (trackedAt < 0 || idx < trackedAt) {
			trackedAt = idx
		}
	}
	switch {
	case trackedAt < 0 || opponentAt < 0:
		return fixture.SideUnresolved
	case trackedAt < opponentAt:
		return fixture.SideHome
	default:
		return fixture.SideAway
	}
}

func (e LineExtractor) score(text string, side fixture.Side) (int, int, bool) {
	if e.Rules.Score == nil || e.Rules.Finished == nil || !e.Rules.Finished(text) {
		return 0, 0, false
	}
	m := e.Rules.Score.FindStringSubmatch(text)
	if len(m) < 3 {
		return 0, 0, false
	}
	first, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	second, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	if e.Rules.TrackedFirst && side == fixture.SideAway {
		first, second = second, first
	}
	return first, second, true
}

// SideFromMarkers reads an explicit HOME/AWAY label from text.
func SideFromMarkers(text string) fixture.Side {
	home := homeMarkerRegex.MatchString(text)
	away := awayMarkerRegex.MatchString(text)
	switch {
	case home && !away:
		return fixture.SideHome
	case away && !home:
		return fixture.SideAway
	default:
		return fixture.SideUnresolved
	}
}
