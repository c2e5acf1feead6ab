// Package gcal reads the club's public iCalendar feed.
package gcal

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/roster"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/textnorm"
)

// DefaultCompetition labels events whose summary names no known competition.
const DefaultCompetition = "カレンダー情報"

var (
	versusRegex  = regexp.MustCompile(`(?i)\s*(?:vs\.?|ｖｓ|ＶＳ)\s*`)
	bracketRegex = regexp.MustCompile(`【[^】]*】|\[[^\]]*\]`)
	tokyo        = loadTokyo()
)

func loadTokyo() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

type Parser struct {
	competitions roster.NameRoster
}

func NewParser(competitions roster.NameRoster) *Parser {
	return &Parser{competitions: competitions}
}

// Parse reads every VEVENT. Events without a "home vs away" summary or a
// readable DTSTART are skipped.
func (p *Parser) Parse(content []byte) []fixture.RawFixture {
	cal, err := ics.ParseCalendar(bytes.NewReader(content))
	if err != nil {
		return nil
	}

	out := make([]fixture.RawFixture, 0)
	for _, event := range cal.Events() {
		if raw, ok := p.parseEvent(event); ok {
			out = append(out, raw)
		}
	}
	return out
}

func (p *Parser) parseEvent(event *ics.VEvent) (fixture.RawFixture, bool) {
	summary := textnorm.NormalizeText(propertyValue(event, ics.ComponentPropertySummary))
	home, away, ok := splitSummary(summary)
	if !ok {
		return fixture.RawFixture{}, false
	}
	start, allDay, ok := startOf(event)
	if !ok {
		return fixture.RawFixture{}, false
	}

	raw := fixture.RawFixture{
		Source:      fixture.SourceGCal,
		Date:        start.Format("2006-01-02"),
		Competition: DefaultCompetition,
		HomeTeam:    home,
		AwayTeam:    away,
		Stadium:     textnorm.NormalizeText(propertyValue(event, ics.ComponentPropertyLocation)),
		Status:      fixture.StatusScheduled,
		SourceURL:   strings.TrimSpace(propertyValue(event, ics.ComponentPropertyUrl)),
	}
	if kickoff := start.Format("15:04"); !allDay && kickoff != "00:00" {
		raw.Kickoff = kickoff
	}
	if p.competitions != nil {
		if competition, ok := p.competitions.Contains(summary); ok {
			raw.Competition = competition
		}
	}
	if round := textnorm.ParseRound(summary); round.Label != "" {
		raw.RoundLabel = round.Label
		raw.RoundNumber = round.Number
	}
	return raw, true
}

func splitSummary(summary string) (string, string, bool) {
	parts := versusRegex.Split(summary, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	home := teamPart(parts[0])
	away := teamPart(parts[1])
	if home == "" || away == "" {
		return "", "", false
	}
	return home, away, true
}

// teamPart drops bracketed labels and round phrases around a team name.
func teamPart(text string) string {
	text = textnorm.NormalizeText(bracketRegex.ReplaceAllString(text, " "))
	if text == "" {
		return ""
	}
	return textnorm.ParseRound(text).Competition
}

func propertyValue(event *ics.VEvent, property ics.ComponentProperty) string {
	prop := event.GetProperty(property)
	if prop == nil {
		return ""
	}
	return prop.Value
}

// startOf reads DTSTART in Asia/Tokyo. UTC stamps are converted, floating
// and TZID stamps are read in their zone, and DATE values are all-day.
func startOf(event *ics.VEvent) (time.Time, bool, bool) {
	prop := event.GetProperty(ics.ComponentPropertyDtStart)
	if prop == nil {
		return time.Time{}, false, false
	}
	value := strings.TrimSpace(prop.Value)

	loc := tokyo
	if tzid := prop.ICalParameters[string(ics.ParameterTzid)]; len(tzid) > 0 {
		if named, err := time.LoadLocation(tzid[0]); err == nil {
			loc = named
		}
	}

	if t, err := time.Parse("20060102T150405Z", value); err == nil {
		return t.In(tokyo), false, true
	}
	if t, err := time.ParseInLocation("20060102T150405", value, loc); err == nil {
		return t.In(tokyo), false, true
	}
	if t, err := time.ParseInLocation("20060102", value, tokyo); err == nil {
		return t, true, true
	}
	return time.Time{}, false, false
}
