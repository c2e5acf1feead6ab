// Package phew reads the yearly schedule pages of the soccer.phew.homeip.net
// mirror. Pages are served in EUC-JP.
package phew

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/riskibarqy/marinos-fixtures/external/scrape"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/textnorm"
)

var (
	stadiumRegex  = regexp.MustCompile(`[(（]([^)）]+)[)）]`)
	opponentRegex = regexp.MustCompile(`第\d+節\s+(.+?)戦`)
	roundRegex    = regexp.MustCompile(`第\d+節`)
	scoreRegex    = regexp.MustCompile(`(\d+)\s*[○●△]\s*(\d+)`)
	cupRoundRegex = regexp.MustCompile(`^(?:\d+回|準々決勝|準決勝|決勝)$`)
)

// BaseURL resolves the relative match links of the mirror pages.
const BaseURL = "http://soccer.phew.homeip.net"

type Parser struct {
	resolver *fixture.TeamResolver
	baseURL  string
}

func NewParser(resolver *fixture.TeamResolver) *Parser {
	return &Parser{resolver: resolver, baseURL: BaseURL}
}

// Parse reads every h2 competition heading and the table that follows it.
// The page covers one season, so yearHint supplies the year of "M/D" dates.
func (p *Parser) Parse(content []byte, yearHint int) []fixture.RawFixture {
	doc, err := scrape.Parse(content)
	if err != nil {
		return nil
	}

	out := make([]fixture.RawFixture, 0)
	doc.Find("h2").Each(func(_ int, heading *goquery.Selection) {
		competition := textnorm.NormalizeText(heading.Text())
		table := heading.NextFiltered("table")
		if table.Length() == 0 {
			return
		}
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			if raw, ok := p.parseRow(row.Find("td"), competition, yearHint); ok {
				out = append(out, raw)
			}
		})
	})
	return out
}

func (p *Parser) parseRow(cells *goquery.Selection, competition string, yearHint int) (fixture.RawFixture, bool) {
	if cells.Length() < 3 {
		return fixture.RawFixture{}, false
	}
	sideText := textnorm.NormalizeTeamName(cells.Eq(0).Text())
	whenText := textnorm.NormalizeText(cells.Eq(1).Text())
	info := textnorm.NormalizeText(cells.Eq(2).Text())

	var side fixture.Side
	switch sideText {
	case "H":
		side = fixture.SideHome
	case "A":
		side = fixture.SideAway
	default:
		return fixture.RawFixture{}, false
	}

	date, ok := textnorm.ParseLocalizedDateToISO(whenText, yearHint)
	if !ok {
		return fixture.RawFixture{}, false
	}
	opponent := opponentOf(info)
	if opponent == "" {
		return fixture.RawFixture{}, false
	}

	tracked := p.resolver.TrackedName()
	raw := fixture.RawFixture{
		Source:      fixture.SourcePhew,
		Date:        date,
		Competition: competition,
		RoundLabel:  roundRegex.FindString(info),
		Status:      fixture.StatusScheduled,
	}
	if round := textnorm.ParseRound(raw.RoundLabel); round.Number > 0 {
		raw.RoundNumber = round.Number
	}
	if side == fixture.SideHome {
		raw.HomeTeam, raw.AwayTeam = tracked, opponent
	} else {
		raw.HomeTeam, raw.AwayTeam = opponent, tracked
	}
	if kickoff, ok := textnorm.ExtractKickoff(whenText); ok {
		raw.Kickoff = kickoff
	}
	if m := stadiumRegex.FindStringSubmatch(info); m != nil {
		raw.Stadium = textnorm.NormalizeText(m[1])
	}
	if href, exists := cells.Eq(2).Find("a").First().Attr("href"); exists {
		raw.SourceURL = fixture.MakeAbsoluteURL(href, p.baseURL)
	}

	if cells.Length() > 3 {
		if tracked, other, ok := parseScore(cells.Eq(3).Text()); ok {
			if side == fixture.SideHome {
				raw.HomeScore, raw.AwayScore = fixture.IntPtr(tracked), fixture.IntPtr(other)
			} else {
				raw.HomeScore, raw.AwayScore = fixture.IntPtr(other), fixture.IntPtr(tracked)
			}
			raw.Status = fixture.StatusFinished
		}
	}
	return raw, true
}

// opponentOf reads "第N節 <opponent>戦", falling back to the last word
// ending in 戦 that is not a cup round such as "2回戦".
func opponentOf(info string) string {
	if m := opponentRegex.FindStringSubmatch(info); m != nil {
		return textnorm.NormalizeText(m[1])
	}
	fields := strings.Fields(stadiumRegex.ReplaceAllString(info, " "))
	for i := len(fields) - 1; i >= 0; i-- {
		name, found := strings.CutSuffix(fields[i], "戦")
		if !found || name == "" || cupRoundRegex.MatchString(name) {
			continue
		}
		return name
	}
	return ""
}

// parseScore returns the tracked club's goals first; the ○●△ marker is
// the club's own result.
func parseScore(text string) (int, int, bool) {
	m := scoreRegex.FindStringSubmatch(textnorm.NormalizeText(text))
	if m == nil {
		return 0, 0, false
	}
	tracked, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	other, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return tracked, other, true
}
