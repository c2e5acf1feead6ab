package jleague

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/riskibarqy/marinos-fixtures/external/scrape"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/textnorm"
)

var (
	anchorScoreRegex = regexp.MustCompile(`(\d+)\s*(?:-|試合終了)\s*(\d+)`)
	anchorTeamsRegex = regexp.MustCompile(`^(.+?)\s*(?:(?i:vs)|\d+\s*(?:-|試合終了|予定)\s*\d+)\s*(.+)$`)
	lineScoreRegex   = regexp.MustCompile(`(\d+)\s*(?:試合終了|予定)\s*(\d+)`)
	matchSubpage     = regexp.MustCompile(`/(ticket|player|live|photo|coach|stats|map|report|news|event|commentary)/.*$`)
)

const structuralSelector = ".match-card, .match-row, tr[data-match-id], [data-match]"

// element is one node of the flattened search page: a date heading (h4), a
// competition heading (h5), or a link.
type element struct {
	Tag  string
	Text string
	Href string
}

// searchState is the accumulator folded over the search page elements.
// Date and Competition hold the context of the most recent heading of
// each kind.
type searchState struct {
	YearHint    int
	BaseURL     string
	Date        string
	Competition string
	Seen        map[string]struct{}
	Fixtures    []fixture.RawFixture
}

func newSearchState(yearHint int, baseURL string) searchState {
	return searchState{
		YearHint: yearHint,
		BaseURL:  baseURL,
		Seen:     make(map[string]struct{}),
	}
}

// foldElement advances the state by one element.
func foldElement(state searchState, el element) searchState {
	text := textnorm.NormalizeText(el.Text)
	switch el.Tag {
	case "h4":
		if iso, ok := textnorm.ParseLocalizedDateToISO(text, state.YearHint); ok {
			state.Date = iso
		}
		return state
	case "h5":
		if text != "" {
			state.Competition = text
		}
		return state
	}

	if !strings.Contains(el.Href, "/match/") {
		return state
	}
	base := matchSubpage.ReplaceAllString(el.Href, "/")
	absolute := fixture.MakeAbsoluteURL(base, state.BaseURL)
	matchURL, ok := fixture.NormalizeMatchURL(absolute)
	if !ok {
		return state
	}
	if _, dup := state.Seen[matchURL]; dup {
		return state
	}
	state.Seen[matchURL] = struct{}{}

	if !strings.Contains(strings.ToLower(text), "vs") && !anchorScoreRegex.MatchString(text) && utf8.RuneCountInString(text) < 5 {
		return state
	}

	round := textnorm.ParseRound(state.Competition)
	stub := fixture.RawFixture{
		Source:      fixture.SourceJLeague,
		Date:        state.Date,
		Competition: round.Competition,
		RoundLabel:  round.Label,
		RoundNumber: round.Number,
		Status:      fixture.StatusScheduled,
		SourceURL:   matchURL,
	}
	if m := anchorTeamsRegex.FindStringSubmatch(text); m != nil {
		stub.HomeTeam = textnorm.NormalizeText(strings.ReplaceAll(m[1], finishedStatus, ""))
		stub.AwayTeam = textnorm.NormalizeText(strings.ReplaceAll(m[2], finishedStatus, ""))
	}
	if home, away, ok := anchorScore(text); ok {
		stub.HomeScore = fixture.IntPtr(home)
		stub.AwayScore = fixture.IntPtr(away)
		stub.Status = fixture.StatusFinished
	}

	state.Fixtures = append(state.Fixtures, stub)
	return state
}

// anchorScore reads the score of a finished match. Anchors without the
// 試合終了 marker carry no score, whatever digits they contain.
func anchorScore(text string) (int, int, bool) {
	if !strings.Contains(text, finishedStatus) {
		return 0, 0, false
	}
	m := anchorScoreRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	home, errHome := strconv.Atoi(m[1])
	away, errAway := strconv.Atoi(m[2])
	if errHome != nil || errAway != nil {
		return 0, 0, false
	}
	return home, away, true
}

func foldSearch(elements []element, yearHint int, baseURL string) []fixture.RawFixture {
	state := newSearchState(yearHint, baseURL)
	for _, el := range elements {
		state = foldElement(state, el)
	}
	return state.Fixtures
}

func searchElements(doc *goquery.Document) []element {
	nodes := doc.Find("h4, h5, a")
	out := make([]element, 0, nodes.Length())
	nodes.Each(func(_ int, sel *goquery.Selection) {
		tag := goquery.NodeName(sel)
		href, _ := sel.Attr("href")
		out = append(out, element{Tag: tag, Text: sel.Text(), Href: strings.TrimSpace(href)})
	})
	return out
}

// ParseSearch reads the club's search result page. Records it returns are
// stubs: team names come from the link text when present and are completed
// by the detail page.
// The second return value names the strategy that matched.
func (p *Parser) ParseSearch(content []byte, yearHint int) ([]fixture.RawFixture, string) {
	doc, err := scrape.Parse(content)
	if err != nil {
		return nil, ""
	}
	return scrape.Chain(doc,
		scrape.Strategy{Name: "headings", Extract: func(doc *goquery.Document) []fixture.RawFixture {
			return foldSearch(searchElements(doc), yearHint, p.baseURL)
		}},
		scrape.Strategy{Name: "structural", Extract: func(doc *goquery.Document) []fixture.RawFixture {
			return p.structural(doc, yearHint)
		}},
		scrape.Strategy{Name: "text", Extract: func(doc *goquery.Document) []fixture.RawFixture {
			return p.lines.ExtractLines(scrape.TextLines(doc), yearHint)
		}},
	)
}

func (p *Parser) structural(doc *goquery.Document, yearHint int) []fixture.RawFixture {
	out := make([]fixture.RawFixture, 0)
	doc.Find(structuralSelector).Each(func(_ int, sel *goquery.Selection) {
		raw, ok := p.lines.Extract(sel.Text(), yearHint)
		if !ok {
			return
		}
		if href, exists := sel.Find(`a[href*="/match/"]`).First().Attr("href"); exists {
			if normalized, ok := fixture.NormalizeMatchURL(fixture.MakeAbsoluteURL(href, p.baseURL)); ok {
				raw.SourceURL = normalized
			}
		}
		out = append(out, raw)
	})
	return out
}
