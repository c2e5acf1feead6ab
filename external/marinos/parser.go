// Package marinos scrapes the club's own schedule and result pages.
package marinos

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/riskibarqy/marinos-fixtures/external/scrape"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/roster"
)

const matchSelector = "[data-match], .match-row, .match-item, tr[data-match-id], .match-card"

var scoreRegex = regexp.MustCompile(`(\d+)\s*[-–]\s*(\d+)`)

// PageKind tells the parser whether scores on the page are final.
type PageKind int

const (
	PageSchedule PageKind = iota
	PageResult
)

type Parser struct {
	schedule scrape.LineExtractor
	result   scrape.LineExtractor
}

func NewParser(rosters roster.Set, resolver *fixture.TeamResolver) *Parser {
	extractor := func(finished bool) scrape.LineExtractor {
		return scrape.LineExtractor{
			Source:   fixture.SourceMarinos,
			Rosters:  rosters,
			Resolver: resolver,
			Rules: scrape.LineRules{
				Score:             scoreRegex,
				Finished:          func(string) bool { return finished },
				TrackedFirst:      true,
				RequireSideMarker: true,
			},
		}
	}
	return &Parser{
		schedule: extractor(false),
		result:   extractor(true),
	}
}

// Parse reads match blocks, falling back to body text lines when none of
// the known block selectors match. The pages list many matches, so records
// carry no source URL and are keyed by date and opponent.
func (p *Parser) Parse(content []byte, yearHint int, kind PageKind) ([]fixture.RawFixture, string) {
	doc, err := scrape.Parse(content)
	if err != nil {
		return nil, ""
	}
	lines := p.schedule
	if kind == PageResult {
		lines = p.result
	}

	return scrape.Chain(doc,
		scrape.Strategy{Name: "blocks", Extract: func(doc *goquery.Document) []fixture.RawFixture {
			found := make([]fixture.RawFixture, 0)
			doc.Find(matchSelector).Each(func(_ int, sel *goquery.Selection) {
				if raw, ok := lines.Extract(blockText(sel), yearHint); ok {
					found = append(found, raw)
				}
			})
			return found
		}},
		scrape.Strategy{Name: "text", Extract: func(doc *goquery.Document) []fixture.RawFixture {
			return lines.ExtractLines(scrape.TextLines(doc), yearHint)
		}},
	)
}

// blockText joins the text of a block's children with spaces so adjacent
// cells do not run together.
func blockText(sel *goquery.Selection) string {
	children := sel.Children()
	if children.Length() == 0 {
		return sel.Text()
	}
	parts := children.Map(func(_ int, child *goquery.Selection) string {
		return child.Text()
	})
	return strings.Join(parts, " ")
}
