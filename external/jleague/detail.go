package jleague

import (
	"strconv"

	"github.com/riskibarqy/marinos-fixtures/external/scrape"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/textnorm"
)

const finishedStatus = "試合終了"

// ParseDetail reads a match detail page. It reports false when the page
// carries neither team names nor a score.
func ParseDetail(content []byte) (fixture.MatchDetail, bool) {
	doc, err := scrape.Parse(content)
	if err != nil {
		return fixture.MatchDetail{}, false
	}
	root := doc.Selection

	detail := fixture.MatchDetail{
		HomeTeam: scrape.FirstText(root, ".teamName.home"),
		AwayTeam: scrape.FirstText(root, ".teamName.away"),
		Stadium:  scrape.FirstText(root, ".stadiumInfo .stadiumName", ".matchData .stadium"),
	}

	homeScore, homeOK := parseScore(scrape.FirstText(root, ".matchScore .score.home", ".matchScore .home .score"))
	awayScore, awayOK := parseScore(scrape.FirstText(root, ".matchScore .score.away", ".matchScore .away .score"))
	if homeOK && awayOK {
		detail.HomeScore = fixture.IntPtr(homeScore)
		detail.AwayScore = fixture.IntPtr(awayScore)
	}

	if kickoff, ok := textnorm.ExtractKickoff(scrape.FirstText(root, ".matchData .time", ".matchData .kickoff")); ok {
		detail.Kickoff = kickoff
	}

	detail.Status = scrape.FirstText(root, ".matchStatus")
	if detail.Status == "" {
		if detail.HasScore() {
			detail.Status = finishedStatus
		} else {
			detail.Status = "vs"
		}
	}

	if detail.HomeTeam == "" && detail.AwayTeam == "" && !detail.HasScore() {
		return fixture.MatchDetail{}, false
	}
	return detail, true
}

func parseScore(text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	n, err := strconv.Atoi(textnorm.NormalizeTeamName(text))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
