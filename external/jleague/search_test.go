package jleague

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/roster"
)

func newTestParser() *Parser {
	set := roster.Default()
	return NewParser("", set, fixture.NewTeamResolver(set.TrackedClub, set.Opponents))
}

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read testdata %s: %v", name, err)
	}
	return raw
}

func TestParseSearch_HeadingContext(t *testing.T) {
	t.Parallel()

	stubs, strategy := newTestParser().ParseSearch(readTestdata(t, "search.html"), 2025)
	if strategy != "headings" {
		t.Fatalf("unexpected strategy: got=%q want=headings", strategy)
	}
	if len(stubs) != 3 {
		t.Fatalf("unexpected stub count: got=%d want=3", len(stubs))
	}

	first := stubs[0]
	if first.Date != "2025-02-15" || first.SourceURL != "https://www.jleague.jp/match/j1/2025/021501" {
		t.Fatalf("unexpected first stub: date=%q url=%q", first.Date, first.SourceURL)
	}
	if first.Competition != "明治安田J1リーグ" || first.RoundLabel != "第1節" || first.RoundNumber != 1 {
		t.Fatalf("unexpected first competition: %q %q %d", first.Competition, first.RoundLabel, first.RoundNumber)
	}
	if first.HomeTeam != "アルビレックス新潟" || first.AwayTeam != "横浜FM" {
		t.Fatalf("unexpected first teams: %q vs %q", first.HomeTeam, first.AwayTeam)
	}
	if first.HomeScore == nil || *first.HomeScore != 1 || *first.AwayScore != 3 {
		t.Fatalf("expected search page score 1-3, got %v-%v", first.HomeScore, first.AwayScore)
	}

	second := stubs[1]
	if second.Date != "2025-02-22" || second.RoundLabel != "第2節" || second.HomeScore != nil {
		t.Fatalf("unexpected second stub: %+v", second)
	}

	third := stubs[2]
	if third.SourceURL != "https://www.jleague.jp/match/acl/2025/032601" || third.RoundLabel != "MD8" {
		t.Fatalf("unexpected third stub: url=%q round=%q", third.SourceURL, third.RoundLabel)
	}
	if third.Competition != "AFCチャンピオンズリーグエリート" {
		t.Fatalf("unexpected third competition: %q", third.Competition)
	}
}

func TestFoldSearch_StateResetsPerHeading(t *testing.T) {
	t.Parallel()

	elements := []element{
		{Tag: "a", Text: "横浜FM vs 柏レイソル", Href: "/match/j1/2025/010101/"},
		{Tag: "h4", Text: "2025年4月5日(土)"},
		{Tag: "h5", Text: "ルヴァンカップ 第1節"},
		{Tag: "a", Text: "横浜FM vs 柏レイソル", Href: "/match/leaguecup/2025/040501/"},
		{Tag: "a", Text: "チケット", Href: "/match/leaguecup/2025/040501/ticket/"},
		{Tag: "h4", Text: "日程未定"},
		{Tag: "h5", Text: "天皇杯"},
		{Tag: "a", Text: "横浜FM vs 水戸ホーリーホック", Href: "/match/emperor/2025/041201/"},
		{Tag: "a", Text: "一覧", Href: "/match/"},
		{Tag: "a", Text: "vs", Href: "/news/123/"},
	}

	got := foldSearch(elements, 2025, fixture.JLeagueBaseURL)
	if len(got) != 3 {
		t.Fatalf("unexpected fixture count: got=%d want=3", len(got))
	}
	if got[0].Date != "" {
		t.Fatalf("expected link before any heading to carry no date, got %q", got[0].Date)
	}
	if got[1].Date != "2025-04-05" || got[1].Competition != "ルヴァンカップ" || got[1].RoundLabel != "第1節" {
		t.Fatalf("unexpected cup stub: %+v", got[1])
	}
	if got[2].Date != "2025-04-05" || got[2].Competition != "天皇杯" || got[2].RoundLabel != "" {
		t.Fatalf("expected unparsable date heading to keep previous date and new competition, got %+v", got[2])
	}
	for _, stub := range got {
		if stub.SourceURL == "https://www.jleague.jp/match" {
			t.Fatalf("expected short link text to be skipped, got %+v", stub)
		}
	}
}

func TestParseSearch_TextFallback(t *testing.T) {
	t.Parallel()

	content := []byte(`<html><body><div class="list">
<p>2025年5月3日 横浜FM 2 試合終了 0 FC東京 日産スタジアム 15:00</p>
<p>2025年5月10日 ガンバ大阪 0 予定 0 横浜FM</p>
<p>お知らせ</p>
</div></body></html>`)

	stubs, strategy := newTestParser().ParseSearch(content, 2025)
	if strategy != "text" {
		t.Fatalf("unexpected strategy: got=%q want=text", strategy)
	}
	if len(stubs) != 2 {
		t.Fatalf("unexpected fixture count: got=%d want=2", len(stubs))
	}
	if stubs[0].HomeScore == nil || *stubs[0].HomeScore != 2 || *stubs[0].AwayScore != 0 {
		t.Fatalf("unexpected finished score: %v-%v", stubs[0].HomeScore, stubs[0].AwayScore)
	}
	if stubs[0].Stadium != "日産スタジアム" || stubs[0].Kickoff != "15:00" {
		t.Fatalf("unexpected stadium/kickoff: %q %q", stubs[0].Stadium, stubs[0].Kickoff)
	}
	if stubs[1].HomeScore != nil || stubs[1].HomeTeam != "ガンバ大阪" {
		t.Fatalf("unexpected scheduled fixture: %+v", stubs[1])
	}
}

func TestParseSearch_StructuralSelectors(t *testing.T) {
	t.Parallel()

	content := []byte(`<html><body><table>
<tr data-match-id="77"><td>2025年6月1日</td><td>横浜FM vs 鹿島アントラーズ</td><td><a href="/match/j1/2025/060107/">詳細</a></td></tr>
</table></body></html>`)

	stubs, strategy := newTestParser().ParseSearch(content, 2025)
	if strategy != "structural" {
		t.Fatalf("unexpected strategy: got=%q want=structural", strategy)
	}
	if len(stubs) != 1 || stubs[0].SourceURL != "https://www.jleague.jp/match/j1/2025/060107" {
		t.Fatalf("unexpected structural stubs: %+v", stubs)
	}
}

func TestFoldSearch_ScoreRequiresFinishedMarker(t *testing.T) {
	t.Parallel()

	elements := []element{
		{Tag: "h4", Text: "2025年3月1日(土)"},
		{Tag: "a", Text: "横浜FM 2-1 浦和レッズ", Href: "/match/j1/2025/030101/"},
		{Tag: "a", Text: "横浜FM 2-1 浦和レッズ 試合終了", Href: "/match/j1/2025/030102/"},
	}

	got := foldSearch(elements, 2025, fixture.JLeagueBaseURL)
	if len(got) != 2 {
		t.Fatalf("unexpected fixture count: got=%d want=2", len(got))
	}
	if got[0].HomeScore != nil || got[0].Status != fixture.StatusScheduled {
		t.Fatalf("expected unmarked score to be ignored: got=%+v", got[0])
	}
	if got[1].HomeScore == nil || *got[1].HomeScore != 2 || *got[1].AwayScore != 1 || got[1].Status != fixture.StatusFinished {
		t.Fatalf("unexpected finished stub: got=%+v", got[1])
	}
	if got[1].AwayTeam != "浦和レッズ" {
		t.Fatalf("unexpected away team: got=%q want=%q", got[1].AwayTeam, "浦和レッズ")
	}
}
