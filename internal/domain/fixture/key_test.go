package fixture

import "testing"

func TestNormalizeMatchURL(t *testing.T) {
	t.Parallel()

	want := "https://www.jleague.jp/match/j1/2025/021501"
	inputs := []string{
		"https://www.jleague.jp/match/j1/2025/021501/",
		"https://www.jleague.jp/match/j1/2025/021501/ticket/",
		"https://www.jleague.jp/match/j1/2025/021501/player/",
		"https://www.jleague.jp/match/j1/2025/021501/live/",
		"https://www.jleague.jp/match/j1/2025/021501?ref=top",
		"https://www.jleague.jp/match/j1/2025/021501#section",
		"https://www.jleague.jp/match/j1/2025/021501/ticket/online/?utm_source=google",
	}
	for _, input := range inputs {
		got, ok := NormalizeMatchURL(input)
		if !ok || got != want {
			t.Fatalf("normalize %q: got=%q ok=%v want=%q", input, got, ok, want)
		}
	}

	if _, ok := NormalizeMatchURL(""); ok {
		t.Fatalf("expected empty url to be rejected")
	}
	if _, ok := NormalizeMatchURL("   "); ok {
		t.Fatalf("expected blank url to be rejected")
	}
}

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	ticket := DeriveKey(KeyInput{URL: "https://www.jleague.jp/match/j1/2025/021501/ticket/"})
	live := DeriveKey(KeyInput{URL: "https://www.jleague.jp/match/j1/2025/021501/live/"})
	other := DeriveKey(KeyInput{URL: "https://www.jleague.jp/match/j1/2025/021502/"})
	if ticket != live {
		t.Fatalf("expected sub-pages of one match to share a key: ticket=%q live=%q", ticket, live)
	}
	if ticket == other {
		t.Fatalf("expected different matches to get different keys: %q", ticket)
	}
	if ticket != "jleague-j1-2025-021501" {
		t.Fatalf("unexpected jleague key: got=%q", ticket)
	}

	if got := DeriveKey(KeyInput{URL: "https://www.f-marinos.com/matches/2025/0301/", Date: "2025-03-01", Opponent: "浦和"}); got != "2025-03-01-浦和" {
		t.Fatalf("expected non-jleague url to fall back to composite key: got=%q", got)
	}
	if !IsURLKey(ticket) || IsURLKey("2025-03-01-浦和") {
		t.Fatalf("unexpected url key classification for %q", ticket)
	}

	cases := []struct {
		name string
		in   KeyInput
		want string
	}{
		{
			name: "composite key",
			in:   KeyInput{Date: "2025-02-15", Opponent: "新潟", Kickoff: "14:00", Competition: "J1リーグ"},
			want: "2025-02-15-新潟-14:00-J1リーグ",
		},
		{
			name: "away team fallback",
			in:   KeyInput{Date: "2025-02-15", AwayTeam: "浦和", Kickoff: "14:00"},
			want: "2025-02-15-浦和-14:00",
		},
		{
			name: "date and opponent only",
			in:   KeyInput{Date: "2025-02-15", Opponent: "浦和"},
			want: "2025-02-15-浦和",
		},
		{
			name: "unidentifiable",
			in:   KeyInput{},
			want: UnknownKey,
		},
	}
	for _, tc := range cases {
		if got := DeriveKey(tc.in); got != tc.want {
			t.Fatalf("%s: got=%q want=%q", tc.name, got, tc.want)
		}
	}
}

func TestNormalizeMatchURL_KeepsOtherSitePaths(t *testing.T) {
	t.Parallel()

	got, ok := NormalizeMatchURL("https://www.f-marinos.com/event/2025/fan-day/?ref=top")
	if !ok || got != "https://www.f-marinos.com/event/2025/fan-day" {
		t.Fatalf("unexpected normalized url: got=%q ok=%v", got, ok)
	}
}

func TestDeriveKey_SharedCalendarURL(t *testing.T) {
	t.Parallel()

	teamPage := "https://www.f-marinos.com/"
	first := DeriveKey(KeyInput{URL: teamPage, Date: "2025-02-15", Opponent: "アルビレックス新潟", Kickoff: "14:00"})
	second := DeriveKey(KeyInput{URL: teamPage, Date: "2025-02-22", Opponent: "浦和レッズ", Kickoff: "19:03"})
	if first == second {
		t.Fatalf("expected events sharing one url to keep distinct keys: got=%q", first)
	}
	if first != "2025-02-15-アルビレックス新潟-14:00" {
		t.Fatalf("unexpected key: got=%q want=%q", first, "2025-02-15-アルビレックス新潟-14:00")
	}
}

func TestStorageKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		date     string
		opponent string
		want     string
	}{
		{date: "2025-05-03", opponent: "FC東京", want: "2025-05-03-FC東京"},
		{date: "2025-05-03", opponent: "ＦＣ 東京", want: "2025-05-03-FC東京"},
		{date: "2025-05-03", opponent: "", want: "2025-05-03"},
		{date: "", opponent: "", want: UnknownKey},
	}
	for _, tc := range cases {
		if got := StorageKey(tc.date, tc.opponent); got != tc.want {
			t.Fatalf("storage key %q/%q: got=%q want=%q", tc.date, tc.opponent, got, tc.want)
		}
	}
}

func TestMakeAbsoluteURL(t *testing.T) {
	t.Parallel()

	if got := MakeAbsoluteURL("/match/j1/2025/021501/", JLeagueBaseURL); got != "https://www.jleague.jp/match/j1/2025/021501/" {
		t.Fatalf("unexpected absolute url: got=%q", got)
	}
	if got := MakeAbsoluteURL("match/x", JLeagueBaseURL+"/"); got != "https://www.jleague.jp/match/x" {
		t.Fatalf("unexpected absolute url: got=%q", got)
	}
	if got := MakeAbsoluteURL("https://example.com/a", JLeagueBaseURL); got != "https://example.com/a" {
		t.Fatalf("expected absolute href to pass through, got=%q", got)
	}
	if got := MakeAbsoluteURL("", JLeagueBaseURL); got != "" {
		t.Fatalf("expected empty href to stay empty, got=%q", got)
	}
}
