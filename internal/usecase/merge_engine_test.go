package usecase

import (
	"testing"

	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
)

func resolvedFixture(source fixture.Source, date, opponent string, score ...int) fixture.ResolvedFixture {
	f := fixture.ResolvedFixture{
		RawFixture: fixture.RawFixture{
			Source:   source,
			Date:     date,
			HomeTeam: "横浜FM",
			AwayTeam: opponent,
			Status:   fixture.StatusScheduled,
		},
		TrackedSide: fixture.SideHome,
		Opponent:    opponent,
		Key:         date + "-" + opponent,
	}
	if len(score) == 2 {
		f.HomeScore = fixture.IntPtr(score[0])
		f.AwayScore = fixture.IntPtr(score[1])
		f.IsResult = true
		f.Status = fixture.StatusFinished
	}
	return f
}

func TestMergeEngine_ThreeSourceScenario(t *testing.T) {
	t.Parallel()

	engine := NewMergeEngine(nil)
	got := engine.Merge(map[fixture.Source][]fixture.ResolvedFixture{
		fixture.SourcePhew:    {resolvedFixture(fixture.SourcePhew, "2025-03-08", "Club C")},
		fixture.SourceMarinos: {resolvedFixture(fixture.SourceMarinos, "2025-03-01", "Club B", 2, 1)},
		fixture.SourceJLeague: {resolvedFixture(fixture.SourceJLeague, "2025-03-01", "Club B")},
	})

	if len(got) != 2 {
		t.Fatalf("unexpected merged count: got=%d want=2", len(got))
	}
	first := got[0]
	if first.Date != "2025-03-01" || !first.IsResult {
		t.Fatalf("unexpected first fixture: date=%s result=%v", first.Date, first.IsResult)
	}
	if first.HomeScore == nil || *first.HomeScore != 2 || *first.AwayScore != 1 {
		t.Fatalf("expected score backfilled from secondary source, got %v-%v", first.HomeScore, first.AwayScore)
	}
	if first.Source != fixture.SourceJLeague || len(first.Sources) != 2 {
		t.Fatalf("unexpected provenance: source=%s sources=%v", first.Source, first.Sources)
	}

	second := got[1]
	want := resolvedFixture(fixture.SourcePhew, "2025-03-08", "Club C")
	if second.ResolvedFixture.Date != want.Date || second.Opponent != want.Opponent || second.IsResult || second.Key != want.Key {
		t.Fatalf("expected third source fixture unchanged, got %+v", second.ResolvedFixture)
	}
}

func TestMergeEngine_DedupUnionOfFields(t *testing.T) {
	t.Parallel()

	primary := resolvedFixture(fixture.SourceJLeague, "2025-04-05", "鹿島アントラーズ", 1, 0)
	primary.SourceURL = "https://www.jleague.jp/match/j1/2025/040501"
	primary.Key = "jleague-j1-2025-040501"

	mirror := resolvedFixture(fixture.SourcePhew, "2025-04-05", "鹿島アントラーズ", 2, 0)
	mirror.Kickoff = "14:00"
	mirror.Stadium = "日産スタジアム"

	got := NewMergeEngine(nil).Merge(map[fixture.Source][]fixture.ResolvedFixture{
		fixture.SourceJLeague: {primary},
		fixture.SourcePhew:    {mirror},
	})
	if len(got) != 1 {
		t.Fatalf("unexpected merged count: got=%d want=1", len(got))
	}
	merged := got[0]
	if merged.Kickoff != "14:00" || merged.Stadium != "日産スタジアム" {
		t.Fatalf("expected union of fields, got kickoff=%q stadium=%q", merged.Kickoff, merged.Stadium)
	}
	if *merged.HomeScore != 1 || *merged.AwayScore != 0 {
		t.Fatalf("expected authoritative score, got %d-%d", *merged.HomeScore, *merged.AwayScore)
	}
	if merged.Key != "jleague-j1-2025-040501" {
		t.Fatalf("expected url key to survive, got %q", merged.Key)
	}
}

func TestMergeEngine_SameDateDifferentOpponents(t *testing.T) {
	t.Parallel()

	got := NewMergeEngine(nil).Merge(map[fixture.Source][]fixture.ResolvedFixture{
		fixture.SourceJLeague: {
			resolvedFixture(fixture.SourceJLeague, "2025-07-20", "上海申花"),
			resolvedFixture(fixture.SourceJLeague, "2025-07-20", "浦和レッズ"),
		},
		fixture.SourceGCal: {resolvedFixture(fixture.SourceGCal, "2025-07-20", "浦和")},
	})
	if len(got) != 2 {
		t.Fatalf("unexpected merged count: got=%d want=2", len(got))
	}
	for _, f := range got {
		if f.Opponent == "浦和レッズ" && len(f.Sources) != 2 {
			t.Fatalf("expected contained opponent name to join the entry, got sources=%v", f.Sources)
		}
	}
}

func TestMergeEngine_SkipsUnknownKeys(t *testing.T) {
	t.Parallel()

	unknown := resolvedFixture(fixture.SourceMarinos, "2025-05-01", "柏レイソル")
	unknown.Key = fixture.UnknownKey
	got := NewMergeEngine(nil).Merge(map[fixture.Source][]fixture.ResolvedFixture{
		fixture.SourceMarinos: {unknown},
	})
	if len(got) != 0 {
		t.Fatalf("expected unknown key to be skipped, got %d fixtures", len(got))
	}
}

func TestReconcile_Rules(t *testing.T) {
	t.Parallel()

	authority := fixture.SourceJLeague
	merged := func(f fixture.ResolvedFixture) fixture.MergedFixture {
		return fixture.MergedFixture{ResolvedFixture: f, Sources: []fixture.Source{f.Source}}
	}

	t.Run("authoritative base backfills", func(t *testing.T) {
		existing := resolvedFixture(fixture.SourcePhew, "2025-02-15", "新潟", 1, 3)
		existing.Stadium = "デンカS"
		existing.Kickoff = "14:00"
		incoming := resolvedFixture(fixture.SourceJLeague, "2025-02-15", "アルビレックス新潟")
		incoming.Competition = "J1"

		got := Reconcile(merged(existing), incoming, authority)
		if got.Source != fixture.SourceJLeague || got.Opponent != "アルビレックス新潟" {
			t.Fatalf("expected authoritative base, got source=%s opponent=%s", got.Source, got.Opponent)
		}
		if !got.IsResult || *got.HomeScore != 1 || got.Stadium != "デンカS" || got.Kickoff != "14:00" {
			t.Fatalf("expected backfilled score and metadata, got %+v", got.ResolvedFixture)
		}
		if got.Competition != "J1" {
			t.Fatalf("unexpected competition: got=%q want=J1", got.Competition)
		}
	})

	t.Run("both results authoritative supersedes", func(t *testing.T) {
		existing := resolvedFixture(fixture.SourceMarinos, "2025-02-22", "浦和レッズ", 0, 0)
		incoming := resolvedFixture(fixture.SourceJLeague, "2025-02-22", "浦和レッズ", 1, 0)

		got := Reconcile(merged(existing), incoming, authority)
		if *got.HomeScore != 1 || *got.AwayScore != 0 {
			t.Fatalf("unexpected score: got=%d-%d want=1-0", *got.HomeScore, *got.AwayScore)
		}
	})

	t.Run("lower priority result keeps authoritative score", func(t *testing.T) {
		existing := resolvedFixture(fixture.SourceJLeague, "2025-04-12", "鹿島アントラーズ", 2, 1)
		incoming := resolvedFixture(fixture.SourcePhew, "2025-04-12", "鹿島アントラーズ", 2, 2)
		incoming.Stadium = "日産スタジアム"

		got := Reconcile(merged(existing), incoming, authority)
		if *got.HomeScore != 2 || *got.AwayScore != 1 {
			t.Fatalf("unexpected score: got=%d-%d want=2-1", *got.HomeScore, *got.AwayScore)
		}
		if got.Stadium != "日産スタジアム" {
			t.Fatalf("unexpected stadium: got=%q want=%q", got.Stadium, "日産スタジアム")
		}
	})

	t.Run("lower priority result replaces non-authoritative score", func(t *testing.T) {
		existing := resolvedFixture(fixture.SourceMarinos, "2025-04-19", "柏レイソル", 0, 0)
		incoming := resolvedFixture(fixture.SourcePhew, "2025-04-19", "柏レイソル", 1, 0)

		got := Reconcile(merged(existing), incoming, authority)
		if *got.HomeScore != 1 || *got.AwayScore != 0 {
			t.Fatalf("unexpected score: got=%d-%d want=1-0", *got.HomeScore, *got.AwayScore)
		}
	})

	t.Run("overlay keeps competition when incoming has none", func(t *testing.T) {
		existing := resolvedFixture(fixture.SourceMarinos, "2025-03-15", "FC東京")
		existing.Competition = "J1"
		existing.RoundLabel = "第5節"
		existing.RoundNumber = 5
		incoming := resolvedFixture(fixture.SourceGCal, "2025-03-15", "FC東京")
		incoming.Stadium = "味の素スタジアム"

		got := Reconcile(merged(existing), incoming, authority)
		if got.Competition != "J1" || got.RoundLabel != "第5節" || got.RoundNumber != 5 {
			t.Fatalf("unexpected competition/round: %q %q %d", got.Competition, got.RoundLabel, got.RoundNumber)
		}
		if got.Stadium != "味の素スタジアム" || got.Source != fixture.SourceMarinos {
			t.Fatalf("unexpected overlay: stadium=%q source=%s", got.Stadium, got.Source)
		}
		if len(got.Sources) != 2 || got.Sources[1] != fixture.SourceGCal {
			t.Fatalf("unexpected sources: %v", got.Sources)
		}
	})
}

func TestPartition_Invariant(t *testing.T) {
	t.Parallel()

	fixtures := []fixture.MergedFixture{
		{ResolvedFixture: resolvedFixture(fixture.SourceJLeague, "2025-02-15", "新潟", 1, 3)},
		{ResolvedFixture: resolvedFixture(fixture.SourceJLeague, "2025-02-22", "浦和")},
		{ResolvedFixture: resolvedFixture(fixture.SourceJLeague, "2025-03-01", "川崎", 0, 0)},
	}
	results, upcoming := Partition(fixtures)
	if len(results)+len(upcoming) != len(fixtures) {
		t.Fatalf("partition lost fixtures: got=%d want=%d", len(results)+len(upcoming), len(fixtures))
	}
	for _, f := range results {
		if !f.IsResult {
			t.Fatalf("unexpected upcoming fixture in results: %+v", f)
		}
	}
	for _, f := range upcoming {
		if f.IsResult {
			t.Fatalf("unexpected result in upcoming: %+v", f)
		}
	}
}

func TestSortFixtures_DateThenKickoff(t *testing.T) {
	t.Parallel()

	a := resolvedFixture(fixture.SourceJLeague, "2025-03-01", "A")
	b := resolvedFixture(fixture.SourceJLeague, "2025-03-01", "B")
	b.Kickoff = "19:00"
	c := resolvedFixture(fixture.SourceJLeague, "2025-02-01", "C")
	c.Kickoff = "14:00"
	fixtures := []fixture.MergedFixture{{ResolvedFixture: a}, {ResolvedFixture: b}, {ResolvedFixture: c}}

	SortFixtures(fixtures)
	got := []string{fixtures[0].Opponent, fixtures[1].Opponent, fixtures[2].Opponent}
	want := []string{"C", "B", "A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got=%v want=%v", got, want)
		}
	}
}
