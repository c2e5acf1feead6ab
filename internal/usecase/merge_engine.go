package usecase

import (
	"sort"
	"strings"

	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/textnorm"
)

// DefaultSourcePriority applies the official league first.
var DefaultSourcePriority = []fixture.Source{
	fixture.SourceJLeague,
	fixture.SourceMarinos,
	fixture.SourcePhew,
	fixture.SourceGCal,
}

// MergeEngine folds per-source batches into one fixture per match. Batches
// are applied in priority order and the first source in that order is
// authoritative.
type MergeEngine struct {
	priority []fixture.Source
}

func NewMergeEngine(priority []fixture.Source) *MergeEngine {
	if len(priority) == 0 {
		priority = DefaultSourcePriority
	}
	return &MergeEngine{priority: append([]fixture.Source(nil), priority...)}
}

func (e *MergeEngine) Authority() fixture.Source {
	return e.priority[0]
}

// Order returns the sources of bySource in application order: configured
// sources first, then any others by name.
func (e *MergeEngine) Order(bySource map[fixture.Source][]fixture.ResolvedFixture) []fixture.Source {
	out := make([]fixture.Source, 0, len(bySource))
	seen := make(map[fixture.Source]struct{}, len(bySource))
	for _, source := range e.priority {
		if _, ok := bySource[source]; ok {
			out = append(out, source)
			seen[source] = struct{}{}
		}
	}
	rest := make([]fixture.Source, 0)
	for source := range bySource {
		if _, ok := seen[source]; !ok {
			rest = append(rest, source)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(out, rest...)
}

// mergeEntry is one slot of the date-keyed table.
type mergeEntry struct {
	fixture fixture.MergedFixture
}

// Merge returns the reconciled fixtures sorted by date then kickoff.
// Records whose key is unknown are skipped.
func (e *MergeEngine) Merge(bySource map[fixture.Source][]fixture.ResolvedFixture) []fixture.MergedFixture {
	byDate := make(map[string][]*mergeEntry)
	order := make([]*mergeEntry, 0)
	authority := e.Authority()

	for _, source := range e.Order(bySource) {
		for _, f := range bySource[source] {
			if f.Key == "" || f.Key == fixture.UnknownKey {
				continue
			}
			if entry := findEntry(byDate[f.Date], f.Opponent); entry != nil {
				entry.fixture = Reconcile(entry.fixture, f, authority)
				continue
			}
			entry := &mergeEntry{fixture: fixture.MergedFixture{
				ResolvedFixture: f,
				Sources:         []fixture.Source{f.Source},
			}}
			byDate[f.Date] = append(byDate[f.Date], entry)
			order = append(order, entry)
		}
	}

	out := make([]fixture.MergedFixture, 0, len(order))
	for _, entry := range order {
		out = append(out, entry.fixture)
	}
	SortFixtures(out)
	return out
}

// findEntry returns the entry of one date whose opponent matches. Two
// opponents match when their normalized names are equal or one contains
// the other.
func findEntry(entries []*mergeEntry, opponent string) *mergeEntry {
	want := textnorm.NormalizeTeamName(opponent)
	for _, entry := range entries {
		have := textnorm.NormalizeTeamName(entry.fixture.Opponent)
		if want == "" || have == "" || want == have ||
			strings.Contains(want, have) || strings.Contains(have, want) {
			return entry
		}
	}
	return nil
}

// Reconcile applies f on top of existing:
//   - existing unscored and f scored: keep existing, overlay f, take f's score.
//   - f authoritative and existing not: f becomes the base, gaps are
//     backfilled from existing.
//   - both scored and f authoritative: f's score supersedes.
//   - otherwise f's non-empty fields overlay existing; the score is only
//     replaced when existing has no authoritative record.
//
// Competition and round always prefer f's non-empty values.
func Reconcile(existing fixture.MergedFixture, f fixture.ResolvedFixture, authority fixture.Source) fixture.MergedFixture {
	fAuthoritative := f.Source == authority
	existingAuthoritative := existing.HasSource(authority)

	var merged fixture.ResolvedFixture
	switch {
	case !existing.IsResult && f.IsResult:
		merged = overlay(existing.ResolvedFixture, f)
		merged = withScore(merged, f)
	case fAuthoritative && !existingAuthoritative:
		merged = withIdentity(overlay(existing.ResolvedFixture, f), f)
		merged.Source = f.Source
		merged = withScore(merged, f)
	case existing.IsResult && f.IsResult && fAuthoritative:
		merged = overlay(existing.ResolvedFixture, f)
		merged = withScore(merged, f)
	default:
		merged = overlay(existing.ResolvedFixture, f)
		if f.IsResult && !existingAuthoritative {
			merged = withScore(merged, f)
		}
	}

	merged.Key = pickKey(existing.Key, f.Key)
	return fixture.MergedFixture{
		ResolvedFixture: merged,
		Sources:         appendSource(existing.Sources, f.Source),
	}
}

// overlay copies f's non-empty metadata onto base. Date, side and team
// names stay with base since the entry was joined on them.
func overlay(base fixture.ResolvedFixture, f fixture.ResolvedFixture) fixture.ResolvedFixture {
	out := base
	out.Kickoff = firstNonEmpty(f.Kickoff, base.Kickoff)
	out.Competition = firstNonEmpty(f.Competition, base.Competition)
	out.RoundLabel = firstNonEmpty(f.RoundLabel, base.RoundLabel)
	if f.RoundNumber > 0 {
		out.RoundNumber = f.RoundNumber
	}
	out.Stadium = firstNonEmpty(f.Stadium, base.Stadium)
	out.SourceURL = firstNonEmpty(f.SourceURL, base.SourceURL)
	out.HomeTeam = firstNonEmpty(base.HomeTeam, f.HomeTeam)
	out.AwayTeam = firstNonEmpty(base.AwayTeam, f.AwayTeam)
	out.Opponent = firstNonEmpty(base.Opponent, f.Opponent)
	if out.TrackedSide == fixture.SideUnresolved {
		out.TrackedSide = f.TrackedSide
	}
	return out
}

// withIdentity takes team names and side from an authoritative record.
func withIdentity(dst fixture.ResolvedFixture, src fixture.ResolvedFixture) fixture.ResolvedFixture {
	if src.TrackedSide == fixture.SideUnresolved {
		return dst
	}
	dst.TrackedSide = src.TrackedSide
	dst.HomeTeam = firstNonEmpty(src.HomeTeam, dst.HomeTeam)
	dst.AwayTeam = firstNonEmpty(src.AwayTeam, dst.AwayTeam)
	dst.Opponent = firstNonEmpty(src.Opponent, dst.Opponent)
	return dst
}

// withScore adopts src's score when it has one.
func withScore(dst fixture.ResolvedFixture, src fixture.ResolvedFixture) fixture.ResolvedFixture {
	if !src.HasScore() {
		return dst
	}
	dst.HomeScore = fixture.IntPtr(*src.HomeScore)
	dst.AwayScore = fixture.IntPtr(*src.AwayScore)
	dst.IsResult = true
	dst.Status = fixture.StatusFinished
	return dst
}

func pickKey(existing, incoming string) string {
	if fixture.IsURLKey(existing) || incoming == "" {
		return existing
	}
	if fixture.IsURLKey(incoming) || existing == "" {
		return incoming
	}
	return existing
}

func appendSource(sources []fixture.Source, source fixture.Source) []fixture.Source {
	out := append([]fixture.Source(nil), sources...)
	for _, s := range out {
		if s == source {
			return out
		}
	}
	return append(out, source)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// SortFixtures orders by date then kickoff; fixtures without kickoff sort
// last within their date.
func SortFixtures(fixtures []fixture.MergedFixture) {
	sort.SliceStable(fixtures, func(i, j int) bool {
		a, b := fixtures[i], fixtures[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if (a.Kickoff == "") != (b.Kickoff == "") {
			return a.Kickoff != ""
		}
		return a.Kickoff < b.Kickoff
	})
}

// Partition splits fixtures into results and upcoming, keeping order.
func Partition(fixtures []fixture.MergedFixture) ([]fixture.MergedFixture, []fixture.MergedFixture) {
	results := make([]fixture.MergedFixture, 0)
	upcoming := make([]fixture.MergedFixture, 0)
	for _, f := range fixtures {
		if f.IsResult {
			results = append(results, f)
		} else {
			upcoming = append(upcoming, f)
		}
	}
	return results, upcoming
}
