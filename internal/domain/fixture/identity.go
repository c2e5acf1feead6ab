package fixture

import (
	"strings"

	"github.com/riskibarqy/marinos-fixtures/internal/platform/textnorm"
)

// NameCanonicalizer maps a scraped team name onto its roster spelling.
type NameCanonicalizer interface {
	Canonical(name string) string
}

// TeamResolver decides whether a team name denotes the tracked club.
type TeamResolver struct {
	variants  []string
	opponents NameCanonicalizer
}

func NewTeamResolver(variants []string, opponents NameCanonicalizer) *TeamResolver {
	normalized := make([]string, 0, len(variants))
	for _, variant := range variants {
		if v := textnorm.NormalizeTeamName(variant); v != "" {
			normalized = append(normalized, v)
		}
	}
	return &TeamResolver{
		variants:  normalized,
		opponents: opponents,
	}
}

// TrackedName is the display name used when a source omits the club's own name.
func (r *TeamResolver) TrackedName() string {
	if len(r.variants) == 0 {
		return ""
	}
	return r.variants[0]
}

func (r *TeamResolver) IsTrackedClub(name string) bool {
	normalized := textnorm.NormalizeTeamName(name)
	if normalized == "" {
		return false
	}
	for _, variant := range r.variants {
		if normalized == variant || strings.Contains(normalized, variant) {
			return true
		}
	}
	return false
}

// ResolveSide returns the tracked club's side and the opponent name. Both
// or neither name resolving is ambiguous and yields SideUnresolved.
func (r *TeamResolver) ResolveSide(home, away string) (Side, string) {
	home = textnorm.NormalizeText(home)
	away = textnorm.NormalizeText(away)
	homeIs := r.IsTrackedClub(home)
	awayIs := r.IsTrackedClub(away)

	switch {
	case homeIs && !awayIs && away != "":
		return SideHome, away
	case awayIs && !homeIs && home != "":
		return SideAway, home
	default:
		return SideUnresolved, ""
	}
}

// DeriveOpponent returns the non-tracked name of a resolved pair.
func (r *TeamResolver) DeriveOpponent(home, away string) string {
	_, opponent := r.ResolveSide(home, away)
	return opponent
}

// Resolve identifies the tracked side of raw. It reports false for records
// without a date or with an ambiguous team pair.
func (r *TeamResolver) Resolve(raw RawFixture) (ResolvedFixture, bool) {
	if strings.TrimSpace(raw.Date) == "" {
		return ResolvedFixture{}, false
	}
	side, opponent := r.ResolveSide(raw.HomeTeam, raw.AwayTeam)
	if side == SideUnresolved {
		return ResolvedFixture{}, false
	}
	if r.opponents != nil {
		opponent = r.opponents.Canonical(opponent)
	}

	raw.HomeTeam = textnorm.NormalizeText(raw.HomeTeam)
	raw.AwayTeam = textnorm.NormalizeText(raw.AwayTeam)
	if !raw.HasScore() {
		raw.HomeScore = nil
		raw.AwayScore = nil
	}
	isResult := raw.HasScore()
	if isResult {
		raw.Status = StatusFinished
	} else {
		raw.Status = StatusScheduled
	}

	resolved := ResolvedFixture{
		RawFixture:  raw,
		TrackedSide: side,
		Opponent:    opponent,
		IsResult:    isResult,
	}
	resolved.Key = DeriveKey(KeyInput{
		URL:         raw.SourceURL,
		Date:        raw.Date,
		Opponent:    opponent,
		AwayTeam:    raw.AwayTeam,
		Kickoff:     raw.Kickoff,
		Competition: raw.Competition,
	})
	return resolved, true
}
