package fixture

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/riskibarqy/marinos-fixtures/internal/platform/textnorm"
)

// UnknownKey marks a record that carries neither date nor opponent.
const UnknownKey = "unknown"

const JLeagueBaseURL = "https://www.jleague.jp"

const jleagueKeyPrefix = "jleague-"

var matchSubresourceRegex = regexp.MustCompile(`/(ticket|player|live|photo|coach|stats|map|report|news|event|commentary)(/.*)?$`)

type KeyInput struct {
	URL         string
	Date        string
	Opponent    string
	AwayTeam    string
	Kickoff     string
	Competition string
}

// NormalizeMatchURL drops query, fragment and trailing slashes. On
// jleague.jp match pages the per-match sub-pages are dropped too, so every
// page of one match maps to the same URL.
func NormalizeMatchURL(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	if idx := strings.IndexAny(value, "?#"); idx >= 0 {
		value = value[:idx]
	}
	if isJLeagueMatchURL(value) {
		value = matchSubresourceRegex.ReplaceAllString(value, "")
	}
	value = strings.TrimRight(value, "/")
	if value == "" || strings.HasSuffix(value, ":") {
		return "", false
	}
	return value, true
}

// MakeAbsoluteURL resolves href against base; absolute hrefs pass through.
func MakeAbsoluteURL(href, base string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}

// DeriveKey builds the deduplication key of a fixture: a URL-derived key when
// a jleague.jp match link exists, otherwise date-opponent-kickoff-competition
// with trailing empty parts omitted. Other sites reuse one URL across many
// matches, so their links never form a key.
func DeriveKey(in KeyInput) string {
	if normalized, ok := NormalizeMatchURL(in.URL); ok {
		if key, ok := keyFromURL(normalized); ok {
			return key
		}
	}

	opponent := strings.TrimSpace(in.Opponent)
	if opponent == "" {
		opponent = strings.TrimSpace(in.AwayTeam)
	}
	date := strings.TrimSpace(in.Date)
	if date == "" && opponent == "" {
		return UnknownKey
	}

	parts := []string{date, opponent, strings.TrimSpace(in.Kickoff), strings.TrimSpace(in.Competition)}
	for len(parts) > 2 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, "-")
}

func keyFromURL(normalized string) (string, bool) {
	if !isJLeagueMatchURL(normalized) {
		return "", false
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return "", false
	}
	idx := strings.Index(parsed.Path, "/match/")
	rest := strings.Trim(parsed.Path[idx+len("/match/"):], "/")
	if rest == "" {
		return "", false
	}
	return jleagueKeyPrefix + strings.ReplaceAll(rest, "/", "-"), true
}

func isJLeagueMatchURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(parsed.Hostname()), "jleague.jp") &&
		strings.Contains(parsed.Path, "/match/")
}

// IsURLKey reports whether key was derived from a jleague.jp match URL.
func IsURLKey(key string) bool {
	return strings.HasPrefix(key, jleagueKeyPrefix)
}

// StorageKey is the persisted identity of a fixture: its date and the
// normalized opponent. It does not move when a later run adds a kickoff,
// relabels the competition or loses the detail link.
func StorageKey(date, opponent string) string {
	date = strings.TrimSpace(date)
	opponent = textnorm.NormalizeTeamName(opponent)
	switch {
	case date == "" && opponent == "":
		return UnknownKey
	case opponent == "":
		return date
	default:
		return date + "-" + opponent
	}
}
