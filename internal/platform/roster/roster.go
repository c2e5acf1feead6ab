// Package roster holds the name tables used for containment matching while
// scraping: tracked-club variants, opponents, stadiums and competitions.
package roster

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/textnorm"
)

// NameRoster finds a known name inside free text and returns its canonical form.
type NameRoster interface {
	Contains(text string) (string, bool)
}

type Entry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

type needle struct {
	normalized string
	canonical  string
}

// List matches by normalized substring containment. The longest matching
// alias wins so "J1百年構想リーグ" beats "J1".
type List struct {
	entries []Entry
	needles []needle
}

func NewList(entries ...Entry) *List {
	l := &List{entries: make([]Entry, 0, len(entries))}
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		entry.Name = name
		l.entries = append(l.entries, entry)

		for _, alias := range append([]string{name}, entry.Aliases...) {
			normalized := textnorm.NormalizeTeamName(alias)
			if normalized == "" {
				continue
			}
			l.needles = append(l.needles, needle{normalized: normalized, canonical: name})
		}
	}

	sort.SliceStable(l.needles, func(i, j int) bool {
		return len(l.needles[i].normalized) > len(l.needles[j].normalized)
	})
	return l
}

// NewNames builds a List where every name is its own canonical form.
func NewNames(names ...string) *List {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Name: name})
	}
	return NewList(entries...)
}

func (l *List) Contains(text string) (string, bool) {
	if l == nil {
		return "", false
	}
	haystack, breaks := normalizeFields(text)
	if haystack == "" {
		return "", false
	}
	for _, n := range l.needles {
		if n.normalized == haystack {
			return n.canonical, true
		}
	}
	for _, n := range l.needles {
		if containsAtBoundary(haystack, n.normalized, breaks) {
			return n.canonical, true
		}
	}
	return "", false
}

// normalizeFields normalizes each whitespace-separated field of text and
// joins them, recording the byte offsets where a field began.
func normalizeFields(text string) (string, map[int]bool) {
	var b strings.Builder
	breaks := make(map[int]bool)
	for _, field := range strings.FieldsFunc(text, isSeparator) {
		if b.Len() > 0 {
			breaks[b.Len()] = true
		}
		b.WriteString(textnorm.NormalizeTeamName(field))
	}
	return b.String(), breaks
}

// containsAtBoundary reports whether needle occurs in haystack without a
// Latin letter or digit run continuing into its first character, so
// "C大阪" does not match inside "FC大阪".
func containsAtBoundary(haystack, needle string, breaks map[int]bool) bool {
	first, _ := utf8.DecodeRuneInString(needle)
	for offset := 0; offset < len(haystack); {
		i := strings.Index(haystack[offset:], needle)
		if i < 0 {
			return false
		}
		start := offset + i
		if !isASCIIAlnum(first) || start == 0 || breaks[start] {
			return true
		}
		if prev, _ := utf8.DecodeLastRuneInString(haystack[:start]); !isASCIIAlnum(prev) {
			return true
		}
		_, size := utf8.DecodeRuneInString(haystack[start:])
		offset = start + size
	}
	return false
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '\u200b'
}

func isASCIIAlnum(r rune) bool {
	return r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Names returns the canonical names in declaration order.
func (l *List) Names() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.entries))
	for _, entry := range l.entries {
		out = append(out, entry.Name)
	}
	return out
}

// Canonical maps a possibly shortened team name ("新潟") onto a roster name
// ("アルビレックス新潟"). Containment is tried first, then a fuzzy rank
// search over canonical names. Unknown names come back unchanged.
func (l *List) Canonical(name string) string {
	name = textnorm.NormalizeText(name)
	if l == nil || name == "" {
		return name
	}
	if canonical, ok := l.Contains(name); ok {
		return canonical
	}

	source := textnorm.NormalizeTeamName(name)
	if utf8.RuneCountInString(source) < 2 {
		return name
	}

	targets := make([]string, 0, len(l.entries))
	lookup := make(map[string]string, len(l.entries))
	for _, entry := range l.entries {
		normalized := textnorm.NormalizeTeamName(entry.Name)
		targets = append(targets, normalized)
		lookup[normalized] = entry.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(source, targets)
	if len(ranks) == 0 {
		return name
	}
	sort.Sort(ranks)
	return lookup[ranks[0].Target]
}
