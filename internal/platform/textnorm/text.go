// Package textnorm turns raw strings pulled out of fixture pages into
// canonical forms: collapsed whitespace, ISO dates, comparable team names.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

var (
	kickoffRegex = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	dashReplacer = strings.NewReplacer(
		"－", "-",
		"―", "-",
		"ー", "-",
		"–", "-",
		"—", "-",
		"‐", "-",
	)
)

// NormalizeText collapses every whitespace run (including NBSP and the
// ideographic space) into one ASCII space and trims the result.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\u00a0' || r == '\u3000' || r == '\u200b'
}

// NormalizeTeamName folds full-width Latin letters and digits to half-width,
// maps dash variants to '-', and drops whitespace entirely.
func NormalizeTeamName(s string) string {
	if s == "" {
		return ""
	}
	folded := foldWidth(s)
	folded = dashReplacer.Replace(folded)
	return strings.Map(func(r rune) rune {
		if isSpace(r) {
			return -1
		}
		return r
	}, folded)
}

// TeamNamesEqual reports whether both names are identical once width and
// separator variants are normalized.
func TeamNamesEqual(a, b string) bool {
	na, nb := NormalizeTeamName(a), NormalizeTeamName(b)
	return na != "" && na == nb
}

// foldWidth narrows full-width ASCII only; katakana and kanji stay as they are.
func foldWidth(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0xFF01 && r <= 0xFF5E {
			b.WriteString(width.Narrow.String(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ExtractKickoff returns the first valid HH:MM time in text, zero padded.
func ExtractKickoff(text string) (string, bool) {
	for _, m := range kickoffRegex.FindAllStringSubmatch(foldWidth(text), -1) {
		hour := atoi(m[1])
		minute := atoi(m[2])
		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			continue
		}
		return pad2(hour) + ":" + m[2], true
	}
	return "", false
}
