package textnorm

import (
	"regexp"
	"strconv"
)

var (
	fullDateRegex   = regexp.MustCompile(`(\d{4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
	dottedFullRegex = regexp.MustCompile(`(\d{4})[./](\d{1,2})[./](\d{1,2})`)
	kanjiDateRegex  = regexp.MustCompile(`(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
	dotDateRegex    = regexp.MustCompile(`(?:^|[^\d.])(\d{1,2})\.(\d{1,2})(?:[^\d.]|$)`)
	slashDateRegex  = regexp.MustCompile(`(?:^|[^\d/])(\d{1,2})/(\d{1,2})(?:[^\d/]|$)`)
)

// ParseLocalizedDateToISO reads the date notations used by the fixture
// sources and returns YYYY-MM-DD. The "2025年2月6日" and "2025.2.6" forms
// carry their own year; "2月6日", "2.6" and "2/6" need yearHint > 0. ISO
// input is not a source notation and is rejected.
func ParseLocalizedDateToISO(text string, yearHint int) (string, bool) {
	text = foldWidth(NormalizeText(text))
	if text == "" {
		return "", false
	}

	if m := fullDateRegex.FindStringSubmatch(text); m != nil {
		return buildISODate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := dottedFullRegex.FindStringSubmatch(text); m != nil {
		return buildISODate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if yearHint <= 0 {
		return "", false
	}
	if m := kanjiDateRegex.FindStringSubmatch(text); m != nil {
		return buildISODate(yearHint, atoi(m[1]), atoi(m[2]))
	}
	if m := dotDateRegex.FindStringSubmatch(text); m != nil {
		return buildISODate(yearHint, atoi(m[1]), atoi(m[2]))
	}
	if m := slashDateRegex.FindStringSubmatch(text); m != nil {
		return buildISODate(yearHint, atoi(m[1]), atoi(m[2]))
	}
	return "", false
}

// YearOf returns the year component of an ISO date, or 0.
func YearOf(isoDate string) int {
	if len(isoDate) < 4 {
		return 0
	}
	return atoi(isoDate[:4])
}

func buildISODate(year, month, day int) (string, bool) {
	if year < 1900 || year > 9999 {
		return "", false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	return strconv.Itoa(year) + "-" + pad2(month) + "-" + pad2(day), true
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
