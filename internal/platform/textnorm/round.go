package textnorm

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	sectionRoundRegex  = regexp.MustCompile(`第\s*(\d+)\s*節`)
	matchdayRoundRegex = regexp.MustCompile(`(?i)MD\s*(\d+)`)
)

type Round struct {
	Competition string
	Label       string
	Number      int
}

// ParseRound pulls a "第N節" or "MDn" round out of competition text. The
// matched phrase is removed from Competition unless nothing would remain.
func ParseRound(competition string) Round {
	original := NormalizeText(competition)
	if original == "" {
		return Round{}
	}

	text := foldWidth(original)
	loc := sectionRoundRegex.FindStringSubmatchIndex(text)
	label := ""
	if loc != nil {
		label = "第" + text[loc[2]:loc[3]] + "節"
	} else if loc = matchdayRoundRegex.FindStringSubmatchIndex(text); loc != nil {
		label = "MD" + text[loc[2]:loc[3]]
	}
	if loc == nil {
		return Round{Competition: original}
	}

	number, err := strconv.Atoi(text[loc[2]:loc[3]])
	if err != nil {
		number = 0
	}

	stripped := NormalizeText(text[:loc[0]] + " " + text[loc[1]:])
	stripped = strings.Trim(stripped, " ・/|-")
	if stripped == "" {
		stripped = original
	}

	return Round{
		Competition: stripped,
		Label:       label,
		Number:      number,
	}
}
