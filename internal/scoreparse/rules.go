package scoreparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/park285/daily-scores-bot/internal/domain"
)

const invalidFormat = "Invalid format"

// "#Worldle #807 4/6 (100%)"
func parseWorldle(in Input) (extraction, error) {
	score, err := runeSlice([]rune(in.Text), 14, 17)
	if err != nil {
		return extraction{}, soft(domain.GameWorldle, err, "")
	}
	return extraction{Name: domain.GameWorldle, Score: score}, nil
}

// "Wordle 945 3/6"
func parseWordle(in Input) (extraction, error) {
	if !strings.Contains(in.Text, "/") {
		return extraction{}, soft(domain.GameWordle, ErrInvalidFormat, invalidFormat)
	}
	score, err := runeSlice([]rune(in.Text), 11, 14)
	if err != nil {
		return extraction{}, soft(domain.GameWordle, err, "")
	}
	return extraction{
		Name:     domain.GameWordle,
		Score:    score,
		Metric02: intPtr(flag(!strings.HasPrefix(score, "X"))),
	}, nil
}

// "#travle_usa #412 (3/9)" -> travle_usa, "3/9"
func parseTravle(in Input) (extraction, error) {
	tag := []rune(in.Tag)
	if len(tag) < 2 {
		return extraction{}, soft("", ErrUnknownTag, "")
	}
	name := string(tag[1:])

	r := []rune(in.Text)
	open := indexRune(r, '(')
	closing := indexRune(r, ')')
	if open < 0 || closing < 0 || closing <= open+1 {
		return extraction{}, soft(name, ErrInvalidFormat, invalidFormat)
	}
	score := string(r[open+1 : closing])
	return extraction{
		Name:     name,
		Score:    score,
		Metric02: intPtr(flag(!strings.HasPrefix(score, "?"))),
	}, nil
}

// Atlantic posts look like "Atlantic crossword [4:07] 10/13/2024". The date
// comes from the text; the year falls back to the nominal date.
func parseAtlantic(in Input) (extraction, error) {
	r := []rune(strings.ReplaceAll(in.Text, "[", ""))
	colon := indexRune(r, ':')
	slash := indexRune(r, '/')
	if colon == -1 || slash == -1 {
		return extraction{}, soft(domain.GameAtlantic, ErrInvalidFormat, invalidFormat)
	}

	score := strings.TrimSpace(runeWindow(r, colon-2, colon+3))
	month := zeroPad(strings.TrimSpace(runeWindow(r, slash-2, slash)), 2)
	day := zeroPad(strings.TrimSpace(runeWindow(r, slash+1, slash+3)), 2)

	var year string
	if y := indexRunes(r, []rune("202")); y >= 0 {
		year = runeWindow(r, y, y+4)
	} else {
		year = runeWindow([]rune(in.NominalDate), 0, 4)
	}

	return extraction{
		Name:  domain.GameAtlantic,
		Score: score,
		Date:  fmt.Sprintf("%s-%s-%s", year, month, day),
	}, nil
}

var crosswordleTime = regexp.MustCompile(`(?:(\d+)m\s*)?(\d+)s`)

// Completion is reported even when no time is found; the rule only runs for
// messages that already carried the Crosswordle tag.
func parseCrosswordle(in Input) (extraction, error) {
	ex := extraction{Name: domain.GameCrosswordle, Metric02: intPtr(1)}
	m := crosswordleTime.FindStringSubmatch(in.Text)
	if m == nil {
		return ex, nil
	}
	minutes := 0
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return extraction{}, soft(domain.GameCrosswordle, ErrInvalidFormat, invalidFormat)
		}
		minutes = n
	}
	seconds, err := strconv.Atoi(m[2])
	if err != nil {
		return extraction{}, soft(domain.GameCrosswordle, ErrInvalidFormat, invalidFormat)
	}
	ex.Score = fmt.Sprintf("%d:%s", minutes, zeroPad(strconv.Itoa(seconds), 2))
	return ex, nil
}
