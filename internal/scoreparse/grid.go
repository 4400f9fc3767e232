package scoreparse

import (
	"strconv"
	"strings"

	"github.com/park285/daily-scores-bot/internal/domain"
)

const (
	factleColumns    = 5
	connectionsMax   = 7
	connectionsGroup = 4
	emoviGuesses     = 3
)

// Factle: header, puzzle question, one frog grid row per guess, then "Top N%" on a win.
func parseFactle(in Input) (extraction, error) {
	score, err := runeSlice([]rune(in.Text), 14, 17)
	if err != nil {
		return extraction{}, soft(domain.GameFactle, err, "")
	}
	lines := splitLines(in.Text)
	detail, err := lineAt(lines, 1)
	if err != nil {
		return extraction{}, soft(domain.GameFactle, err, "")
	}

	var frogs [factleColumns]bool
	for _, line := range lines[2:] {
		r := []rune(line)
		for pos := 0; pos < factleColumns && pos < len(r); pos++ {
			if r[pos] == glyphFrog {
				frogs[pos] = true
			}
		}
	}
	found := 0
	for _, f := range frogs {
		found += flag(f)
	}

	ex := extraction{
		Name:     domain.GameFactle,
		Score:    score,
		Detail:   strPtr(detail),
		Metric03: intPtr(found),
	}

	final, _ := lineAt(lines, len(lines)-1)
	if !strings.Contains(final, "Top") {
		ex.Score = "X/5"
		ex.Metric02 = intPtr(0)
		return ex, nil
	}
	// A win without a readable percentile keeps the record; Metric01 stays nil.
	if pct, ok := leadingNumber(runeWindow([]rune(final), 4, len([]rune(final)))); ok {
		ex.Metric01 = floatPtr(pct)
	}
	ex.Metric02 = intPtr(1)
	return ex, nil
}

// leadingNumber reads "10%" or "2.5% 🐸" as 10 and 2.5.
func leadingNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Box office lines: a trophy line carries the total, each check mark is a guessed movie.
// Without a trophy line the score stays empty.
func parseBoxOffice(in Input) (extraction, error) {
	lines := splitLines(in.Text)
	detail, err := lineAt(lines, 1)
	if err != nil {
		return extraction{}, soft(domain.GameBoxOffice, err, "")
	}

	ex := extraction{Name: domain.GameBoxOffice, Detail: strPtr(detail)}
	guessed := 0
	for i := range lines {
		line, _ := lineAt(lines, i)
		if strings.ContainsRune(line, glyphTrophy) {
			tokens := strings.Split(line, " ")
			if len(tokens) < 2 {
				return extraction{}, soft(domain.GameBoxOffice, ErrOutOfRange, "")
			}
			ex.Score = tokens[1]
		}
		if strings.ContainsRune(line, glyphCheck) {
			guessed++
		}
	}
	ex.Metric01 = floatPtr(float64(guessed))
	return ex, nil
}

// Connections: only grid rows count. A row of one repeated color is a solved group.
func parseConnections(in Input) (extraction, error) {
	var rows []string
	for _, line := range splitLines(strings.TrimSpace(in.Text)) {
		line = strings.TrimRight(line, "\r")
		if containsAny(line, squareYellow, squareGreen, squareBlue, squarePurple) {
			rows = append(rows, line)
		}
	}
	if len(rows) == 0 {
		return extraction{}, soft(domain.GameConnections, ErrInvalidFormat, invalidFormat)
	}

	purpleFirst := strings.Count(rows[0], string(squarePurple)) == connectionsGroup
	solved := 0
	for _, row := range rows {
		if uniform(row) {
			solved++
		}
	}
	completed := solved == connectionsGroup

	score := "X/" + strconv.Itoa(connectionsMax)
	if completed {
		score = strconv.Itoa(len(rows)) + "/" + strconv.Itoa(connectionsMax)
	}
	return extraction{
		Name:     domain.GameConnections,
		Score:    score,
		Metric01: floatPtr(float64(flag(purpleFirst))),
		Metric02: intPtr(flag(completed)),
	}, nil
}

// Emovi: the guess row is the first line with a red or green square; the green
// square's position is the guess that solved it.
func parseEmovi(in Input) (extraction, error) {
	var row []rune
	found := false
	for _, line := range splitLines(in.Text) {
		if containsAny(line, squareRed, squareGreen) {
			row = []rune(line)
			found = true
			break
		}
	}
	if !found {
		return extraction{}, hard(domain.GameEmovi, ErrNoScoreLine)
	}

	green := -1
	for i, c := range row {
		if c == squareGreen {
			green = i
		}
	}
	total := strconv.Itoa(emoviGuesses)
	if green < 0 {
		return extraction{Name: domain.GameEmovi, Score: "X/" + total, Metric02: intPtr(0)}, nil
	}
	return extraction{
		Name:     domain.GameEmovi,
		Score:    strconv.Itoa(green+1) + "/" + total,
		Metric02: intPtr(1),
	}, nil
}
