package scoreparse

import "strings"

const (
	glyphFrog   = '\U0001F438'
	glyphTrophy = '\U0001F3C6'
	glyphCheck  = '✅'

	squareYellow = '\U0001F7E8'
	squareGreen  = '\U0001F7E9'
	squareBlue   = '\U0001F7E6'
	squarePurple = '\U0001F7EA'
	squareRed    = '\U0001F7E5'
)

// Offsets in the share templates count code points, never bytes.

// runeSlice returns runes [start, end) or ErrOutOfRange.
func runeSlice(r []rune, start, end int) (string, error) {
	if start < 0 || end > len(r) || start > end {
		return "", ErrOutOfRange
	}
	return string(r[start:end]), nil
}

// runeWindow returns runes [start, end) with slice-index semantics: a negative
// bound counts from the end of the text, then both bounds clamp to the text.
func runeWindow(r []rune, start, end int) string {
	start, end = windowBound(start, len(r)), windowBound(end, len(r))
	if start >= end {
		return ""
	}
	return string(r[start:end])
}

func windowBound(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}

func indexRune(r []rune, c rune) int {
	for i, v := range r {
		if v == c {
			return i
		}
	}
	return -1
}

func indexRunes(r, sub []rune) int {
	for i := 0; i+len(sub) <= len(r); i++ {
		match := true
		for j, c := range sub {
			if r[i+j] != c {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func containsAny(s string, glyphs ...rune) bool {
	for _, g := range glyphs {
		if strings.ContainsRune(s, g) {
			return true
		}
	}
	return false
}

// zeroPad left-pads s with zeros to width code points, keeping a leading sign in front.
func zeroPad(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	pad := strings.Repeat("0", width-len(r))
	if len(r) > 0 && (r[0] == '+' || r[0] == '-') {
		return string(r[0]) + pad + string(r[1:])
	}
	return pad + s
}

// uniform reports whether every rune of s is the same rune.
func uniform(s string) bool {
	var first rune
	for i, c := range []rune(s) {
		if i == 0 {
			first = c
			continue
		}
		if c != first {
			return false
		}
	}
	return s != ""
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

func lineAt(lines []string, i int) (string, error) {
	if i < 0 || i >= len(lines) {
		return "", ErrOutOfRange
	}
	return strings.TrimRight(lines[i], "\r"), nil
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int { return &n }
func floatPtr(f float64) *float64 { return &f }

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
