package scores

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/park285/daily-scores-bot/internal/domain"
)

// higherIsBetter lists games whose score is points rather than guesses or time.
var higherIsBetter = map[string]bool{
	domain.GameBoxOffice: true,
}

// scoreValue turns a stored score into a comparable number where lower is
// better. Times ("12:05") become seconds, guess counts ("10/14", "+2") their
// leading integer. Anything else, including failed "X/6" and "?/8", reports false.
func scoreValue(game, score string) (float64, bool) {
	score = strings.TrimSpace(score)
	if score == "" || score[0] == 'X' || score[0] == '?' {
		return 0, false
	}

	var v float64
	if m, sec, ok := strings.Cut(score, ":"); ok {
		mins, err1 := strconv.Atoi(strings.TrimSpace(m))
		secs, err2 := strconv.Atoi(strings.TrimSpace(sec))
		if err1 != nil || err2 != nil {
			return 0, false
		}
		v = float64(mins*60 + secs)
	} else {
		end := strings.IndexFunc(score, func(r rune) bool {
			return r != '+' && r != '-' && r != '.' && !unicode.IsDigit(r)
		})
		if end < 0 {
			end = len(score)
		}
		n, err := strconv.ParseFloat(score[:end], 64)
		if err != nil {
			return 0, false
		}
		v = n
	}
	if higherIsBetter[game] {
		v = -v
	}
	return v, true
}

// betterScore orders a before b: readable scores by value, then failed or
// unreadable ones, with submission time breaking ties.
func betterScore(a, b *domain.ScoreRecord) bool {
	av, aok := scoreValue(a.GameName, a.GameScore)
	bv, bok := scoreValue(b.GameName, b.GameScore)
	if aok != bok {
		return aok
	}
	if aok && av != bv {
		return av < bv
	}
	return a.AddedAt.Before(b.AddedAt)
}
