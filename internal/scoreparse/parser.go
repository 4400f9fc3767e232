// Package scoreparse turns pasted daily-game share texts into score records.
//
// Each format tag maps to one extraction rule. Rules only see the raw text and
// fill the fields their game defines; the Parser stamps the remaining fields.
package scoreparse

import (
	"sort"
	"strings"
	"time"

	"github.com/park285/daily-scores-bot/internal/domain"
)

const dateLayout = "2006-01-02"

// Input is what a rule gets to look at.
type Input struct {
	Tag         string
	NominalDate string
	Text        string
}

// extraction holds the fields one rule produced.
type extraction struct {
	Name     string
	Score    string
	Date     string
	Detail   *string
	Metric01 *float64
	Metric02 *int
	Metric03 *int
}

type rule func(in Input) (extraction, error)

var rules = map[string]rule{
	"#Worldle":          parseWorldle,
	"Wordle":            parseWordle,
	"#travle":           parseTravle,
	"#travle_usa":       parseTravle,
	"#travle_gbr":       parseTravle,
	"Factle.app":        parseFactle,
	"boxofficega.me":    parseBoxOffice,
	"Atlantic":          parseAtlantic,
	"Connections":       parseConnections,
	"#Emovi":            parseEmovi,
	"Daily Crosswordle": parseCrosswordle,
}

// tagsByLength is longest first so "#travle_usa" is tried before "#travle".
var tagsByLength = func() []string {
	out := make([]string, 0, len(rules))
	for t := range rules {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// Tags lists every format tag the parser handles.
func Tags() []string {
	return append([]string(nil), tagsByLength...)
}

// TrimLeading drops the whitespace a chat client may put before a share post.
// Rule offsets count from the tag, so text handed to Parse after DetectTag
// must be trimmed the same way.
func TrimLeading(text string) string {
	return strings.TrimLeft(text, " \t\r\n")
}

// DetectTag returns the format tag a pasted message starts with.
func DetectTag(text string) (string, bool) {
	trimmed := TrimLeading(text)
	for _, t := range tagsByLength {
		if strings.HasPrefix(trimmed, t) {
			return t, true
		}
	}
	return "", false
}

// Parser is safe for concurrent use.
type Parser struct {
	now func() time.Time
	loc *time.Location
}

type Option func(*Parser)

// WithClock overrides the clock used for AddedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLocation sets the zone AddedAt is expressed in.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{now: time.Now, loc: Eastern()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Eastern returns America/New_York, or a fixed -05:00 zone when tzdata is missing.
func Eastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// Parse dispatches on the format tag and assembles a complete record.
func (p *Parser) Parse(tag, nominalDate, submitterID, text string) (*domain.ScoreRecord, error) {
	fn, ok := rules[tag]
	if !ok {
		return nil, &ParseError{Kind: KindSoft, Reason: "unknown format tag " + tag, Err: ErrUnknownTag}
	}
	ex, err := fn(Input{Tag: tag, NominalDate: nominalDate, Text: text})
	if err != nil {
		return nil, err
	}
	if !domain.IsKnownGame(ex.Name) {
		return nil, &ParseError{Kind: KindHard, Game: ex.Name, Reason: "rule produced unknown game name", Err: ErrUnknownTag}
	}

	date := nominalDate
	if ex.Date != "" {
		date = ex.Date
	}
	return &domain.ScoreRecord{
		GameDate:    date,
		GameName:    ex.Name,
		GameScore:   ex.Score,
		AddedAt:     p.now().In(p.loc).Truncate(time.Second),
		SubmitterID: submitterID,
		GameDetail:  ex.Detail,
		Metric01:    ex.Metric01,
		Metric02:    ex.Metric02,
		Metric03:    ex.Metric03,
	}, nil
}

// NominalDate is the calendar date of t in the parser's zone.
func (p *Parser) NominalDate(t time.Time) string {
	return t.In(p.loc).Format(dateLayout)
}
