package scorepresenter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/park285/daily-scores-bot/internal/msgcat"
	"github.com/park285/daily-scores-bot/internal/util"
	"github.com/park285/daily-scores-bot/pkg/scoredto"
)

// Lists longer than this fold behind KakaoTalk's "see more".
const foldThreshold = 5

// PrefixProvider exposes the command prefix replies should mention.
type PrefixProvider interface {
	Prefix() string
}

// Formatter renders score DTOs into chat text using catalog templates.
// When a template is missing or broken the built-in English text is used.
type Formatter struct {
	catalog        *msgcat.Catalog
	prefixProvider PrefixProvider
}

func NewFormatter(catalog *msgcat.Catalog, provider PrefixProvider) *Formatter {
	return &Formatter{catalog: catalog, prefixProvider: provider}
}

func (f *Formatter) Prefix() string {
	if f == nil || f.prefixProvider == nil {
		return ""
	}
	return strings.TrimSpace(f.prefixProvider.Prefix())
}

func (f *Formatter) render(key string, data map[string]any, fallback string) string {
	if f == nil || f.catalog == nil {
		return fallback
	}
	out, err := f.catalog.Render(key, data)
	if err != nil || strings.TrimSpace(out) == "" {
		return fallback
	}
	return out
}

// Added confirms a stored record. who is the display name; the submitter id is used when it is blank.
func (f *Formatter) Added(rec *scoredto.ScoreRecord, who string) string {
	if rec == nil {
		return ""
	}
	if strings.TrimSpace(who) == "" {
		who = rec.SubmitterID
	}
	return f.render("score.added", map[string]any{
		"Game":      rec.GameName,
		"Submitter": who,
		"Date":      rec.GameDate,
		"Score":     rec.GameScore,
	}, fmt.Sprintf("Added %s for %s on %s with score %s", rec.GameName, who, rec.GameDate, rec.GameScore))
}

func (f *Formatter) Rejected(game, reason string) string {
	return f.render("score.rejected", map[string]any{"Game": game, "Reason": reason},
		fmt.Sprintf("Couldn't read that %s result: %s", game, reason))
}

func (f *Formatter) Failed(game string) string {
	return f.render("score.failed", map[string]any{"Game": game},
		fmt.Sprintf("Something went wrong reading that %s result. Please try posting it again.", game))
}

func (f *Formatter) Duplicate(game, submitter, date string) string {
	return f.render("score.duplicate", map[string]any{"Game": game, "Submitter": submitter, "Date": date},
		fmt.Sprintf("%s already has a %s score for %s.", submitter, game, date))
}

func (f *Formatter) UnknownGame(game string, known []string) string {
	games := strings.Join(known, ", ")
	return f.render("score.unknown_game", map[string]any{"Game": game, "Games": games},
		fmt.Sprintf("Unknown game %q. Known games: %s", game, games))
}

func (f *Formatter) UnknownCommand() string {
	prefix := f.Prefix()
	return f.render("command.unknown", map[string]any{"Prefix": prefix},
		fmt.Sprintf("Unknown command. Send %shelp for the list.", prefix))
}

func (f *Formatter) Help() string {
	prefix := f.Prefix()
	header := f.render("help.header", nil, "🎲 Daily game scores")
	body := f.render("help.body", map[string]any{"Prefix": prefix}, fmt.Sprintf(`• %sscores [game] [n]
  your latest scores (default 10)
• %stoday <game>
  everyone's score for today
• %shelp
  this message`, prefix, prefix, prefix))
	return util.FoldUnderHeader(header+"\n"+body, header, "Help")
}

func (f *Formatter) Recent(records []*scoredto.ScoreRecord) string {
	if len(records) == 0 {
		return f.render("list.empty", nil, "No scores recorded yet.")
	}
	header := f.render("list.recent_header", nil, "📊 Recent scores")
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, f.render("list.recent_item", map[string]any{
			"Date":  rec.GameDate,
			"Game":  rec.GameName,
			"Score": displayScore(rec.GameScore),
		}, fmt.Sprintf("• %s %s %s", rec.GameDate, rec.GameName, displayScore(rec.GameScore))))
	}
	return foldList(header, lines)
}

func (f *Formatter) Daily(game, date string, records []*scoredto.ScoreRecord) string {
	if len(records) == 0 {
		return f.render("list.empty", nil, "No scores recorded yet.")
	}
	header := f.render("list.daily_header", map[string]any{"Game": game, "Date": date},
		fmt.Sprintf("🗓 %s on %s", game, date))
	lines := make([]string, 0, len(records))
	for i, rec := range records {
		rank := strconv.Itoa(i + 1)
		lines = append(lines, f.render("list.daily_item", map[string]any{
			"Rank":      rank,
			"Submitter": rec.SubmitterID,
			"Score":     displayScore(rec.GameScore),
		}, fmt.Sprintf("%s. %s %s", rank, rec.SubmitterID, displayScore(rec.GameScore))))
	}
	return foldList(header, lines)
}

func foldList(header string, lines []string) string {
	content := header + "\n" + strings.Join(lines, "\n")
	if len(lines) <= foldThreshold {
		return content
	}
	return util.FoldUnderHeader(content, header, "Scores")
}

func displayScore(score string) string {
	if strings.TrimSpace(score) == "" {
		return "-"
	}
	return score
}
