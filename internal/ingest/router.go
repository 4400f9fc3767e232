package ingest

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/daily-scores-bot/internal/adapter/scorepresenter"
	"github.com/park285/daily-scores-bot/internal/domain"
	"github.com/park285/daily-scores-bot/internal/irisfast"
	"github.com/park285/daily-scores-bot/internal/scoreparse"
	"github.com/park285/daily-scores-bot/internal/service/scores"
)

const defaultHandleTimeout = 15 * time.Second

// Replier is satisfied by irisfast.Egress.
type Replier interface {
	SendText(ctx context.Context, room, message string) error
}

type Config struct {
	Prefix       string
	AllowedRooms []string
	Timeout      time.Duration
}

// Router turns chat messages into score submissions and command replies.
type Router struct {
	svc          *scores.Service
	formatter    *scorepresenter.Formatter
	replier      Replier
	prefix       string
	allowedRooms map[string]struct{}
	timeout      time.Duration
	logger       *zap.Logger
}

func NewRouter(svc *scores.Service, formatter *scorepresenter.Formatter, replier Replier, cfg Config, logger *zap.Logger) (*Router, error) {
	if svc == nil {
		return nil, errors.New("score service is required")
	}
	if replier == nil {
		return nil, errors.New("replier is required")
	}
	if formatter == nil {
		formatter = scorepresenter.NewFormatter(nil, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHandleTimeout
	}
	allowed := make(map[string]struct{})
	for _, room := range cfg.AllowedRooms {
		if normalized := normalizeRoom(room); normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}
	return &Router{
		svc:          svc,
		formatter:    formatter,
		replier:      replier,
		prefix:       strings.TrimSpace(cfg.Prefix),
		allowedRooms: allowed,
		timeout:      timeout,
		logger:       logger,
	}, nil
}

// Prefix implements scorepresenter.PrefixProvider.
func (r *Router) Prefix() string { return r.prefix }

// Handle processes one message. Messages that are neither commands nor known
// share posts are ignored. The returned error is a reply delivery failure.
func (r *Router) Handle(ctx context.Context, msg *irisfast.Message) error {
	if msg == nil || strings.TrimSpace(msg.Msg) == "" {
		return nil
	}
	if !r.roomAllowed(msg.Room) {
		r.logger.Debug("room_ignored", zap.String("room", msg.Room))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	presenter := scorepresenter.NewPresenter(func(room, message string) error {
		return r.replier.SendText(ctx, room, message)
	})

	trimmed := strings.TrimSpace(msg.Msg)
	if r.prefix != "" && strings.HasPrefix(trimmed, r.prefix) {
		return presenter.Reply(msg.Room, r.command(ctx, msg, strings.TrimPrefix(trimmed, r.prefix)))
	}

	tag, ok := scoreparse.DetectTag(msg.Msg)
	if !ok {
		return nil
	}
	return presenter.Reply(msg.Room, r.submit(ctx, msg, tag))
}

func (r *Router) submit(ctx context.Context, msg *irisfast.Message, tag string) string {
	sub, err := r.svc.Submit(ctx, scores.SubmitRequest{
		Tag:         tag,
		SubmitterID: msg.SenderID(),
		Room:        msg.Room,
		Text:        msg.Msg,
	})
	if err == nil {
		return r.formatter.Added(scorepresenter.ToDTORecord(sub.Record), msg.SenderName())
	}

	game := gameLabel(tag)
	var perr *scoreparse.ParseError
	var dup *scores.DuplicateError
	switch {
	case errors.As(err, &dup):
		who := msg.SenderName()
		if who == "" {
			who = dup.Record.SubmitterID
		}
		return r.formatter.Duplicate(dup.Record.GameName, who, dup.Record.GameDate)
	case errors.As(err, &perr):
		if perr.Game != "" {
			game = perr.Game
		}
		if perr.Kind == scoreparse.KindHard {
			r.logger.Error("score_parse_failed", zap.String("tag", tag), zap.String("room", msg.Room), zap.Error(err))
			return r.formatter.Failed(game)
		}
		return r.formatter.Rejected(game, perr.Reason)
	case errors.Is(err, scores.ErrEmptySubmitter):
		r.logger.Warn("score_without_sender", zap.String("room", msg.Room))
		return ""
	default:
		r.logger.Error("score_submit_failed", zap.String("tag", tag), zap.String("room", msg.Room), zap.Error(err))
		return r.formatter.Failed(game)
	}
}

func (r *Router) command(ctx context.Context, msg *irisfast.Message, raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return r.formatter.Help()
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "help":
		return r.formatter.Help()
	case "scores":
		game, limit := parseScoresArgs(args)
		list, err := r.svc.Recent(ctx, msg.SenderID(), game, limit)
		return r.listReply(err, game, func() string {
			return r.formatter.Recent(scorepresenter.ToDTORecords(list))
		})
	case "today":
		game := ""
		if len(args) > 0 {
			game = strings.ToLower(args[0])
		}
		list, err := r.svc.Daily(ctx, game, "")
		return r.listReply(err, game, func() string {
			return r.formatter.Daily(game, r.svc.Today(), scorepresenter.ToDTORecords(list))
		})
	default:
		return r.formatter.UnknownCommand()
	}
}

func (r *Router) listReply(err error, game string, render func() string) string {
	switch {
	case err == nil:
		return render()
	case errors.Is(err, scores.ErrUnknownGame):
		return r.formatter.UnknownGame(game, domain.KnownGames())
	case errors.Is(err, scores.ErrEmptySubmitter):
		return ""
	default:
		r.logger.Error("score_query_failed", zap.String("game", game), zap.Error(err))
		return r.formatter.Failed(game)
	}
}

// parseScoresArgs reads "[game] [n]" in either order.
func parseScoresArgs(args []string) (string, int) {
	game, limit := "", 0
	for _, a := range args {
		if n, err := strconv.Atoi(a); err == nil {
			limit = n
			continue
		}
		if game == "" {
			game = strings.ToLower(a)
		}
	}
	return game, limit
}

// gameLabel maps a format tag to its game name for replies about unparsed posts.
func gameLabel(tag string) string {
	switch tag {
	case "Factle.app":
		return domain.GameFactle
	case "boxofficega.me":
		return domain.GameBoxOffice
	case "Daily Crosswordle":
		return domain.GameCrosswordle
	}
	return strings.ToLower(strings.TrimPrefix(tag, "#"))
}

func (r *Router) roomAllowed(room string) bool {
	if len(r.allowedRooms) == 0 {
		return true
	}
	_, ok := r.allowedRooms[normalizeRoom(room)]
	return ok
}

func normalizeRoom(room string) string {
	return strings.ToLower(strings.TrimSpace(room))
}
