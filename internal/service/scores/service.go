package scores

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/daily-scores-bot/internal/domain"
	"github.com/park285/daily-scores-bot/internal/scoreparse"
)

var (
	ErrDuplicateScore = errors.New("score already recorded for this game and date")
	ErrUnknownGame    = errors.New("unknown game")
	ErrEmptySubmitter = errors.New("submitter id is required")
)

// DuplicateError carries the rejected record; it matches ErrDuplicateScore.
type DuplicateError struct {
	Record *domain.ScoreRecord
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrDuplicateScore, e.Record.GameName, e.Record.GameDate)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateScore }

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

type Config struct {
	HistoryLimit int
	Now          func() time.Time
}

type SubmitRequest struct {
	Tag         string
	SubmitterID string
	Room        string
	Text        string
}

type Submission struct {
	ID      string
	Record  *domain.ScoreRecord
	Message string
}

type Service struct {
	parser *scoreparse.Parser
	repo   Repository
	dedupe Deduper
	cfg    Config
	logger *zap.Logger
}

// NewService wires the parser to storage. dedupe may be nil.
func NewService(parser *scoreparse.Parser, repo Repository, dedupe Deduper, cfg Config, logger *zap.Logger) (*Service, error) {
	if parser == nil {
		return nil, fmt.Errorf("score parser is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("score repository is required")
	}
	if cfg.HistoryLimit <= 0 || cfg.HistoryLimit > maxHistoryLimit {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		parser: parser,
		repo:   repo,
		dedupe: dedupe,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Submit parses one shared result and stores it. Leading whitespace before the
// tag is dropped so offsets line up with what DetectTag matched.
// Parse failures are returned unchanged so callers can inspect them with scoreparse.IsHard.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Submission, error) {
	submitter := strings.TrimSpace(req.SubmitterID)
	if submitter == "" {
		return nil, ErrEmptySubmitter
	}
	id := uuid.NewString()
	nominal := s.Today()

	rec, err := s.parser.Parse(req.Tag, nominal, submitter, scoreparse.TrimLeading(req.Text))
	if err != nil {
		s.logger.Info("score_rejected",
			zap.String("submission_id", id),
			zap.String("tag", req.Tag),
			zap.String("submitter", submitter),
			zap.String("room", req.Room),
			zap.Bool("hard", scoreparse.IsHard(err)),
			zap.Error(err),
		)
		return nil, err
	}

	claimed := false
	if s.dedupe != nil {
		ok, err := s.dedupe.Claim(ctx, rec)
		if err != nil {
			// Redis being down should not block score entry.
			s.logger.Warn("score_dedupe_unavailable", zap.String("submission_id", id), zap.Error(err))
		} else if !ok {
			s.logger.Info("score_duplicate",
				zap.String("submission_id", id),
				zap.String("game", rec.GameName),
				zap.String("date", rec.GameDate),
				zap.String("submitter", submitter),
			)
			return nil, &DuplicateError{Record: rec}
		} else {
			claimed = true
		}
	}

	if err := s.repo.InsertScore(ctx, rec); err != nil {
		if claimed {
			if rerr := s.dedupe.Release(ctx, rec); rerr != nil {
				s.logger.Warn("score_dedupe_release_failed", zap.String("submission_id", id), zap.Error(rerr))
			}
		}
		return nil, fmt.Errorf("persist score: %w", err)
	}

	s.logger.Info("score_added",
		zap.String("submission_id", id),
		zap.String("game", rec.GameName),
		zap.String("date", rec.GameDate),
		zap.String("score", rec.GameScore),
		zap.String("submitter", submitter),
	)
	return &Submission{
		ID:      id,
		Record:  rec,
		Message: ConfirmationText(rec),
	}, nil
}

// ConfirmationText is the plain reply for a stored record.
func ConfirmationText(rec *domain.ScoreRecord) string {
	if rec == nil {
		return ""
	}
	return fmt.Sprintf("Added %s for %s on %s with score %s", rec.GameName, rec.SubmitterID, rec.GameDate, rec.GameScore)
}

// Recent lists the newest records of a submitter. An empty game matches all games.
func (s *Service) Recent(ctx context.Context, submitterID, game string, limit int) ([]*domain.ScoreRecord, error) {
	submitterID = strings.TrimSpace(submitterID)
	if submitterID == "" {
		return nil, ErrEmptySubmitter
	}
	game = strings.TrimSpace(game)
	if game != "" && !domain.IsKnownGame(game) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, game)
	}
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}
	return s.repo.RecentScores(ctx, submitterID, game, limit)
}

// Daily lists the records of one game on one date, best score first.
// An empty date means today.
func (s *Service) Daily(ctx context.Context, game, date string) ([]*domain.ScoreRecord, error) {
	game = strings.TrimSpace(game)
	if !domain.IsKnownGame(game) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, game)
	}
	date = strings.TrimSpace(date)
	if date == "" {
		date = s.Today()
	}
	items, err := s.repo.ScoresByDate(ctx, game, date)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return betterScore(items[i], items[j]) })
	return items, nil
}

// Today is the nominal game date in the parser's zone.
func (s *Service) Today() string {
	return s.parser.NominalDate(s.cfg.Now())
}
