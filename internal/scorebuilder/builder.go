package scorebuilder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/daily-scores-bot/internal/adapter/scorepresenter"
	"github.com/park285/daily-scores-bot/internal/config"
	"github.com/park285/daily-scores-bot/internal/msgcat"
	"github.com/park285/daily-scores-bot/internal/scoreparse"
	"github.com/park285/daily-scores-bot/internal/service/scores"
)

const connectTimeout = 5 * time.Second

type Deps struct {
	Service   *scores.Service
	Parser    *scoreparse.Parser
	Repo      scores.Repository
	Dedupe    *scores.DedupeStore
	Catalog   *msgcat.Catalog
	Formatter *scorepresenter.Formatter

	closers []func() error
}

type prefixProvider struct{ prefix string }

func (p prefixProvider) Prefix() string { return p.prefix }

// New wires storage and the score service. Postgres is used when DATABASE_URL is
// set, otherwise records live in memory. Redis backs duplicate detection when
// REDIS_URL is set and SCORE_DEDUPE is on.
func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	deps := &Deps{}

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	deps.Catalog = catalog
	deps.Formatter = scorepresenter.NewFormatter(catalog, prefixProvider{prefix: cfg.BotPrefix})

	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		db, err := openPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, db.Close)
		if err := scores.EnsureSchema(ctx, db); err != nil {
			_ = deps.Close()
			return nil, err
		}
		deps.Repo = scores.NewRepository(db)
		logger.Info("score_repository", zap.String("backend", "postgres"))
	} else {
		deps.Repo = scores.NewMemoryRepository()
		logger.Warn("score_repository", zap.String("backend", "memory"))
	}

	if cfg.ScoreDedupe && strings.TrimSpace(cfg.RedisURL) != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			_ = deps.Close()
			return nil, err
		}
		deps.Dedupe = scores.NewDedupeStore(rdb, cfg.DedupeTTL())
		deps.closers = append(deps.closers, deps.Dedupe.Close)
	}

	loc := cfg.Location()
	deps.Parser = scoreparse.New(scoreparse.WithLocation(loc))

	var dedupe scores.Deduper
	if deps.Dedupe != nil {
		dedupe = deps.Dedupe
	}
	svc, err := scores.NewService(deps.Parser, deps.Repo, dedupe, scores.Config{HistoryLimit: cfg.ScoreHistoryLimit}, logger)
	if err != nil {
		_ = deps.Close()
		return nil, err
	}
	deps.Service = svc
	return deps, nil
}

func (d *Deps) Close() error {
	if d == nil {
		return nil
	}
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	pctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}
