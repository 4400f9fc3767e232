package scores

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/park285/daily-scores-bot/internal/domain"
)

const defaultDedupeTTL = 48 * time.Hour

// Deduper guards against the same result being pasted twice.
type Deduper interface {
	Claim(ctx context.Context, rec *domain.ScoreRecord) (bool, error)
	Release(ctx context.Context, rec *domain.ScoreRecord) error
}

type DedupeStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDedupeStore(rdb *redis.Client, ttl time.Duration) *DedupeStore {
	if ttl <= 0 {
		ttl = defaultDedupeTTL
	}
	return &DedupeStore{rdb: rdb, ttl: ttl}
}

func (s *DedupeStore) key(rec *domain.ScoreRecord) string {
	return "score:seen:" + rec.GameName + ":" + rec.GameDate + ":" + strings.TrimSpace(rec.SubmitterID)
}

// Claim returns false when the submitter already has a record for the game and date.
func (s *DedupeStore) Claim(ctx context.Context, rec *domain.ScoreRecord) (bool, error) {
	return s.rdb.SetNX(ctx, s.key(rec), rec.AddedAt.Format(time.RFC3339), s.ttl).Result()
}

func (s *DedupeStore) Release(ctx context.Context, rec *domain.ScoreRecord) error {
	return s.rdb.Del(ctx, s.key(rec)).Err()
}

func (s *DedupeStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
