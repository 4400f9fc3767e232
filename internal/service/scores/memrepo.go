package scores

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/park285/daily-scores-bot/internal/domain"
)

// memrepo keeps game_history in process; used when no DATABASE_URL is configured.
type memrepo struct {
	mu   sync.RWMutex
	rows []*domain.ScoreRecord
}

func NewMemoryRepository() Repository {
	return &memrepo{}
}

func (m *memrepo) InsertScore(ctx context.Context, rec *domain.ScoreRecord) error {
	if rec == nil {
		return nil
	}
	row := *rec
	m.mu.Lock()
	m.rows = append(m.rows, &row)
	m.mu.Unlock()
	return nil
}

func (m *memrepo) RecentScores(ctx context.Context, submitterID, game string, limit int) ([]*domain.ScoreRecord, error) {
	game = strings.TrimSpace(game)
	m.mu.RLock()
	var items []*domain.ScoreRecord
	for _, r := range m.rows {
		if r.SubmitterID != submitterID {
			continue
		}
		if game != "" && r.GameName != game {
			continue
		}
		row := *r
		items = append(items, &row)
	}
	m.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool { return items[i].AddedAt.After(items[j].AddedAt) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		return []*domain.ScoreRecord{}, nil
	}
	return items, nil
}

func (m *memrepo) ScoresByDate(ctx context.Context, game, date string) ([]*domain.ScoreRecord, error) {
	m.mu.RLock()
	items := []*domain.ScoreRecord{}
	for _, r := range m.rows {
		if r.GameName == game && r.GameDate == date {
			row := *r
			items = append(items, &row)
		}
	}
	m.mu.RUnlock()
	sort.SliceStable(items, func(i, j int) bool { return items[i].AddedAt.Before(items[j].AddedAt) })
	return items, nil
}
