package scores

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/park285/daily-scores-bot/internal/domain"
)

type Repository interface {
	InsertScore(ctx context.Context, rec *domain.ScoreRecord) error
	RecentScores(ctx context.Context, submitterID, game string, limit int) ([]*domain.ScoreRecord, error)
	ScoresByDate(ctx context.Context, game, date string) ([]*domain.ScoreRecord, error)
}

// game_date stays text: Atlantic posts carry their own, not always well-formed, date.
const schema = `
	CREATE TABLE IF NOT EXISTS game_history (
		id           BIGSERIAL PRIMARY KEY,
		game_date    TEXT NOT NULL,
		game_name    TEXT NOT NULL,
		game_score   TEXT,
		added_ts     TIMESTAMPTZ NOT NULL,
		submitter_id TEXT NOT NULL,
		game_dtl     TEXT,
		metric_01    DOUBLE PRECISION,
		metric_02    INTEGER,
		metric_03    INTEGER
	);
	CREATE INDEX IF NOT EXISTS game_history_submitter_idx ON game_history (submitter_id, added_ts DESC);
	CREATE INDEX IF NOT EXISTS game_history_game_date_idx ON game_history (game_name, game_date)`

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// EnsureSchema creates game_history when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure game_history schema: %w", err)
	}
	return nil
}

func (r *repository) InsertScore(ctx context.Context, rec *domain.ScoreRecord) error {
	if rec == nil {
		return fmt.Errorf("nil score record payload")
	}

	const query = `
		INSERT INTO game_history (
			game_date,
			game_name,
			game_score,
			added_ts,
			submitter_id,
			game_dtl,
			metric_01,
			metric_02,
			metric_03
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		rec.GameDate,
		rec.GameName,
		nullableString(rec.GameScore),
		rec.AddedAt,
		rec.SubmitterID,
		nullStringPtr(rec.GameDetail),
		nullFloatPtr(rec.Metric01),
		nullIntPtr(rec.Metric02),
		nullIntPtr(rec.Metric03),
	)
	if err != nil {
		return fmt.Errorf("insert game history: %w", err)
	}
	return nil
}

const selectColumns = `
			game_date,
			game_name,
			game_score,
			added_ts,
			submitter_id,
			game_dtl,
			metric_01,
			metric_02,
			metric_03`

func (r *repository) RecentScores(ctx context.Context, submitterID, game string, limit int) ([]*domain.ScoreRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT` + selectColumns + `
		FROM game_history
		WHERE submitter_id = $1 AND ($2 = '' OR game_name = $2)
		ORDER BY added_ts DESC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, submitterID, strings.TrimSpace(game), limit)
	if err != nil {
		return nil, fmt.Errorf("select recent scores: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows, limit)
}

func (r *repository) ScoresByDate(ctx context.Context, game, date string) ([]*domain.ScoreRecord, error) {
	query := `SELECT` + selectColumns + `
		FROM game_history
		WHERE game_name = $1 AND game_date = $2
		ORDER BY added_ts ASC`

	rows, err := r.db.QueryContext(ctx, query, game, date)
	if err != nil {
		return nil, fmt.Errorf("select scores by date: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows, 0)
}

func scanRecords(rows *sql.Rows, capacity int) ([]*domain.ScoreRecord, error) {
	out := make([]*domain.ScoreRecord, 0, capacity)
	for rows.Next() {
		var (
			rec    domain.ScoreRecord
			score  sql.NullString
			detail sql.NullString
			m1     sql.NullFloat64
			m2     sql.NullInt64
			m3     sql.NullInt64
		)
		if err := rows.Scan(
			&rec.GameDate,
			&rec.GameName,
			&score,
			&rec.AddedAt,
			&rec.SubmitterID,
			&detail,
			&m1,
			&m2,
			&m3,
		); err != nil {
			return nil, fmt.Errorf("scan game history: %w", err)
		}
		rec.GameScore = score.String
		if detail.Valid {
			s := detail.String
			rec.GameDetail = &s
		}
		if m1.Valid {
			f := m1.Float64
			rec.Metric01 = &f
		}
		if m2.Valid {
			n := int(m2.Int64)
			rec.Metric02 = &n
		}
		if m3.Valid {
			n := int(m3.Int64)
			rec.Metric03 = &n
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game history: %w", err)
	}
	return out, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloatPtr(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullIntPtr(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
