package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/park285/daily-scores-bot/internal/obslog"
)

const (
	defaultBotPrefix    = "!"
	defaultTimezone     = "America/New_York"
	defaultDedupeTTL    = 172800
	defaultHistoryLimit = 10
	defaultReplyRate    = 5.0
	defaultEgressMode   = "http"
)

type AppConfig struct {
	IrisBaseURL string
	IrisWSURL   string

	BotPrefix string

	XUserID    string
	XUserEmail string
	XSessionID string

	RedisURL    string
	DatabaseURL string

	AllowedRooms []string

	ScoreTimezone     string
	ScoreDedupe       bool
	ScoreDedupeTTLSec int
	ScoreHistoryLimit int

	ReplyRatePerSec float64
	EgressMode      string
	EgressDryrun    bool

	MessagesDir string

	Log obslog.Options
}

// Load reads the process environment, after merging a .env file from the
// working directory when one exists. Existing variables win over .env values.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		IrisBaseURL: getEnv("IRIS_BASE_URL", ""),
		IrisWSURL:   getEnv("IRIS_WS_URL", ""),
		BotPrefix:   getEnv("BOT_PREFIX", defaultBotPrefix),

		XUserID:    getEnv("X_USER_ID", ""),
		XUserEmail: getEnv("X_USER_EMAIL", ""),
		XSessionID: getEnv("X_SESSION_ID", ""),

		RedisURL:    getEnv("REDIS_URL", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		AllowedRooms: splitList(os.Getenv("ALLOWED_ROOMS")),

		ScoreTimezone:     getEnv("SCORE_TIMEZONE", defaultTimezone),
		ScoreDedupe:       getEnvAsBool("SCORE_DEDUPE", true),
		ScoreDedupeTTLSec: getEnvAsInt("SCORE_DEDUPE_TTL", defaultDedupeTTL),
		ScoreHistoryLimit: getEnvAsInt("SCORE_HISTORY_LIMIT", defaultHistoryLimit),

		ReplyRatePerSec: getEnvAsFloat("REPLY_RATE_PER_SEC", defaultReplyRate),
		EgressMode:      strings.ToLower(getEnv("EGRESS_MODE", defaultEgressMode)),
		EgressDryrun:    getEnvAsBool("EGRESS_DRYRUN", false),

		MessagesDir: getEnv("MESSAGES_DIR", ""),

		Log: obslog.Options{
			Level:   getEnv("LOG_LEVEL", "info"),
			Format:  getEnv("LOG_FORMAT", "legacy"),
			Console: getEnvAsBool("LOG_TO_CONSOLE", true),
			ToFile:  getEnvAsBool("LOG_TO_FILE", false),
			File:    getEnv("LOG_FILE", "logs/score-bot.log"),
			Caller:  getEnvAsBool("LOG_CALLER", false),
		},
	}

	if cfg.IrisBaseURL == "" {
		return nil, errors.New("IRIS_BASE_URL is required")
	}
	if cfg.IrisWSURL == "" {
		return nil, errors.New("IRIS_WS_URL is required")
	}
	switch cfg.EgressMode {
	case "http", "ws", "auto":
	default:
		return nil, fmt.Errorf("EGRESS_MODE must be http, ws or auto: %q", cfg.EgressMode)
	}
	if _, err := time.LoadLocation(cfg.ScoreTimezone); err != nil {
		return nil, fmt.Errorf("SCORE_TIMEZONE: %w", err)
	}
	return cfg, nil
}

// Location resolves ScoreTimezone. An unknown zone falls back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.ScoreTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *AppConfig) DedupeTTL() time.Duration {
	return time.Duration(c.ScoreDedupeTTLSec) * time.Second
}

// Headers are the X-User-* values Iris expects on every request.
func (c *AppConfig) Headers() map[string]string {
	return map[string]string{
		"X-User-Id":    c.XUserID,
		"X-User-Email": c.XUserEmail,
		"X-Session-Id": c.XSessionID,
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvAsBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getEnvAsFloat(key string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
