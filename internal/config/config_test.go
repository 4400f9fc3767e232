package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("IRIS_BASE_URL", "http://iris:3000")
	t.Setenv("IRIS_WS_URL", "ws://iris:3000/ws")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)
	for _, k := range []string{"BOT_PREFIX", "ALLOWED_ROOMS", "SCORE_TIMEZONE", "SCORE_DEDUPE", "SCORE_DEDUPE_TTL",
		"SCORE_HISTORY_LIMIT", "REPLY_RATE_PER_SEC", "EGRESS_MODE", "EGRESS_DRYRUN", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "!", cfg.BotPrefix)
	require.Equal(t, "America/New_York", cfg.ScoreTimezone)
	require.True(t, cfg.ScoreDedupe)
	require.Equal(t, 48*time.Hour, cfg.DedupeTTL())
	require.Equal(t, 10, cfg.ScoreHistoryLimit)
	require.Equal(t, 5.0, cfg.ReplyRatePerSec)
	require.Equal(t, "http", cfg.EgressMode)
	require.Empty(t, cfg.AllowedRooms)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "legacy", cfg.Log.Format)
	require.Equal(t, "America/New_York", cfg.Location().String())
}

func TestFromEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BOT_PREFIX", "/")
	t.Setenv("ALLOWED_ROOMS", " family , ,games ")
	t.Setenv("SCORE_TIMEZONE", "Asia/Seoul")
	t.Setenv("SCORE_DEDUPE", "false")
	t.Setenv("SCORE_DEDUPE_TTL", "60")
	t.Setenv("SCORE_HISTORY_LIMIT", "not-a-number")
	t.Setenv("EGRESS_MODE", "AUTO")
	t.Setenv("EGRESS_DRYRUN", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "/", cfg.BotPrefix)
	require.Equal(t, []string{"family", "games"}, cfg.AllowedRooms)
	require.False(t, cfg.ScoreDedupe)
	require.Equal(t, time.Minute, cfg.DedupeTTL())
	require.Equal(t, 10, cfg.ScoreHistoryLimit)
	require.Equal(t, "auto", cfg.EgressMode)
	require.True(t, cfg.EgressDryrun)
	require.Equal(t, "Asia/Seoul", cfg.Location().String())
}

func TestFromEnvValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "missing base url", env: map[string]string{"IRIS_BASE_URL": ""}, want: "IRIS_BASE_URL"},
		{name: "missing ws url", env: map[string]string{"IRIS_WS_URL": ""}, want: "IRIS_WS_URL"},
		{name: "bad egress", env: map[string]string{"EGRESS_MODE": "smtp"}, want: "EGRESS_MODE"},
		{name: "bad zone", env: map[string]string{"SCORE_TIMEZONE": "Mars/Olympus"}, want: "SCORE_TIMEZONE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("EGRESS_MODE", "")
			t.Setenv("SCORE_TIMEZONE", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestHeaders(t *testing.T) {
	cfg := &AppConfig{XUserID: "u", XUserEmail: "e", XSessionID: "s"}
	require.Equal(t, map[string]string{"X-User-Id": "u", "X-User-Email": "e", "X-Session-Id": "s"}, cfg.Headers())
}
