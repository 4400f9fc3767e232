package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, stdin string, args ...string) (result, string) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(strings.NewReader(stdin), &out)
	require.NoError(t, app.Run(append([]string{"scorecheck"}, args...)))

	var res result
	if strings.HasPrefix(strings.TrimSpace(out.String()), "{") {
		require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	}
	return res, out.String()
}

func TestParseFromStdinDetectsTag(t *testing.T) {
	res, _ := runApp(t, "Wordle 945 3/6\n\n🟩🟩🟩🟩🟩", "parse", "--date", "2024-03-05", "--submitter", "u1")

	require.Equal(t, "Wordle", res.Tag)
	require.Nil(t, res.Error)
	require.NotNil(t, res.Response)
	require.Equal(t, "wordle", res.Response.Record.GameName)
	require.Equal(t, "3/6", res.Response.Record.GameScore)
	require.Equal(t, "2024-03-05", res.Response.Record.GameDate)
	require.Equal(t, "Added wordle for u1 on 2024-03-05 with score 3/6", res.Response.Message)
}

func TestParseFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "share.txt")
	require.NoError(t, os.WriteFile(path, []byte("#travle_usa #412 (3/9)\n✅✅✅"), 0o600))

	res, _ := runApp(t, "", "parse", "--date", "2024-03-05", path)
	require.Equal(t, "#travle_usa", res.Tag)
	require.Equal(t, "travle_usa", res.Response.Record.GameName)
	require.Equal(t, "3/9", res.Response.Record.GameScore)
}

func TestParseReportsRejection(t *testing.T) {
	res, _ := runApp(t, "Wordle 945 no luck", "parse", "--date", "2024-03-05")
	require.Nil(t, res.Response)
	require.Equal(t, "rejected", res.Error.Code)
	require.Equal(t, "Invalid format", res.Error.Message)
	require.True(t, res.Error.Retryable)

	res, _ = runApp(t, "#Emovi 🎬 #9\nnothing", "parse", "--date", "2024-03-05")
	require.Equal(t, "parse_failed", res.Error.Code)
	require.False(t, res.Error.Retryable)

	res, _ = runApp(t, "hello there", "parse")
	require.Equal(t, "unknown_tag", res.Error.Code)
}

func TestTagsCommand(t *testing.T) {
	_, out := runApp(t, "", "tags")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 11)
	require.Equal(t, "Daily Crosswordle", lines[0])
}

func TestIrisRequiresBaseURL(t *testing.T) {
	t.Setenv("IRIS_BASE_URL", "")
	var out bytes.Buffer
	err := newApp(strings.NewReader(""), &out).Run([]string{"scorecheck", "iris"})
	require.ErrorContains(t, err, "IRIS_BASE_URL")
}

func TestParseTrimsLeadingWhitespace(t *testing.T) {
	res, _ := runApp(t, "\n  Wordle 945 3/6\n🟩🟩🟩🟩🟩", "parse", "--date", "2024-03-05")
	require.Equal(t, "Wordle", res.Tag)
	require.Equal(t, "3/6", res.Response.Record.GameScore)

	res, _ = runApp(t, "  Wordle 945 4/6", "parse", "--tag", "Wordle", "--date", "2024-03-05")
	require.Equal(t, "4/6", res.Response.Record.GameScore)
}
