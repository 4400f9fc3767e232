package msgcat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)

	out, err := c.Render("score.added", map[string]any{
		"Game": "wordle", "Submitter": "u1", "Date": "2024-03-05", "Score": "3/6",
	})
	require.NoError(t, err)
	require.Equal(t, "Added wordle for u1 on 2024-03-05 with score 3/6", out)

	require.Contains(t, c.Keys(), "help.body")
	require.Contains(t, c.Keys(), "list.daily_item")
}

func TestRenderMissingKeyAndField(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)

	_, err = c.Render("score.nope", nil)
	require.ErrorContains(t, err, "template not found")

	_, err = c.Render("score.added", map[string]any{"Game": "wordle"})
	require.Error(t, err)
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10-local.yaml"), []byte("score:\n  added: \"ok {{.Score}}\"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	c, err := New(dir)
	require.NoError(t, err)
	out, err := c.Render("score.added", map[string]any{"Score": "4/6"})
	require.NoError(t, err)
	require.Equal(t, "ok 4/6", out)

	// untouched keys keep their defaults
	out, err = c.Render("command.unknown", map[string]any{"Prefix": "!"})
	require.NoError(t, err)
	require.Equal(t, "Unknown command. Send !help for the list.", out)
}

func TestOverrideDuplicateKeyAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	body := []byte("score:\n  added: x\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), body, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), body, 0o600))

	_, err := New(dir)
	require.ErrorContains(t, err, "duplicate override key")
}

func TestOverrideRejectsNonString(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("score:\n  added: 3\n"), 0o600))

	_, err := New(dir)
	require.ErrorContains(t, err, "unsupported value")
}
