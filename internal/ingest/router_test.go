package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/park285/daily-scores-bot/internal/adapter/scorepresenter"
	"github.com/park285/daily-scores-bot/internal/irisfast"
	"github.com/park285/daily-scores-bot/internal/msgcat"
	"github.com/park285/daily-scores-bot/internal/scoreparse"
	"github.com/park285/daily-scores-bot/internal/service/scores"
)

type sent struct{ room, text string }

type fakeReplier struct {
	mu   sync.Mutex
	msgs []sent
	err  error
}

func (f *fakeReplier) SendText(_ context.Context, room, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, sent{room: room, text: message})
	return f.err
}

func (f *fakeReplier) last(t *testing.T) sent {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.msgs)
	return f.msgs[len(f.msgs)-1]
}

func (f *fakeReplier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

type prefix string

func (p prefix) Prefix() string { return string(p) }

func fixedNow() time.Time { return time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC) }

func newTestRouter(t *testing.T, rooms []string, dedupe scores.Deduper) (*Router, *fakeReplier) {
	t.Helper()
	parser := scoreparse.New(scoreparse.WithClock(fixedNow))
	svc, err := scores.NewService(parser, scores.NewMemoryRepository(), dedupe, scores.Config{Now: fixedNow}, nil)
	require.NoError(t, err)
	cat, err := msgcat.New("")
	require.NoError(t, err)

	replier := &fakeReplier{}
	r, err := NewRouter(svc, scorepresenter.NewFormatter(cat, prefix("!")), replier, Config{Prefix: "!", AllowedRooms: rooms}, nil)
	require.NoError(t, err)
	return r, replier
}

func message(room, userID, name, text string) *irisfast.Message {
	return &irisfast.Message{Room: room, Msg: text, Sender: &name, JSON: &irisfast.MessageJSON{UserID: userID}}
}

func TestHandleRecordsShare(t *testing.T) {
	r, replier := newTestRouter(t, nil, nil)

	err := r.Handle(context.Background(), message("family", "42", "Alice", "Wordle 945 3/6\n\n🟩🟩🟩🟩🟩"))
	require.NoError(t, err)
	require.Equal(t, sent{room: "family", text: "Added wordle for Alice on 2024-03-05 with score 3/6"}, replier.last(t))
}

func TestHandleRecordsShareWithLeadingWhitespace(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "wordle spaces", text: "  Wordle 945 3/6\n🟩🟩🟩🟩🟩", want: "Added wordle for Alice on 2024-03-05 with score 3/6"},
		{name: "worldle newline", text: "\n#Worldle #807 4/6 (100%)", want: "Added worldle for Alice on 2024-03-05 with score 4/6"},
		{name: "wordle tab and failure", text: "\t Wordle 945 X/6\n⬛⬛⬛⬛⬛", want: "Added wordle for Alice on 2024-03-05 with score X/6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, replier := newTestRouter(t, nil, nil)
			require.NoError(t, r.Handle(context.Background(), message("family", "42", "Alice", tt.text)))
			require.Equal(t, tt.want, replier.last(t).text)
		})
	}
}

func TestHandleIgnoresChatter(t *testing.T) {
	r, replier := newTestRouter(t, nil, nil)

	require.NoError(t, r.Handle(context.Background(), message("family", "42", "Alice", "good morning")))
	require.NoError(t, r.Handle(context.Background(), message("family", "42", "Alice", "   ")))
	require.NoError(t, r.Handle(context.Background(), nil))
	require.Zero(t, replier.count())
}

func TestHandleRoomAllowList(t *testing.T) {
	r, replier := newTestRouter(t, []string{" Family "}, nil)

	require.NoError(t, r.Handle(context.Background(), message("work", "42", "Alice", "Wordle 945 3/6")))
	require.Zero(t, replier.count())

	require.NoError(t, r.Handle(context.Background(), message("family", "42", "Alice", "Wordle 945 3/6")))
	require.Equal(t, 1, replier.count())
}

func TestHandleSoftRejection(t *testing.T) {
	r, replier := newTestRouter(t, nil, nil)

	require.NoError(t, r.Handle(context.Background(), message("family", "42", "Alice", "Wordle 945 gave up")))
	require.Equal(t, "Couldn't read that wordle result: Invalid format", replier.last(t).text)
}

func TestHandleHardFailure(t *testing.T) {
	r, replier := newTestRouter(t, nil, nil)

	require.NoError(t, r.Handle(context.Background(), message("family", "42", "Alice", "#Emovi 🎬 #514\nno squares")))
	require.Equal(t, "Something went wrong reading that emovi result. Please try posting it again.", replier.last(t).text)
}

func TestHandleDuplicate(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	store := scores.NewDedupeStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	r, replier := newTestRouter(t, nil, store)

	msg := message("family", "42", "Alice", "Wordle 945 3/6")
	require.NoError(t, r.Handle(context.Background(), msg))
	require.NoError(t, r.Handle(context.Background(), msg))
	require.Equal(t, "Alice already has a wordle score for 2024-03-05.", replier.last(t).text)
}

func TestHandleCommands(t *testing.T) {
	r, replier := newTestRouter(t, nil, nil)
	ctx := context.Background()

	require.NoError(t, r.Handle(ctx, message("family", "42", "Alice", "Wordle 945 3/6")))
	require.NoError(t, r.Handle(ctx, message("family", "7", "Bob", "Wordle 945 2/6")))

	require.NoError(t, r.Handle(ctx, message("family", "42", "Alice", "!scores")))
	require.Equal(t, "📊 Recent scores\n• 2024-03-05 wordle 3/6", replier.last(t).text)

	require.NoError(t, r.Handle(ctx, message("family", "42", "Alice", "!scores 5 wordle")))
	require.Equal(t, "📊 Recent scores\n• 2024-03-05 wordle 3/6", replier.last(t).text)

	require.NoError(t, r.Handle(ctx, message("family", "42", "Alice", "!today Wordle")))
	require.Equal(t, "🗓 wordle on 2024-03-05\n1. 7 2/6\n2. 42 3/6", replier.last(t).text)

	require.NoError(t, r.Handle(ctx, message("family", "42", "Alice", "!today chess")))
	require.True(t, strings.HasPrefix(replier.last(t).text, `Unknown game "chess". Known games: atlantic, boxoffice`))

	require.NoError(t, r.Handle(ctx, message("family", "42", "Alice", "!help")))
	require.Contains(t, replier.last(t).text, "!today <game>")

	require.NoError(t, r.Handle(ctx, message("family", "42", "Alice", "!dance")))
	require.Equal(t, "Unknown command. Send !help for the list.", replier.last(t).text)
}

func TestHandleReturnsDeliveryError(t *testing.T) {
	r, replier := newTestRouter(t, nil, nil)
	replier.err = errors.New("iris down")

	err := r.Handle(context.Background(), message("family", "42", "Alice", "!help"))
	require.ErrorContains(t, err, "iris down")
}

func TestNewRouterValidates(t *testing.T) {
	_, err := NewRouter(nil, nil, &fakeReplier{}, Config{}, nil)
	require.Error(t, err)
}

func TestParseScoresArgs(t *testing.T) {
	game, n := parseScoresArgs([]string{"Wordle", "3"})
	require.Equal(t, "wordle", game)
	require.Equal(t, 3, n)

	game, n = parseScoresArgs(nil)
	require.Empty(t, game)
	require.Zero(t, n)
}

func TestGameLabel(t *testing.T) {
	require.Equal(t, "travle_usa", gameLabel("#travle_usa"))
	require.Equal(t, "factle", gameLabel("Factle.app"))
	require.Equal(t, "crosswordle", gameLabel("Daily Crosswordle"))
	require.Equal(t, "atlantic", gameLabel("Atlantic"))
}
