package irisfast

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type recordedRequest struct {
	method string
	path   string
	userID string
	body   []byte
}

type fakeIris struct {
	mu       sync.Mutex
	requests []recordedRequest
	failures int32
	status   int
}

func (f *fakeIris) handle(ctx *fasthttp.RequestCtx) {
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		method: string(ctx.Method()),
		path:   string(ctx.Path()),
		userID: string(ctx.Request.Header.Peek("X-User-Id")),
		body:   append([]byte(nil), ctx.PostBody()...),
	})
	f.mu.Unlock()

	if atomic.AddInt32(&f.failures, -1) >= 0 {
		ctx.SetStatusCode(f.status)
		ctx.SetBodyString("upstream unavailable")
		return
	}
	switch string(ctx.Path()) {
	case "/config":
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"bot_name":"scores","bot_http_port":3000,"db_polling_rate":100,"message_send_rate":50}`)
	case "/reply":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString(`{"success":true}`)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

func (f *fakeIris) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newTestClient(t *testing.T, fake *fakeIris, opts ...Option) *Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: fake.handle}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	opts = append([]Option{
		WithDial(func(string) (net.Conn, error) { return ln.Dial() }),
		WithTimeout(2 * time.Second),
	}, opts...)
	return NewClient("http://iris.local/", opts...)
}

func TestClientSendMessage(t *testing.T) {
	fake := &fakeIris{}
	c := newTestClient(t, fake, WithHeaderProvider(func() map[string]string {
		return map[string]string{"X-User-Id": "bot-1", "X-Empty": " "}
	}))

	require.NoError(t, c.SendMessage(context.Background(), "room-1", "Added wordle"))

	reqs := fake.recorded()
	require.Len(t, reqs, 1)
	require.Equal(t, fasthttp.MethodPost, reqs[0].method)
	require.Equal(t, "/reply", reqs[0].path)
	require.Equal(t, "bot-1", reqs[0].userID)

	var body ReplyRequest
	require.NoError(t, json.Unmarshal(reqs[0].body, &body))
	require.Equal(t, ReplyRequest{Type: "text", Room: "room-1", Data: "Added wordle"}, body)
}

func TestClientGetConfig(t *testing.T) {
	c := newTestClient(t, &fakeIris{})
	cfg, err := c.GetConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, "scores", cfg.BotName)
	require.Equal(t, 3000, cfg.Port)
	require.Equal(t, 100, cfg.PollingSpeed)
}

func TestClientRetriesServerErrors(t *testing.T) {
	fake := &fakeIris{failures: 2, status: fasthttp.StatusBadGateway}
	c := newTestClient(t, fake, WithRetry(3))

	require.NoError(t, c.SendMessage(context.Background(), "room", "hi"))
	require.Len(t, fake.recorded(), 3)
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	fake := &fakeIris{failures: 5, status: fasthttp.StatusBadRequest}
	c := newTestClient(t, fake, WithRetry(3))

	err := c.SendMessage(context.Background(), "room", "hi")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, fasthttp.StatusBadRequest, statusErr.Code)
	require.Contains(t, statusErr.Body, "upstream unavailable")
	require.Len(t, fake.recorded(), 1)
}

func TestClientGivesUpAfterRetries(t *testing.T) {
	fake := &fakeIris{failures: 10, status: fasthttp.StatusServiceUnavailable}
	c := newTestClient(t, fake, WithRetry(2))

	err := c.SendMessage(context.Background(), "room", "hi")
	require.Error(t, err)
	require.Len(t, fake.recorded(), 2)
}

func TestClientRateLimitHonoursContext(t *testing.T) {
	c := newTestClient(t, &fakeIris{}, WithRateLimit(0.001, 1))
	require.NoError(t, c.SendMessage(context.Background(), "room", "first"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.SendMessage(ctx, "room", "second")
	require.ErrorContains(t, err, "rate limit wait")
}

func TestBackoffDuration(t *testing.T) {
	require.Equal(t, 100*time.Millisecond, backoffDuration(0))
	require.Equal(t, 200*time.Millisecond, backoffDuration(2))
	require.Equal(t, 3200*time.Millisecond, backoffDuration(10))
}
