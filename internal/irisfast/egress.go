package irisfast

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Egress sends text replies to a room.
type Egress interface {
	SendText(ctx context.Context, room, message string) error
}

const (
	EgressHTTP = "http"
	EgressWS   = "ws"
	EgressAuto = "auto"
)

var errEgressUnavailable = errors.New("egress not available")

// NewEgress picks the reply transport. auto prefers the WebSocket while it is
// connected and falls back to HTTP once per message.
func NewEgress(mode string, dryrun bool, c *Client, ws *WebSocket, logger *zap.Logger) Egress {
	if logger == nil {
		logger = zap.NewNop()
	}
	var h Egress = &httpEgress{c: c}
	if dryrun {
		h = &dryrunEgress{transport: EgressHTTP, logger: logger}
	}
	w := &wsEgress{ws: ws, dryrun: dryrun, logger: logger}

	switch strings.ToLower(strings.TrimSpace(mode)) {
	case EgressWS:
		return w
	case EgressAuto:
		return &autoEgress{ws: w, http: h, logger: logger}
	default:
		return h
	}
}

type httpEgress struct{ c *Client }

func (h *httpEgress) SendText(ctx context.Context, room, message string) error {
	if h == nil || h.c == nil {
		return errEgressUnavailable
	}
	return h.c.SendMessage(ctx, room, message)
}

type dryrunEgress struct {
	transport string
	logger    *zap.Logger
}

func (d *dryrunEgress) SendText(_ context.Context, room, message string) error {
	d.logger.Info("egress_dryrun",
		zap.String("transport", d.transport),
		zap.String("room", room),
		zap.Int("length", len(message)),
	)
	return nil
}

// wsEgress writes ReplyRequest frames on the Iris WebSocket.
type wsEgress struct {
	ws     *WebSocket
	dryrun bool
	logger *zap.Logger
}

func (w *wsEgress) SendText(ctx context.Context, room, message string) error {
	if w == nil || w.ws == nil {
		return errEgressUnavailable
	}
	if w.dryrun {
		w.logger.Info("egress_dryrun", zap.String("transport", EgressWS), zap.String("room", room))
		return nil
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	return w.ws.WriteJSON(ctx, &ReplyRequest{Type: "text", Room: room, Data: message})
}

func (w *wsEgress) connected() bool {
	return w != nil && w.ws != nil && w.ws.State() == WSStateConnected
}

type autoEgress struct {
	ws     *wsEgress
	http   Egress
	logger *zap.Logger
}

func (a *autoEgress) SendText(ctx context.Context, room, message string) error {
	if a.ws.connected() {
		err := a.ws.SendText(ctx, room, message)
		if err == nil {
			return nil
		}
		a.logger.Warn("egress_fallback", zap.String("room", room), zap.Error(err))
	}
	return a.http.SendText(ctx, room, message)
}
