package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/park285/daily-scores-bot/internal/config"
	"github.com/park285/daily-scores-bot/internal/ingest"
	"github.com/park285/daily-scores-bot/internal/irisfast"
	"github.com/park285/daily-scores-bot/internal/obslog"
	"github.com/park285/daily-scores-bot/internal/scorebuilder"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	flush, err := obslog.Init(cfg.Log)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer flush()
	logger := obslog.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := scorebuilder.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("score_init_failed", zap.Error(err))
	}
	defer func() { _ = deps.Close() }()

	client := irisfast.NewClient(cfg.IrisBaseURL,
		irisfast.WithHeaderProvider(cfg.Headers),
		irisfast.WithRateLimit(cfg.ReplyRatePerSec, 1),
	)
	ws := irisfast.NewWebSocket(cfg.IrisWSURL, 5, 30*time.Second)
	ws.SetHeaderProvider(cfg.Headers)
	ws.OnStateChange(func(state irisfast.WebSocketState) {
		logger.Info("ws_state", zap.String("state", state.String()))
	})

	egress := irisfast.NewEgress(cfg.EgressMode, cfg.EgressDryrun, client, ws, logger)
	router, err := ingest.NewRouter(deps.Service, deps.Formatter, egress, ingest.Config{
		Prefix:       cfg.BotPrefix,
		AllowedRooms: cfg.AllowedRooms,
	}, logger)
	if err != nil {
		logger.Fatal("router_init_failed", zap.Error(err))
	}

	ws.OnMessage(func(msg *irisfast.Message) {
		// Keep the read loop free while the reply is sent.
		go func() {
			if err := router.Handle(ctx, msg); err != nil {
				logger.Warn("reply_failed", zap.String("room", msg.Room), zap.Error(err))
			}
		}()
	})

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = ws.Connect(cctx)
	cancel()
	if err != nil {
		logger.Fatal("ws_connect_failed", zap.Error(err))
	}
	logger.Info("score_bot_started",
		zap.String("prefix", cfg.BotPrefix),
		zap.String("egress", cfg.EgressMode),
		zap.Strings("rooms", cfg.AllowedRooms),
	)

	<-ctx.Done()
	logger.Info("score_bot_stopping")
	sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer scancel()
	_ = ws.Close(sctx)
}
