package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"smsbot/internal/config"
	"smsbot/internal/conversation"
	"smsbot/internal/httpserver"
	"smsbot/internal/logging"
	"smsbot/internal/observability"
	"smsbot/internal/providers/mekong"
	"smsbot/internal/service"
	"smsbot/internal/transport/telegram"
)

var errNotStarted = errors.New("transport not started")

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("load .env failed", "err", err)
		os.Exit(1)
	}
	cfg := config.LoadBot()
	logging.Init("sms-bot", cfg.LogFormat, cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	observability.Register(prometheus.DefaultRegisterer)

	gw := mekong.NewClient(
		cfg.GatewayUsername,
		cfg.GatewayPassword,
		cfg.GatewaySender,
		cfg.GatewayCD,
		cfg.GatewayInt,
		cfg.GatewayURL,
		cfg.GatewayTimeout,
	)
	relay := &service.RelayService{Gateway: gw, Timeout: cfg.GatewayTimeout}
	if cfg.BreakerEnabled {
		relay.Breaker = service.NewBreaker(cfg.BreakerMaxFailures, cfg.BreakerOpenTimeout)
	}

	bot, err := telegram.NewBot(cfg.TelegramBotToken, cfg.TelegramAPIEndpoint, cfg.TelegramPollTimeout)
	if err != nil {
		slog.Error("telegram connect failed", "err", err)
		os.Exit(1)
	}

	engine := conversation.NewEngine(relay, bot)
	dispatcher := telegram.NewDispatcher(engine)

	var ready atomic.Bool
	srv := httpserver.New()
	srv.Mux.Use(httpserver.Metrics(observability.HTTPRequests))
	srv.Mux.HandleFunc("/healthz", httpserver.Healthz())
	srv.Mux.HandleFunc("/readyz", httpserver.Readyz(2*time.Second, func(context.Context) error {
		if !ready.Load() {
			return errNotStarted
		}
		return nil
	}))

	pollErrCh := make(chan error, 1)
	switch cfg.TransportMode {
	case config.TransportWebhook:
		wh := &httpserver.Webhook{
			Dispatch:     dispatcher.DispatchUpdate,
			VerifySecret: telegram.VerifySecret,
			Secret:       cfg.WebhookSecret,
			SecretHeader: telegram.SecretHeader,
		}
		wh.Register(srv.Mux)
		if err := bot.SetWebhook(cfg.WebhookURL, cfg.WebhookSecret); err != nil {
			slog.Error("telegram set webhook failed", "err", err)
			os.Exit(1)
		}
		slog.Info("telegram webhook registered", "bot", bot.Username, "url", cfg.WebhookURL)
	default:
		if err := bot.DeleteWebhook(); err != nil {
			slog.Error("telegram delete webhook failed", "err", err)
			os.Exit(1)
		}
		poller := &telegram.Poller{Bot: bot, Dispatcher: dispatcher, Timeout: cfg.TelegramPollTimeout}
		go func() {
			pollErrCh <- poller.Run(ctx)
		}()
	}
	ready.Store(true)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpserver.Logging(srv.Mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpErrCh := make(chan error, 1)
	go func() {
		slog.Info("bot http listening", "port", cfg.Port, "mode", cfg.TransportMode)
		httpErrCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-pollErrCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("telegram polling failed", "err", err)
			os.Exit(1)
		}
		slog.Info("telegram update channel closed")
	case err := <-httpErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("bot http server failed", "err", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		slog.Info("bot shutdown", "signal", sig.String())
	}

	ready.Store(false)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = httpSrv.Shutdown(shutdownCtx)

	// In-flight sends are bounded by the gateway timeout.
	drained := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(cfg.GatewayTimeout + 5*time.Second):
		slog.Info("bot shutdown timeout waiting for conversations", "active_sessions", engine.ActiveSessions())
	}
}
