// cmd/monitor — Telemetry server for the sniper bot dashboard.
//
// Serves the bot-written SQLite store as JSON endpoints, recomputed fresh
// on every request. The bot process stays the only writer; the monitor
// opens the store read-only per request and never blocks it.
//
// Config (env vars, optional .env file, optional MONITOR_CONFIG yaml):
//
//	STORE_PATH    — bot-written SQLite store  (default: "data/sniper_bot.db")
//	LISTEN_ADDR   — dashboard API address     (default: ":8080")
//	METRICS_ADDR  — Prometheus scrape address (default: ":9091")
//	REDIS_ADDR    — control-plane Redis; empty disables command publishing
//	WEBHOOK_URL   — alert webhook; empty falls back to log alerts
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sniper-telemetry/config"
	"sniper-telemetry/internal/control"
	"sniper-telemetry/internal/gateway"
	"sniper-telemetry/internal/logger"
	"sniper-telemetry/internal/metrics"
	"sniper-telemetry/internal/notification"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	log := logger.Init("monitor", slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("starting",
		slog.String("store", cfg.StorePath),
		slog.String("listen", cfg.ListenAddr),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Control-plane Redis is optional: without it the control endpoints
	// still acknowledge, they just have nobody to relay to.
	var ctrl *control.Publisher
	if cfg.RedisAddr != "" {
		ctrl, err = control.New(control.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Channel:  cfg.ControlChannel,
		}, log)
		if err != nil {
			log.Warn("redis unreachable, control commands will not be relayed",
				slog.String("addr", cfg.RedisAddr),
				slog.String("error", err.Error()),
			)
			ctrl = nil
		}
	}

	var notifier notification.Notifier = notification.NewLogNotifier()
	if cfg.WebhookURL != "" {
		notifier = notification.NewWebhookNotifier(cfg.WebhookURL)
	}

	met := metrics.New()
	metricsSrv := metrics.NewServer(cfg.MetricsAddr)
	metricsSrv.Start()

	gw := gateway.New(cfg, log, met, ctrl, notifier)
	go gw.Hub().Run(ctx)

	mux := http.NewServeMux()
	gw.RegisterRoutes(mux)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("serving", slog.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-sigCh
	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
	metricsSrv.Stop(shutdownCtx)
	if ctrl != nil {
		ctrl.Close()
	}
}
