package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Veysel440/go-ip-allowlist/internal/config"
	"github.com/Veysel440/go-ip-allowlist/internal/logging"
	"github.com/Veysel440/go-ip-allowlist/internal/server"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("config", slog.Any("err", err))
		os.Exit(1)
	}

	srv := server.New(cfg, log)
	httpSrv := srv.HTTPServer()

	go func() {
		log.Info("api listening",
			slog.String("url", "http://localhost:"+cfg.Port),
			slog.Any("allowlist", srv.Allowlist()),
			slog.Bool("trust_proxy", cfg.TrustProxy),
		)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	_ = srv.Shutdown(ctx)
	log.Info("stopped")
}
