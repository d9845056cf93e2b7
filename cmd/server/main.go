package main

import (
	"log/slog"
	"os"

	httpapi "sluff/internal/api/http"
	"sluff/internal/api/ws"
	"sluff/internal/config"
	"sluff/internal/ledger"
	"sluff/internal/service"

	"github.com/lmittmann/tint"
)

func main() {
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	cfg := config.Load()

	lg, err := ledger.Open(cfg.PostgresDSN, log)
	if err != nil {
		log.Error("ledger open failed", "error", err)
		os.Exit(1)
	}

	hub := ws.NewHub(log)
	svc := service.New(cfg, log, lg, hub)
	defer svc.Close()
	hub.SetGame(svc)

	r := httpapi.NewRouter(svc, hub)

	log.Info("listening", "addr", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
